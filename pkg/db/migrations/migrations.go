package migrations

import (
	"context"
	"fmt"

	"github.com/mwantia/goindex/pkg/db/models"
	"gorm.io/gorm"
)

// Migration represents a versioned schema change
type Migration struct {
	Version     int
	Description string
	Up          func(*gorm.DB) error
	Down        func(*gorm.DB) error
}

// migrationHistory tracks applied migrations
type migrationHistory struct {
	ID          uint   `gorm:"primaryKey"`
	Version     int    `gorm:"uniqueIndex;not null"`
	Description string `gorm:"type:text"`
	AppliedAt   int64  `gorm:"autoCreateTime"`
}

// MigrationStatus represents the status of a migration
type MigrationStatus struct {
	Version     int
	Description string
	Applied     bool
	AppliedAt   int64
}

// Migrator applies the index schema migrations in version order
type Migrator struct {
	db         *gorm.DB
	migrations []Migration
}

// NewMigrator creates a new migrator instance
func NewMigrator(db *gorm.DB) *Migrator {
	return &Migrator{
		db:         db,
		migrations: allMigrations(),
	}
}

// Migrate runs all pending migrations and returns how many were applied.
// Tables created by older tools are adopted as-is, see adopt.
func (m *Migrator) Migrate(ctx context.Context) (int, error) {
	if err := m.db.WithContext(ctx).AutoMigrate(&migrationHistory{}); err != nil {
		return 0, fmt.Errorf("failed to create migration history table: %w", err)
	}

	applied, err := m.applied(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, migration := range m.migrations {
		if _, ok := applied[migration.Version]; ok {
			continue
		}

		if err := m.runMigration(ctx, migration); err != nil {
			return count, fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Description, err)
		}
		count++
	}

	return count, nil
}

// Rollback reverts the last applied migration
func (m *Migrator) Rollback(ctx context.Context) error {
	var last migrationHistory
	if err := m.db.WithContext(ctx).Order("version DESC").First(&last).Error; err != nil {
		return fmt.Errorf("no migrations to rollback: %w", err)
	}

	var migration *Migration
	for i := range m.migrations {
		if m.migrations[i].Version == last.Version {
			migration = &m.migrations[i]
			break
		}
	}
	if migration == nil {
		return fmt.Errorf("migration %d not found", last.Version)
	}

	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := migration.Down(tx); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		if err := tx.Delete(&last).Error; err != nil {
			return fmt.Errorf("failed to update migration history: %w", err)
		}
		return nil
	})
}

// Status returns the state of every known migration
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	applied, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]MigrationStatus, 0, len(m.migrations))
	for _, migration := range m.migrations {
		history, ok := applied[migration.Version]
		statuses = append(statuses, MigrationStatus{
			Version:     migration.Version,
			Description: migration.Description,
			Applied:     ok,
			AppliedAt:   history.AppliedAt,
		})
	}

	return statuses, nil
}

func (m *Migrator) applied(ctx context.Context) (map[int]migrationHistory, error) {
	var rows []migrationHistory
	if err := m.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query migration history: %w", err)
	}

	applied := make(map[int]migrationHistory, len(rows))
	for _, row := range rows {
		applied[row.Version] = row
	}
	return applied, nil
}

func (m *Migrator) runMigration(ctx context.Context, migration Migration) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := migration.Up(tx); err != nil {
			return err
		}

		return tx.Create(&migrationHistory{
			Version:     migration.Version,
			Description: migration.Description,
		}).Error
	})
}

// adopt creates the table of model when it is missing. An existing table is
// never rebuilt: only missing columns and the named indexes are added, so
// databases written by older tools keep their DDL and rows.
func adopt(db *gorm.DB, model any, indexes ...string) error {
	m := db.Migrator()
	if !m.HasTable(model) {
		return db.AutoMigrate(model)
	}

	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return fmt.Errorf("failed to parse model: %w", err)
	}

	for _, column := range stmt.Schema.DBNames {
		if m.HasColumn(model, column) {
			continue
		}
		if err := m.AddColumn(model, column); err != nil {
			return fmt.Errorf("failed to add column '%s' to %s: %w", column, stmt.Schema.Table, err)
		}
	}

	for _, index := range indexes {
		if m.HasIndex(model, index) {
			continue
		}
		if err := m.CreateIndex(model, index); err != nil {
			return fmt.Errorf("failed to create index '%s' on %s: %w", index, stmt.Schema.Table, err)
		}
	}

	return nil
}

// allMigrations returns all migrations in order. Unique indexes are left out
// of adopted tables since legacy rows may already violate them.
func allMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Initial index schema",
			Up: func(db *gorm.DB) error {
				if err := adopt(db, &models.Resource{}, "idx_files_filename", "idx_files_extension", "idx_files_modified"); err != nil {
					return err
				}
				if err := adopt(db, &models.Metadata{}, "idx_metadata_file"); err != nil {
					return err
				}
				return adopt(db, &models.Description{}, "idx_descriptions_file")
			},
			Down: func(db *gorm.DB) error {
				return db.Migrator().DropTable(
					&models.Description{},
					&models.Metadata{},
					&models.Resource{},
				)
			},
		},
		{
			Version:     2,
			Description: "Apps and web accounts",
			Up: func(db *gorm.DB) error {
				if err := adopt(db, &models.App{}); err != nil {
					return err
				}
				return adopt(db, &models.WebAccount{})
			},
			Down: func(db *gorm.DB) error {
				return db.Migrator().DropTable(
					&models.WebAccount{},
					&models.App{},
				)
			},
		},
		{
			Version:     3,
			Description: "Relation notes",
			Up: func(db *gorm.DB) error {
				return adopt(db, &models.RelationNote{}, "idx_relation_origin", "idx_relation_destination")
			},
			Down: func(db *gorm.DB) error {
				return db.Migrator().DropTable(&models.RelationNote{})
			},
		},
		{
			Version:     4,
			Description: "Pages without account",
			Up: func(db *gorm.DB) error {
				return adopt(db, &models.Page{})
			},
			Down: func(db *gorm.DB) error {
				return db.Migrator().DropTable(&models.Page{})
			},
		},
	}
}
