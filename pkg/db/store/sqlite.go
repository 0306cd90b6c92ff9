package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/mwantia/goindex/pkg/db/migrations"
	"github.com/mwantia/goindex/pkg/db/models"
	"github.com/mwantia/goindex/pkg/query"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ IndexStore = (*SQLiteStore)(nil)

// SQLiteStore implements IndexStore using SQLite
type SQLiteStore struct {
	db   *gorm.DB
	path string
}

// DB returns the underlying GORM database instance
func (s *SQLiteStore) DB() *gorm.DB {
	return s.db
}

// Path returns the database file the store was opened on
func (s *SQLiteStore) Path() string {
	return s.path
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	Path         string
	MaxOpenConns int
	LogLevel     logger.LogLevel
}

// NewSQLiteStore opens the index database, creating its directory if needed
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, ErrNoPath
	}

	// Default to silent logging
	if cfg.LogLevel == 0 {
		cfg.LogLevel = logger.Silent
	}

	if dir := filepath.Dir(cfg.Path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn(cfg.Path)), &gorm.Config{
		Logger: logger.Default.LogMode(cfg.LogLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	conns := cfg.MaxOpenConns
	if conns <= 0 {
		conns = 1 // SQLite only supports 1 writer
	}
	sqlDB.SetMaxOpenConns(conns)
	sqlDB.SetMaxIdleConns(conns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &SQLiteStore{
		db:   db,
		path: cfg.Path,
	}, nil
}

func dsn(path string) string {
	params := url.Values{}
	params.Add("_pragma", "foreign_keys(1)")
	params.Add("_time_format", "sqlite")
	return path + "?" + params.Encode()
}

// Connect verifies the database is reachable
func (s *SQLiteStore) Connect(ctx context.Context) error {
	return s.Health(ctx)
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}

// Migrate runs database migrations
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := migrations.NewMigrator(s.db).Migrate(ctx); err != nil {
		return err
	}
	return nil
}

// Health checks database connectivity
func (s *SQLiteStore) Health(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Backup writes a consistent snapshot of the database to dest using the
// engine's VACUUM INTO. The live file is never copied directly.
func (s *SQLiteStore) Backup(ctx context.Context, dest string) error {
	if dest == "" {
		return fmt.Errorf("backup destination is required")
	}
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("backup destination '%s' already exists", dest)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	if err := s.db.WithContext(ctx).Exec("VACUUM INTO ?", dest).Error; err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	return nil
}

// Begin starts a write batch bound to a single transaction
func (s *SQLiteStore) Begin(ctx context.Context) (Batch, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin batch: %w", tx.Error)
	}
	return &sqliteBatch{SQLiteStore: &SQLiteStore{db: tx, path: s.path}}, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Resource operations

func (s *SQLiteStore) CreateResource(ctx context.Context, resource *models.Resource) error {
	return s.db.WithContext(ctx).Create(resource).Error
}

func (s *SQLiteStore) GetResource(ctx context.Context, id uint) (*models.Resource, error) {
	var resource models.Resource
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&resource).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &resource, nil
}

func (s *SQLiteStore) GetResourceByPath(ctx context.Context, path string, kind models.ResourceKind) (*models.Resource, error) {
	var resource models.Resource
	err := s.db.WithContext(ctx).
		Where("path = ? AND resource_type = ?", path, kind).
		First(&resource).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &resource, nil
}

// UpdateResourceStat refreshes only the columns a rescan may change
func (s *SQLiteStore) UpdateResourceStat(ctx context.Context, id uint, stat models.ResourceStat) error {
	result := s.db.WithContext(ctx).
		Model(&models.Resource{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"size":        stat.Size,
			"created_at":  stat.CreatedAt,
			"modified_at": stat.ModifiedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) ListResources(ctx context.Context, q query.Query) ([]models.Resource, error) {
	var resources []models.Resource
	err := s.db.WithContext(ctx).
		Model(&models.Resource{}).
		Scopes(q.Scope).
		Find(&resources).Error
	return resources, err
}

// DeleteResource removes a resource with its metadata and descriptions.
// Relation notes pointing at it are left in place.
func (s *SQLiteStore) DeleteResource(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("file_id = ?", id).Delete(&models.Metadata{}).Error; err != nil {
			return err
		}
		if err := tx.Where("file_id = ?", id).Delete(&models.Description{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Resource{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Metadata operations

func (s *SQLiteStore) HasMetadata(ctx context.Context, resourceID uint, key, value string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Metadata{}).
		Where("file_id = ? AND key = ? AND value = ?", resourceID, key, value).
		Count(&count).Error
	return count > 0, err
}

func (s *SQLiteStore) CreateMetadata(ctx context.Context, entry *models.Metadata) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *SQLiteStore) GetResourceMetadata(ctx context.Context, resourceID uint, key string) ([]models.Metadata, error) {
	var entries []models.Metadata
	err := s.db.WithContext(ctx).
		Where("file_id = ? AND key = ?", resourceID, key).
		Order("id ASC").
		Find(&entries).Error
	return entries, err
}

func (s *SQLiteStore) ListMetadataValues(ctx context.Context, key string) ([]string, error) {
	var values []string
	err := s.db.WithContext(ctx).
		Model(&models.Metadata{}).
		Where("key = ? AND value IS NOT NULL", key).
		Distinct("value").
		Order("value ASC").
		Pluck("value", &values).Error
	return values, err
}

func (s *SQLiteStore) DeleteResourceMetadata(ctx context.Context, resourceID uint, key string) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("file_id = ? AND key = ?", resourceID, key).
		Delete(&models.Metadata{})
	return result.RowsAffected, result.Error
}

// Description operations

func (s *SQLiteStore) CreateDescription(ctx context.Context, description *models.Description) error {
	return s.db.WithContext(ctx).Create(description).Error
}

func (s *SQLiteStore) GetResourceDescriptions(ctx context.Context, resourceID uint) ([]models.Description, error) {
	var descriptions []models.Description
	err := s.db.WithContext(ctx).
		Where("file_id = ?", resourceID).
		Order("id ASC").
		Find(&descriptions).Error
	return descriptions, err
}

func (s *SQLiteStore) UpdateDescriptionsBySource(ctx context.Context, resourceID uint, source string, values map[string]any) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&models.Description{}).
		Where("file_id = ? AND source = ?", resourceID, source).
		Updates(values)
	return result.RowsAffected, result.Error
}

// App operations

func (s *SQLiteStore) CreateApp(ctx context.Context, app *models.App) error {
	return s.db.WithContext(ctx).Create(app).Error
}

func (s *SQLiteStore) GetApp(ctx context.Context, id uint) (*models.App, error) {
	var app models.App
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&app).Error; err != nil {
		return nil, notFound(err)
	}
	return &app, nil
}

func (s *SQLiteStore) ListApps(ctx context.Context, q query.Query) ([]models.App, error) {
	var apps []models.App
	err := s.db.WithContext(ctx).Model(&models.App{}).Scopes(q.Scope).Find(&apps).Error
	return apps, err
}

func (s *SQLiteStore) DeleteApp(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.App{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Web account operations

func (s *SQLiteStore) CreateWebAccount(ctx context.Context, account *models.WebAccount) error {
	return s.db.WithContext(ctx).Create(account).Error
}

func (s *SQLiteStore) GetWebAccount(ctx context.Context, id uint) (*models.WebAccount, error) {
	var account models.WebAccount
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		return nil, notFound(err)
	}
	return &account, nil
}

func (s *SQLiteStore) ListWebAccounts(ctx context.Context, q query.Query) ([]models.WebAccount, error) {
	var accounts []models.WebAccount
	err := s.db.WithContext(ctx).Model(&models.WebAccount{}).Scopes(q.Scope).Find(&accounts).Error
	return accounts, err
}

func (s *SQLiteStore) DeleteWebAccount(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.WebAccount{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Page operations

func (s *SQLiteStore) CreatePage(ctx context.Context, page *models.Page) error {
	return s.db.WithContext(ctx).Create(page).Error
}

func (s *SQLiteStore) GetPage(ctx context.Context, id uint) (*models.Page, error) {
	var page models.Page
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&page).Error; err != nil {
		return nil, notFound(err)
	}
	return &page, nil
}

func (s *SQLiteStore) ListPages(ctx context.Context, q query.Query) ([]models.Page, error) {
	var pages []models.Page
	err := s.db.WithContext(ctx).Model(&models.Page{}).Scopes(q.Scope).Find(&pages).Error
	return pages, err
}

func (s *SQLiteStore) DeletePage(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Page{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListInlineTags returns the raw comma-separated tag columns of apps,
// web accounts and pages
func (s *SQLiteStore) ListInlineTags(ctx context.Context) ([]string, error) {
	var all []string
	for _, model := range []any{&models.App{}, &models.WebAccount{}, &models.Page{}} {
		var values []string
		err := s.db.WithContext(ctx).Model(model).
			Where("tags IS NOT NULL AND tags <> ''").
			Pluck("tags", &values).Error
		if err != nil {
			return nil, err
		}
		all = append(all, values...)
	}
	return all, nil
}

// Relation operations

func (s *SQLiteStore) CreateRelation(ctx context.Context, note *models.RelationNote) error {
	return s.db.WithContext(ctx).Create(note).Error
}

// FindRelationBetween returns the edge joining a and b in either direction
func (s *SQLiteStore) FindRelationBetween(ctx context.Context, a, b models.EntityRef) (*models.RelationNote, error) {
	var note models.RelationNote
	err := s.db.WithContext(ctx).
		Where("(origen_tabla = ? AND origen_id = ? AND destino_tabla = ? AND destino_id = ?)", a.Kind, a.ID, b.Kind, b.ID).
		Or("(origen_tabla = ? AND origen_id = ? AND destino_tabla = ? AND destino_id = ?)", b.Kind, b.ID, a.Kind, a.ID).
		First(&note).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &note, nil
}

// ListRelations returns every edge touching ref, newest first
func (s *SQLiteStore) ListRelations(ctx context.Context, ref models.EntityRef) ([]models.RelationNote, error) {
	var notes []models.RelationNote
	err := s.db.WithContext(ctx).
		Where("(origen_tabla = ? AND origen_id = ?)", ref.Kind, ref.ID).
		Or("(destino_tabla = ? AND destino_id = ?)", ref.Kind, ref.ID).
		Order("fecha_reg DESC, id DESC").
		Find(&notes).Error
	return notes, err
}

func (s *SQLiteStore) ListAllRelations(ctx context.Context) ([]models.RelationNote, error) {
	var notes []models.RelationNote
	err := s.db.WithContext(ctx).Order("id ASC").Find(&notes).Error
	return notes, err
}

func (s *SQLiteStore) DeleteRelation(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.RelationNote{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats counts the rows behind the statistics screens
func (s *SQLiteStore) Stats(ctx context.Context) (*models.IndexStats, error) {
	db := s.db.WithContext(ctx)
	stats := &models.IndexStats{}

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.Resources, db.Model(&models.Resource{})},
		{&stats.LocalResources, db.Model(&models.Resource{}).Where("resource_type = ?", models.ResourceLocal)},
		{&stats.WebResources, db.Model(&models.Resource{}).Where("resource_type = ?", models.ResourceWeb)},
		{&stats.DistinctTags, db.Model(&models.Metadata{}).Where("key = ?", models.TagKey).Distinct("value")},
		{&stats.WithoutDescription, db.Model(&models.Resource{}).Where("id NOT IN (SELECT file_id FROM descriptions)")},
		{&stats.WithoutTags, db.Model(&models.Resource{}).Where("id NOT IN (SELECT file_id FROM metadata WHERE key = ?)", models.TagKey)},
		{&stats.Apps, db.Model(&models.App{})},
		{&stats.WebAccounts, db.Model(&models.WebAccount{})},
		{&stats.Pages, db.Model(&models.Page{})},
		{&stats.Relations, db.Model(&models.RelationNote{})},
	}

	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to count statistics: %w", err)
		}
	}

	return stats, nil
}
