package store

import (
	"context"
	"errors"

	"github.com/mwantia/goindex/pkg/db/models"
	"github.com/mwantia/goindex/pkg/query"
)

var (
	ErrNotFound = errors.New("not found")
	ErrNoPath   = errors.New("sqlite path is required")
)

// ResourceWriter is the subset of resource operations the scanner needs
type ResourceWriter interface {
	GetResourceByPath(ctx context.Context, path string, kind models.ResourceKind) (*models.Resource, error)
	CreateResource(ctx context.Context, resource *models.Resource) error
	UpdateResourceStat(ctx context.Context, id uint, stat models.ResourceStat) error
}

// Batch is a transaction-bound ResourceWriter that can also annotate the
// resources it writes. Nothing written through it is durable until Commit
// returns.
type Batch interface {
	ResourceWriter

	CreateMetadata(ctx context.Context, entry *models.Metadata) error
	CreateDescription(ctx context.Context, description *models.Description) error

	Commit() error
	Rollback() error
}

// IndexStore defines the interface for index persistence
type IndexStore interface {
	ResourceWriter

	// Lifecycle
	Connect(ctx context.Context) error
	Close() error
	Migrate(ctx context.Context) error
	Health(ctx context.Context) error
	Backup(ctx context.Context, dest string) error
	Begin(ctx context.Context) (Batch, error)

	// Resource operations
	GetResource(ctx context.Context, id uint) (*models.Resource, error)
	ListResources(ctx context.Context, q query.Query) ([]models.Resource, error)
	DeleteResource(ctx context.Context, id uint) error

	// Metadata operations
	HasMetadata(ctx context.Context, resourceID uint, key, value string) (bool, error)
	CreateMetadata(ctx context.Context, entry *models.Metadata) error
	GetResourceMetadata(ctx context.Context, resourceID uint, key string) ([]models.Metadata, error)
	ListMetadataValues(ctx context.Context, key string) ([]string, error)
	DeleteResourceMetadata(ctx context.Context, resourceID uint, key string) (int64, error)

	// Description operations
	CreateDescription(ctx context.Context, description *models.Description) error
	GetResourceDescriptions(ctx context.Context, resourceID uint) ([]models.Description, error)
	UpdateDescriptionsBySource(ctx context.Context, resourceID uint, source string, values map[string]any) (int64, error)

	// App operations
	CreateApp(ctx context.Context, app *models.App) error
	GetApp(ctx context.Context, id uint) (*models.App, error)
	ListApps(ctx context.Context, q query.Query) ([]models.App, error)
	DeleteApp(ctx context.Context, id uint) error

	// Web account operations
	CreateWebAccount(ctx context.Context, account *models.WebAccount) error
	GetWebAccount(ctx context.Context, id uint) (*models.WebAccount, error)
	ListWebAccounts(ctx context.Context, q query.Query) ([]models.WebAccount, error)
	DeleteWebAccount(ctx context.Context, id uint) error

	// Page operations
	CreatePage(ctx context.Context, page *models.Page) error
	GetPage(ctx context.Context, id uint) (*models.Page, error)
	ListPages(ctx context.Context, q query.Query) ([]models.Page, error)
	DeletePage(ctx context.Context, id uint) error

	ListInlineTags(ctx context.Context) ([]string, error)

	// Relation operations
	CreateRelation(ctx context.Context, note *models.RelationNote) error
	FindRelationBetween(ctx context.Context, a, b models.EntityRef) (*models.RelationNote, error)
	ListRelations(ctx context.Context, ref models.EntityRef) ([]models.RelationNote, error)
	ListAllRelations(ctx context.Context) ([]models.RelationNote, error)
	DeleteRelation(ctx context.Context, id uint) error

	Stats(ctx context.Context) (*models.IndexStats, error)
}
