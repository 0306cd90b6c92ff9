package annotation

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mwantia/goindex/pkg/db/models"
	"github.com/mwantia/goindex/pkg/log"
)

// Store is the store surface the manager works on
type Store interface {
	GetResource(ctx context.Context, id uint) (*models.Resource, error)

	HasMetadata(ctx context.Context, resourceID uint, key, value string) (bool, error)
	CreateMetadata(ctx context.Context, entry *models.Metadata) error
	GetResourceMetadata(ctx context.Context, resourceID uint, key string) ([]models.Metadata, error)
	ListMetadataValues(ctx context.Context, key string) ([]string, error)
	ListInlineTags(ctx context.Context) ([]string, error)
	DeleteResourceMetadata(ctx context.Context, resourceID uint, key string) (int64, error)

	CreateDescription(ctx context.Context, description *models.Description) error
	GetResourceDescriptions(ctx context.Context, resourceID uint) ([]models.Description, error)
	UpdateDescriptionsBySource(ctx context.Context, resourceID uint, source string, values map[string]any) (int64, error)
}

// TagNormalizer rewrites a tag before it is stored
type TagNormalizer func(tag string) string

// NormalizeTag trims surrounding space and lower-cases the tag
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

type Option func(*Manager)

// WithTagNormalizer applies fn to every tag passed to AddTags
func WithTagNormalizer(fn TagNormalizer) Option {
	return func(m *Manager) {
		m.normalize = fn
	}
}

// Manager attaches tags and descriptions to indexed resources
type Manager struct {
	store     Store
	log       log.LoggerService
	normalize TagNormalizer
}

func NewManager(s Store, logger log.LoggerService, opts ...Option) *Manager {
	m := &Manager{
		store: s,
		log:   logger,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// SetDescription stores text for the resource under source. An existing
// description from the same source is overwritten; the model is only
// replaced for AI descriptions. Empty text is ignored.
func (m *Manager) SetDescription(ctx context.Context, id uint, text, source, model string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if source == "" {
		source = models.SourceManual
	}
	if model == "" {
		model = models.NoModel
	}

	if _, err := m.store.GetResource(ctx, id); err != nil {
		return fmt.Errorf("failed to load resource %d: %w", id, err)
	}

	values := map[string]any{"description": text}
	if source == models.SourceAI {
		values["model_used"] = model
	}

	updated, err := m.store.UpdateDescriptionsBySource(ctx, id, source, values)
	if err != nil {
		return fmt.Errorf("failed to update description: %w", err)
	}
	if updated > 0 {
		m.log.Debug("Updated %d '%s' description(s) of resource %d", updated, source, id)
		return nil
	}

	if err := m.store.CreateDescription(ctx, &models.Description{
		ResourceID: id,
		Text:       text,
		Source:     source,
		ModelUsed:  model,
	}); err != nil {
		return fmt.Errorf("failed to create description: %w", err)
	}

	m.log.Debug("Added '%s' description to resource %d", source, id)
	return nil
}

// AddTags attaches each tag once and returns how many were new. Matching
// is exact unless a normalizer is configured.
func (m *Manager) AddTags(ctx context.Context, id uint, tags ...string) (int, error) {
	if _, err := m.store.GetResource(ctx, id); err != nil {
		return 0, fmt.Errorf("failed to load resource %d: %w", id, err)
	}

	added := 0
	seen := make(map[string]struct{}, len(tags))

	for _, tag := range tags {
		if m.normalize != nil {
			tag = m.normalize(tag)
		}
		if strings.TrimSpace(tag) == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}

		exists, err := m.store.HasMetadata(ctx, id, models.TagKey, tag)
		if err != nil {
			return added, fmt.Errorf("failed to check tag '%s': %w", tag, err)
		}
		if exists {
			continue
		}

		if err := m.store.CreateMetadata(ctx, &models.Metadata{
			ResourceID: id,
			Key:        models.TagKey,
			Value:      tag,
		}); err != nil {
			return added, fmt.Errorf("failed to add tag '%s': %w", tag, err)
		}
		added++
	}

	if added > 0 {
		m.log.Debug("Added %d tag(s) to resource %d", added, id)
	}
	return added, nil
}

// ClearTags removes every tag of the resource and returns how many were removed
func (m *Manager) ClearTags(ctx context.Context, id uint) (int64, error) {
	if _, err := m.store.GetResource(ctx, id); err != nil {
		return 0, fmt.Errorf("failed to load resource %d: %w", id, err)
	}

	removed, err := m.store.DeleteResourceMetadata(ctx, id, models.TagKey)
	if err != nil {
		return 0, fmt.Errorf("failed to clear tags: %w", err)
	}

	m.log.Info("Removed %d tag(s) from resource %d", removed, id)
	return removed, nil
}

func (m *Manager) Tags(ctx context.Context, id uint) ([]string, error) {
	entries, err := m.store.GetResourceMetadata(ctx, id, models.TagKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	tags := make([]string, 0, len(entries))
	for _, entry := range entries {
		tags = append(tags, entry.Value)
	}
	return tags, nil
}

func (m *Manager) Descriptions(ctx context.Context, id uint) ([]models.Description, error) {
	descriptions, err := m.store.GetResourceDescriptions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list descriptions: %w", err)
	}
	return descriptions, nil
}

// AllTags returns every distinct tag in the index, sorted. Resource tags
// are merged with the comma-separated tags of apps, web accounts and pages.
func (m *Manager) AllTags(ctx context.Context) ([]string, error) {
	values, err := m.store.ListMetadataValues(ctx, models.TagKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	inline, err := m.store.ListInlineTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list inline tags: %w", err)
	}

	seen := make(map[string]struct{}, len(values))
	tags := make([]string, 0, len(values))
	add := func(tag string) {
		if _, ok := seen[tag]; ok || tag == "" {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	for _, value := range values {
		add(value)
	}
	for _, column := range inline {
		for _, tag := range strings.Split(column, ",") {
			add(strings.TrimSpace(tag))
		}
	}

	sort.Strings(tags)
	return tags, nil
}
