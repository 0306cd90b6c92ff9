package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mwantia/goindex/pkg/db/models"
	"github.com/mwantia/goindex/pkg/db/store"
	"github.com/mwantia/goindex/pkg/log"
)

// ErrInvalidLink is returned when a web resource lacks a url or a name
var ErrInvalidLink = errors.New("invalid link")

// MaxCommentLength caps imported cache comments
const MaxCommentLength = 500

// CacheFile pairs a cloud provider with the cache file its sync job writes
type CacheFile struct {
	Provider string
	File     string
}

// CacheFiles lists the caches written by the cloud sync jobs
var CacheFiles = []CacheFile{
	{Provider: "YouTube", File: "cache_youtube.json"},
	{Provider: "Google Drive", File: "cache_drive.json"},
	{Provider: "OneDrive", File: "cache_onedrive.json"},
	{Provider: "Dropbox", File: "cache_dropbox.json"},
}

// Store is the store surface the importer writes through. Every link is
// written in its own batch.
type Store interface {
	Begin(ctx context.Context) (store.Batch, error)
}

type cacheItem struct {
	Name    string `json:"nombre"`
	Link    string `json:"link"`
	Comment string `json:"comentario"`
}

// Report summarizes the import of one cache
type Report struct {
	Provider string
	Total    int
	Imported int
	Existing int
	Invalid  int
	// Missing is set when the cache file does not exist
	Missing bool
}

// Importer registers web links as resources
type Importer struct {
	store Store
	log   log.LoggerService
	now   func() time.Time
}

func NewImporter(s Store, logger log.LoggerService) *Importer {
	return &Importer{
		store: s,
		log:   logger,
		now:   time.Now,
	}
}

// ProviderTag turns a provider name into the tag stored on its links
func ProviderTag(provider string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(provider)), " ", "_")
}

// InsertWebResource stores url as a web resource named name. Links are
// deduplicated by exact url; an existing link returns its id and false.
// A non-empty provider is attached as a tag.
func (i *Importer) InsertWebResource(ctx context.Context, url, name, provider string) (uint, bool, error) {
	return i.insertLink(ctx, url, name, provider, "")
}

// insertLink writes the link, its provider tag and its comment together.
// Nothing is stored when any of the writes fails.
func (i *Importer) insertLink(ctx context.Context, url, name, provider, comment string) (uint, bool, error) {
	url = strings.TrimSpace(url)
	name = strings.TrimSpace(name)
	if url == "" || name == "" {
		return 0, false, fmt.Errorf("%w: url and name are required", ErrInvalidLink)
	}

	batch, err := i.store.Begin(ctx)
	if err != nil {
		return 0, false, err
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if err := batch.Rollback(); err != nil {
			i.log.Warn("Failed to roll back link '%s': %v", url, err)
		}
	}()

	existing, err := batch.GetResourceByPath(ctx, url, models.ResourceWeb)
	switch {
	case err == nil:
		return existing.ID, false, nil
	case !errors.Is(err, store.ErrNotFound):
		return 0, false, fmt.Errorf("failed to look up link: %w", err)
	}

	now := i.now().UTC()
	resource := &models.Resource{
		Path:       url,
		Filename:   name,
		Extension:  models.WebExtension,
		CreatedAt:  now,
		ModifiedAt: now,
		Kind:       models.ResourceWeb,
	}
	if err := batch.CreateResource(ctx, resource); err != nil {
		return 0, false, fmt.Errorf("failed to create link: %w", err)
	}

	if tag := ProviderTag(provider); tag != "" {
		if err := batch.CreateMetadata(ctx, &models.Metadata{
			ResourceID: resource.ID,
			Key:        models.TagKey,
			Value:      tag,
		}); err != nil {
			return 0, false, fmt.Errorf("failed to tag link: %w", err)
		}
	}

	if comment = truncate(strings.TrimSpace(comment), MaxCommentLength); comment != "" {
		if err := batch.CreateDescription(ctx, &models.Description{
			ResourceID: resource.ID,
			Text:       comment,
			Source:     models.SourceCloud,
			ModelUsed:  models.NoModel,
		}); err != nil {
			return 0, false, fmt.Errorf("failed to describe link: %w", err)
		}
	}

	if err := batch.Commit(); err != nil {
		return 0, false, fmt.Errorf("failed to commit link: %w", err)
	}
	committed = true

	i.log.Debug("Registered link '%s' as resource %d", url, resource.ID)
	return resource.ID, true, nil
}

// ImportCache reads a cloud cache, a JSON array of {nombre, link, comentario},
// and registers every new link under provider.
func (i *Importer) ImportCache(ctx context.Context, provider string, r io.Reader) (*Report, error) {
	var items []cacheItem
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode %s cache: %w", provider, err)
	}

	report := &Report{
		Provider: provider,
		Total:    len(items),
	}

	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			name = "Untitled"
		}

		_, created, err := i.insertLink(ctx, item.Link, name, provider, item.Comment)
		switch {
		case errors.Is(err, ErrInvalidLink):
			report.Invalid++
			continue
		case err != nil:
			return report, err
		case !created:
			report.Existing++
			continue
		}
		report.Imported++
	}

	i.log.Info("Imported %d new link(s) from %s (%d in cache)", report.Imported, provider, report.Total)
	return report, nil
}

// ImportCacheFile imports the cache at path. A missing file is reported, not an error.
func (i *Importer) ImportCacheFile(ctx context.Context, provider, path string) (*Report, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		i.log.Debug("No %s cache at '%s'", provider, path)
		return &Report{Provider: provider, Missing: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s cache: %w", provider, err)
	}
	defer f.Close()

	return i.ImportCache(ctx, provider, f)
}

// ImportDir imports every known cache file found in dir. A cache that fails
// to import is logged and the remaining caches are still processed.
func (i *Importer) ImportDir(ctx context.Context, dir string) ([]*Report, error) {
	reports := make([]*Report, 0, len(CacheFiles))
	var errs []error

	for _, cache := range CacheFiles {
		report, err := i.ImportCacheFile(ctx, cache.Provider, filepath.Join(dir, cache.File))
		if err != nil {
			i.log.Error("Failed to import %s cache: %v", cache.Provider, err)
			errs = append(errs, err)
			continue
		}
		reports = append(reports, report)
	}

	return reports, errors.Join(errs...)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
