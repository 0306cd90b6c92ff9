package importer_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwantia/goindex/pkg/db/models"
	"github.com/mwantia/goindex/pkg/db/store"
	"github.com/mwantia/goindex/pkg/db/store/storetest"
	"github.com/mwantia/goindex/pkg/importer"
	"github.com/mwantia/goindex/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderTag(t *testing.T) {
	assert.Equal(t, "google_drive", importer.ProviderTag(" Google Drive "))
	assert.Equal(t, "youtube", importer.ProviderTag("YouTube"))
	assert.Equal(t, "", importer.ProviderTag(""))
}

func TestInsertWebResource(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	imp := importer.NewImporter(s, log.NewNopLogger())

	id, created, err := imp.InsertWebResource(ctx, " https://example.com/doc ", "Doc", "OneDrive")
	require.NoError(t, err)
	assert.True(t, created)

	resource, err := s.GetResource(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/doc", resource.Path)
	assert.Equal(t, models.WebExtension, resource.Extension)
	assert.True(t, resource.IsWeb())

	tags, err := s.GetResourceMetadata(ctx, id, models.TagKey)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "onedrive", tags[0].Value)

	again, created, err := imp.InsertWebResource(ctx, "https://example.com/doc", "Other name", "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, id, again)

	_, _, err = imp.InsertWebResource(ctx, "", "Doc", "")
	assert.ErrorIs(t, err, importer.ErrInvalidLink)
	_, _, err = imp.InsertWebResource(ctx, "https://example.com", " ", "")
	assert.ErrorIs(t, err, importer.ErrInvalidLink)
}

// tagFailingStore hands out batches whose tag writes fail
type tagFailingStore struct {
	*store.SQLiteStore
}

func (s tagFailingStore) Begin(ctx context.Context) (store.Batch, error) {
	batch, err := s.SQLiteStore.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return tagFailingBatch{Batch: batch}, nil
}

type tagFailingBatch struct {
	store.Batch
}

func (tagFailingBatch) CreateMetadata(context.Context, *models.Metadata) error {
	return errors.New("disk I/O error")
}

func TestInsertWebResource_FailedTagLeavesNothing(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)

	failing := importer.NewImporter(tagFailingStore{SQLiteStore: s}, log.NewNopLogger())
	_, _, err := failing.InsertWebResource(ctx, "https://example.com/doc", "Doc", "OneDrive")
	require.Error(t, err)

	_, err = s.GetResourceByPath(ctx, "https://example.com/doc", models.ResourceWeb)
	assert.ErrorIs(t, err, store.ErrNotFound)

	imp := importer.NewImporter(s, log.NewNopLogger())
	id, created, err := imp.InsertWebResource(ctx, "https://example.com/doc", "Doc", "OneDrive")
	require.NoError(t, err)
	assert.True(t, created, "a retry registers the link again")

	tags, err := s.GetResourceMetadata(ctx, id, models.TagKey)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "onedrive", tags[0].Value)
}

func TestImportCache(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	imp := importer.NewImporter(s, log.NewNopLogger())

	long := strings.Repeat("c", 600)
	cache := `[
		{"nombre": "Video", "link": "https://youtu.be/1", "comentario": "` + long + `"},
		{"nombre": "", "link": "https://youtu.be/2"},
		{"nombre": "No link", "link": "  "},
		{"nombre": "Video again", "link": "https://youtu.be/1"}
	]`

	report, err := imp.ImportCache(ctx, "YouTube", strings.NewReader(cache))
	require.NoError(t, err)
	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 1, report.Existing)
	assert.Equal(t, 1, report.Invalid)

	first, err := s.GetResourceByPath(ctx, "https://youtu.be/1", models.ResourceWeb)
	require.NoError(t, err)
	assert.Equal(t, "Video", first.Filename)

	descriptions, err := s.GetResourceDescriptions(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, descriptions, 1)
	assert.Equal(t, models.SourceCloud, descriptions[0].Source)
	assert.Len(t, descriptions[0].Text, importer.MaxCommentLength)

	second, err := s.GetResourceByPath(ctx, "https://youtu.be/2", models.ResourceWeb)
	require.NoError(t, err)
	assert.Equal(t, "Untitled", second.Filename)

	_, err = imp.ImportCache(ctx, "YouTube", strings.NewReader("{not json"))
	assert.Error(t, err)
}

func TestImportDir(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cache_dropbox.json"),
		[]byte(`[{"nombre": "Plan", "link": "https://dropbox.com/plan", "comentario": "Archivo"}]`), 0644))

	s := storetest.New(t)
	imp := importer.NewImporter(s, log.NewNopLogger())

	reports, err := imp.ImportDir(ctx, dir)
	require.NoError(t, err)
	require.Len(t, reports, len(importer.CacheFiles))

	imported := 0
	missing := 0
	for _, r := range reports {
		imported += r.Imported
		if r.Missing {
			missing++
		}
	}
	assert.Equal(t, 1, imported)
	assert.Equal(t, 3, missing)

	resource, err := s.GetResourceByPath(ctx, "https://dropbox.com/plan", models.ResourceWeb)
	require.NoError(t, err)
	tags, err := s.GetResourceMetadata(ctx, resource.ID, models.TagKey)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "dropbox", tags[0].Value)
}
