package scanner_test

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mwantia/goindex/pkg/db/models"
	"github.com/mwantia/goindex/pkg/db/store"
	"github.com/mwantia/goindex/pkg/db/store/storetest"
	"github.com/mwantia/goindex/pkg/log"
	"github.com/mwantia/goindex/pkg/query"
	"github.com/mwantia/goindex/pkg/scanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func listAll(t *testing.T, s *store.SQLiteStore) []models.Resource {
	t.Helper()
	q, err := query.Build(query.Resources, query.Predicates{Order: query.OrderName}, time.Now())
	require.NoError(t, err)
	resources, err := s.ListResources(context.Background(), q)
	require.NoError(t, err)
	return resources
}

func TestScan_RootNotFound(t *testing.T) {
	s := storetest.New(t)
	sc := scanner.NewScanner(s, scanner.DefaultRules(), log.NewNopLogger())

	_, err := sc.Scan(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, scanner.ErrRootNotFound)

	file := filepath.Join(t.TempDir(), "file.txt")
	writeFile(t, file, "x")
	_, err = sc.Scan(context.Background(), file)
	assert.ErrorIs(t, err, scanner.ErrRootNotFound)
}

func TestScan_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.pdf"), "a")
	writeFile(t, filepath.Join(root, "docs", "b.txt"), "bb")
	writeFile(t, filepath.Join(root, "docs", "deep", "c.md"), "ccc")

	s := storetest.New(t)
	sc := scanner.NewScanner(s, scanner.DefaultRules(), log.NewNopLogger())

	first, err := sc.Scan(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, 3, first.New)
	assert.Equal(t, 0, first.Updated)
	assert.NotEmpty(t, first.RunID)

	second, err := sc.Scan(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, 0, second.New)
	assert.Equal(t, 3, second.Updated)
	assert.NotEqual(t, first.RunID, second.RunID)

	resources := listAll(t, s)
	require.Len(t, resources, 3)
	assert.Equal(t, "a.pdf", resources[0].Filename)
	assert.Equal(t, ".pdf", resources[0].Extension)
	assert.Equal(t, int64(1), resources[0].Size)
	assert.Equal(t, models.ResourceLocal, resources[0].Kind)
}

func TestScan_RefreshesStatAndKeepsAnnotations(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	path := filepath.Join(root, "notes.txt")
	writeFile(t, path, "short")

	s := storetest.New(t)
	sc := scanner.NewScanner(s, scanner.DefaultRules(), log.NewNopLogger())

	_, err := sc.Scan(ctx, root)
	require.NoError(t, err)

	resource, err := s.GetResourceByPath(ctx, path, models.ResourceLocal)
	require.NoError(t, err)
	require.NoError(t, s.CreateMetadata(ctx, &models.Metadata{ResourceID: resource.ID, Key: models.TagKey, Value: "work"}))
	require.NoError(t, s.CreateDescription(ctx, &models.Description{ResourceID: resource.ID, Text: "kept", Source: models.SourceManual}))

	writeFile(t, path, "a much longer content")
	report, err := sc.Scan(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Updated)

	refreshed, err := s.GetResource(ctx, resource.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(len("a much longer content")), refreshed.Size)

	tags, err := s.GetResourceMetadata(ctx, resource.ID, models.TagKey)
	require.NoError(t, err)
	assert.Len(t, tags, 1)

	descriptions, err := s.GetResourceDescriptions(ctx, resource.ID)
	require.NoError(t, err)
	assert.Len(t, descriptions, 1)
}

func TestScan_Exclusions(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep.pdf"), "x")
	writeFile(t, filepath.Join(root, "desktop.ini"), "x")
	writeFile(t, filepath.Join(root, "Thumbs.db"), "x")
	writeFile(t, filepath.Join(root, "setup.TMP"), "x")
	writeFile(t, filepath.Join(root, ".hidden"), "x")
	writeFile(t, filepath.Join(root, "~$lock.docx"), "x")
	writeFile(t, filepath.Join(root, ".git", "config.txt"), "x")
	writeFile(t, filepath.Join(root, "$RECYCLE.BIN", "gone.pdf"), "x")
	writeFile(t, filepath.Join(root, "sub", "also.pdf"), "x")

	s := storetest.New(t)
	sc := scanner.NewScanner(s, scanner.DefaultRules(), log.NewNopLogger())

	report, err := sc.Scan(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, 2, report.New)
	assert.Equal(t, 5, report.Skipped)
	assert.Equal(t, 0, report.Errored)

	resources := listAll(t, s)
	require.Len(t, resources, 2)
	assert.Equal(t, "also.pdf", resources[0].Filename)
	assert.Equal(t, "keep.pdf", resources[1].Filename)
}

func TestScan_TrailingDotHasNoExtension(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	path := filepath.Join(root, "report.")
	writeFile(t, path, "x")
	writeFile(t, filepath.Join(root, "README"), "x")

	s := storetest.New(t)
	sc := scanner.NewScanner(s, scanner.DefaultRules(), log.NewNopLogger())
	_, err := sc.Scan(ctx, root)
	require.NoError(t, err)

	resource, err := s.GetResourceByPath(ctx, path, models.ResourceLocal)
	require.NoError(t, err)
	assert.Equal(t, "", resource.Extension)

	readme, err := s.GetResourceByPath(ctx, filepath.Join(root, "README"), models.ResourceLocal)
	require.NoError(t, err)
	assert.Equal(t, "", readme.Extension)
}

func TestScan_RootWithSkippedPrefixIsScanned(t *testing.T) {
	root := filepath.Join(t.TempDir(), ".archive")
	writeFile(t, filepath.Join(root, "a.pdf"), "x")

	s := storetest.New(t)
	sc := scanner.NewScanner(s, scanner.DefaultRules(), log.NewNopLogger())

	report, err := sc.Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, report.New)
}

func TestScan_TruncatesLongFilenames(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	name := strings.Repeat("n", 200) + ".txt"
	path := filepath.Join(root, name)
	writeFile(t, path, "x")

	s := storetest.New(t)
	sc := scanner.NewScanner(s, scanner.DefaultRules(), log.NewNopLogger())

	_, err := sc.Scan(ctx, root)
	require.NoError(t, err)

	resource, err := s.GetResourceByPath(ctx, path, models.ResourceLocal)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("n", 143)+"....txt", resource.Filename)
	assert.Len(t, resource.Filename, scanner.MaxFilenameLength)
	assert.Equal(t, path, resource.Path)
}

func TestScan_LongPathFallback(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	long := filepath.Join(root, "unreachable.txt")
	writeFile(t, long, "content")
	writeFile(t, filepath.Join(root, "ok.txt"), "x")

	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	stat := func(path string) (fs.FileInfo, error) {
		if strings.HasSuffix(path, "unreachable.txt") {
			return nil, fs.ErrNotExist
		}
		return os.Stat(path)
	}

	s := storetest.New(t)
	sc := scanner.NewScanner(s, scanner.DefaultRules(), log.NewNopLogger(),
		scanner.WithStat(stat),
		scanner.WithClock(func() time.Time { return fixed }),
		scanner.WithPathLengthLimit(len(root)+5))

	report, err := sc.Scan(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, 2, report.New)
	assert.Equal(t, 0, report.Errored)

	resource, err := s.GetResourceByPath(ctx, long, models.ResourceLocal)
	require.NoError(t, err)
	assert.Equal(t, int64(0), resource.Size)
	assert.True(t, fixed.Equal(resource.ModifiedAt))
	assert.Equal(t, "unreachable.txt", resource.Filename)

	report, err = sc.Scan(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, 0, report.New)
	assert.Equal(t, 2, report.Updated)

	again, err := s.GetResource(ctx, resource.ID)
	require.NoError(t, err)
	assert.True(t, fixed.Equal(again.ModifiedAt), "fallback rows are left untouched")
}

func TestScan_StatErrorIsCounted(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	broken := filepath.Join(root, "broken.txt")
	writeFile(t, broken, "x")
	writeFile(t, filepath.Join(root, "fine.txt"), "x")

	stat := func(path string) (fs.FileInfo, error) {
		if path == broken {
			return nil, fs.ErrPermission
		}
		return os.Stat(path)
	}

	s := storetest.New(t)
	sc := scanner.NewScanner(s, scanner.DefaultRules(), log.NewNopLogger(),
		scanner.WithStat(stat),
		scanner.WithPathLengthLimit(4096))

	report, err := sc.Scan(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, 1, report.New)
	assert.Equal(t, 1, report.Errored)

	_, err = s.GetResourceByPath(ctx, broken, models.ResourceLocal)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestScan_CommitsInBatches(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	for _, name := range []string{"1.txt", "2.txt", "3.txt", "4.txt", "5.txt"} {
		writeFile(t, filepath.Join(root, name), name)
	}

	s := storetest.New(t)
	sc := scanner.NewScanner(s, scanner.DefaultRules(), log.NewNopLogger(), scanner.WithBatchSize(2))

	report, err := sc.Scan(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, 5, report.New)
	assert.Equal(t, 5, report.Total())
	assert.Len(t, listAll(t, s), 5)
}

func TestScan_RecencyEndToEnd(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	now := time.Now()

	recent := filepath.Join(root, "recent.txt")
	old := filepath.Join(root, "old.txt")
	writeFile(t, recent, "new")
	writeFile(t, old, "old")

	past := now.AddDate(0, 0, -30)
	require.NoError(t, os.Chtimes(old, past, past))

	s := storetest.New(t)
	sc := scanner.NewScanner(s, scanner.DefaultRules(), log.NewNopLogger())
	_, err := sc.Scan(ctx, root)
	require.NoError(t, err)

	q, err := query.Build(query.Resources, query.Predicates{Days: query.ParseDays("7")}, now)
	require.NoError(t, err)

	resources, err := s.ListResources(ctx, q)
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, "recent.txt", resources[0].Filename)
}
