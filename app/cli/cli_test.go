package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkpot/app/config"
	"inkpot/app/repositories"
)

// run executes the command tree with args and returns its stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "inkpot version "+Version+"\n", out)
}

func TestPreviewStdin(t *testing.T) {
	out, err := run(t, "# Title\n**bold**", "preview")
	require.NoError(t, err)
	assert.Equal(t, "<h1>Title</h1><br /><strong>bold</strong>\n", out)
}

func TestPreviewFull(t *testing.T) {
	out, err := run(t, "*hi*", "preview", "--full")
	require.NoError(t, err)
	assert.Contains(t, out, "<p><em>hi</em></p>")
}

func TestExcerptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "post.md")
	body := "## Intro\n" + strings.Repeat("word ", 60)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	out, err := run(t, "", "excerpt", path)
	require.NoError(t, err)
	out = strings.TrimSuffix(out, "\n")
	assert.True(t, strings.HasPrefix(out, "Intro word word"))
	assert.True(t, strings.HasSuffix(out, "..."))
	assert.Len(t, []rune(out), 153)
}

func TestExcerptMissingFile(t *testing.T) {
	_, err := run(t, "", "excerpt", filepath.Join(t.TempDir(), "missing.md"))
	assert.Error(t, err)
}

func TestSeedBadger(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("INKPOT_BACKEND", "badger")
	t.Setenv("INKPOT_BADGER_PATH", dir)

	out, err := run(t, "", "seed")
	require.NoError(t, err)
	assert.Equal(t, "seeded 5 posts\n", out)

	out, err = run(t, "", "seed")
	require.NoError(t, err)
	assert.Equal(t, "seeded 0 posts\n", out)

	store, err := repositories.Open(dir)
	require.NoError(t, err)
	defer store.Close()

	page, err := store.Posts().List(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total, "the draft stays unlisted")
	assert.Equal(t, "Pagination that keeps its place", page.Items[0].Title)
	require.NotNil(t, page.Items[0].Author)
	assert.Equal(t, "inkpot", page.Items[0].Author.Username)

	tags, err := store.Tags().List(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, len(sampleTags))
	counts := map[string]int{}
	for _, tag := range tags {
		counts[tag.Slug] = tag.PostCount
	}
	assert.Equal(t, map[string]int{"go": 2, "markdown": 1, "notes": 2, "writing": 2}, counts)
}

func TestSeedRejectsPostgREST(t *testing.T) {
	t.Setenv("INKPOT_BACKEND", "postgrest")
	_, err := run(t, "", "seed")
	assert.ErrorContains(t, err, "badger or postgres")
}

func TestSeedForceAddsAgain(t *testing.T) {
	store, err := repositories.OpenInMemory()
	require.NoError(t, err)
	defer store.Close()
	be := &backend{
		posts:    store.Posts(),
		comments: store.Comments(),
		tags:     store.Tags(),
		createTag: func(ctx context.Context, name, slug string) error {
			_, err := store.Tags().Create(ctx, name, slug)
			return err
		},
		close: func() {},
	}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	n, err := seed(context.Background(), be, false, now)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = seed(context.Background(), be, true, now)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	page, err := store.Posts().List(context.Background(), 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 8, page.Total)
}

func TestServeRejectsInvalidConfig(t *testing.T) {
	t.Setenv("INKPOT_BACKEND", "carrier-pigeon")
	_, err := run(t, "", "serve")
	assert.ErrorContains(t, err, `backend "carrier-pigeon"`)
}

func TestOpenBackendPostgREST(t *testing.T) {
	be, err := openBackend(context.Background(), config.Config{
		Backend:          config.BackendPostgREST,
		PostgRESTURL:     "http://localhost:3000",
		PostgRESTAPIKey:  "key",
		PostgRESTTimeout: time.Second,
	})
	require.NoError(t, err)
	defer be.close()
	assert.Nil(t, be.createTag)
	assert.NotNil(t, be.posts)
}

func TestClean(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("INKPOT_BACKEND", "badger")
	t.Setenv("INKPOT_BADGER_PATH", dir)

	_, err := run(t, "", "seed")
	require.NoError(t, err)

	out, err := run(t, "n\n", "clean")
	require.NoError(t, err)
	assert.Contains(t, out, "Operation cancelled")

	out, err = run(t, "", "clean", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Database cleaned successfully")

	store, err := repositories.Open(dir)
	require.NoError(t, err)
	defer store.Close()
	page, err := store.Posts().List(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestCleanRequiresBadger(t *testing.T) {
	t.Setenv("INKPOT_BACKEND", "postgres")
	_, err := run(t, "", "clean", "-y")
	assert.ErrorContains(t, err, "badger")
}
