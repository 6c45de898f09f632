package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"inkpot/app/config"
	"inkpot/app/markdown"
	"inkpot/app/models"
	"inkpot/app/repositories"
)

const seedAuthorID = "00000000-0000-4000-8000-00000000ad01"

type seedTag struct{ name, slug string }

type seedPost struct {
	title   string
	content string
	tags    []string
	draft   bool
}

var sampleTags = []seedTag{
	{"Go", "go"},
	{"Markdown", "markdown"},
	{"Writing", "writing"},
	{"Notes", "notes"},
}

var samplePosts = []seedPost{
	{
		title:   "Hello, Inkpot",
		content: "# Hello\n\nThis is the **first** post on a fresh *Inkpot* install.\n\nEdit or delete it, then write your own.",
		tags:    []string{"writing"},
	},
	{
		title:   "Markdown cheat sheet",
		content: "## Emphasis\n\n**bold**, *italic* and `code`.\n\n## Links\n\n[Goldmark](https://github.com/yuin/goldmark) renders posts. ![logo](https://example.com/logo.png)",
		tags:    []string{"markdown", "notes"},
	},
	{
		title:   "Concurrency notes",
		content: "### Channels\n\nDon't communicate by sharing memory; share memory by communicating.\n\n```go\nch := make(chan int)\n```",
		tags:    []string{"go", "notes"},
	},
	{
		title:   "Pagination that keeps its place",
		content: "Lists load six posts at a time. *Load more* appends the next window and stops when the total is reached.",
		tags:    []string{"go"},
	},
	{
		title:   "Unfinished thoughts",
		content: "This draft is not published and stays off the home page.",
		tags:    []string{"writing"},
		draft:   true,
	},
}

func newSeedCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load sample tags and posts into the local store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig(cmd)
			if cfg.Backend == config.BackendPostgREST {
				return errors.New("seed writes to the badger or postgres backend only")
			}
			be, err := openBackend(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer be.close()

			n, err := seed(cmd.Context(), be, force, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d posts\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "seed even when posts already exist")
	return cmd
}

// seed writes the sample data and returns the number of posts created. An
// existing post list is left alone unless force is set.
func seed(ctx context.Context, be *backend, force bool, now time.Time) (int, error) {
	if be.createTag == nil {
		return 0, errors.New("backend does not support seeding")
	}
	if !force {
		page, err := be.posts.List(ctx, 1, 0)
		if err != nil {
			return 0, err
		}
		if page.Total > 0 {
			return 0, nil
		}
	}

	ids := make(map[string]string, len(sampleTags))
	for _, t := range sampleTags {
		if err := be.createTag(ctx, t.name, t.slug); err != nil && !errors.Is(err, repositories.ErrSlugTaken) {
			return 0, fmt.Errorf("seed tag %s: %w", t.slug, err)
		}
		tag, err := be.tags.GetBySlug(ctx, t.slug)
		if err != nil {
			return 0, fmt.Errorf("seed tag %s: %w", t.slug, err)
		}
		ids[t.slug] = tag.ID
	}

	var authorID *string
	if be.saveProfile != nil {
		id := seedAuthorID
		if err := be.saveProfile(ctx, id, models.Author{Username: "inkpot"}); err != nil {
			return 0, fmt.Errorf("seed profile: %w", err)
		}
		authorID = &id
	}

	created := 0
	for i, p := range samplePosts {
		draft := &models.PostDraft{
			Title:     p.title,
			Content:   p.content,
			Excerpt:   markdown.Excerpt(p.content),
			Published: !p.draft,
			AuthorID:  authorID,
			CreatedAt: now.Add(time.Duration(i-len(samplePosts)) * time.Hour).UTC(),
		}
		for _, slug := range p.tags {
			draft.TagIDs = append(draft.TagIDs, ids[slug])
		}
		if _, err := be.posts.Create(ctx, draft); err != nil {
			return created, fmt.Errorf("seed post %q: %w", p.title, err)
		}
		created++
	}
	return created, nil
}
