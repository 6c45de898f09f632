package cli

import (
	"context"
	"fmt"

	"inkpot/app/config"
	"inkpot/app/models"
	"inkpot/app/repositories"
	"inkpot/app/repositories/postgres"
	"inkpot/app/repositories/postgrest"
)

// backend bundles the repositories of the configured storage.
type backend struct {
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	tags     repositories.TagRepository
	// createTag is nil for backends inkpot cannot write tags to.
	createTag func(ctx context.Context, name, slug string) error
	// saveProfile and clear are set for the embedded store only.
	saveProfile func(ctx context.Context, id string, author models.Author) error
	clear       func() error
	close       func()
}

func openBackend(ctx context.Context, cfg config.Config) (*backend, error) {
	switch cfg.Backend {
	case config.BackendBadger:
		store, err := repositories.Open(cfg.BadgerPath)
		if err != nil {
			return nil, err
		}
		tags := store.Tags()
		return &backend{
			posts:    store.Posts(),
			comments: store.Comments(),
			tags:     tags,
			createTag: func(ctx context.Context, name, slug string) error {
				_, err := tags.Create(ctx, name, slug)
				return err
			},
			saveProfile: store.SaveProfile,
			clear:       store.Clear,
			close:       func() { store.Close() },
		}, nil

	case config.BackendPostgres:
		store, err := postgres.NewStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, err
		}
		tags := store.Tags()
		return &backend{
			posts:    store.Posts(),
			comments: store.Comments(),
			tags:     tags,
			createTag: func(ctx context.Context, name, slug string) error {
				_, err := tags.CreateTag(ctx, name, slug)
				return err
			},
			close: store.Close,
		}, nil

	case config.BackendPostgREST:
		client := postgrest.NewClient(cfg.PostgRESTURL, cfg.PostgRESTAPIKey, cfg.PostgRESTTimeout)
		return &backend{
			posts:    postgrest.NewPostRepository(client),
			comments: postgrest.NewCommentRepository(client),
			tags:     postgrest.NewTagRepository(client),
			close:    func() {},
		}, nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}
