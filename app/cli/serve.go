package cli

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"inkpot/app/controllers"
	"inkpot/app/routes"
	"inkpot/app/services"
	"inkpot/app/sessions"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP front end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig(cmd)
			if addr != "" {
				cfg.HTTPAddr = addr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			log := slog.Default()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			be, err := openBackend(ctx, cfg)
			if err != nil {
				return err
			}
			defer be.close()

			blog := services.NewBlogService(be.posts, be.comments, be.tags).WithLogger(log)
			store := sessions.NewStore(cfg.SessionSecret, cfg.SessionMax, cfg.SessionTTL, controllers.NewVisitorFunc(blog, cfg.PageSize))
			store.SetSecure(cfg.SessionSecure)
			handler, err := routes.SetupRoutes(routes.Deps{
				Blog:           blog,
				Sessions:       store,
				Logger:         log,
				AllowedOrigins: cfg.AllowedOrigins,
				RequestTimeout: cfg.RequestTimeout,
			})
			if err != nil {
				return err
			}
			log.Info("starting inkpot", "backend", cfg.Backend, "page_size", cfg.PageSize)
			return routes.StartServer(ctx, cfg.HTTPAddr, handler, log, nil)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides http_addr)")
	return cmd
}
