package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/pawmart/pawmart/internal/api"
	"github.com/pawmart/pawmart/internal/assets"
	"github.com/pawmart/pawmart/internal/auth"
	"github.com/pawmart/pawmart/internal/config"
	"github.com/pawmart/pawmart/internal/db"
	"github.com/pawmart/pawmart/internal/gate"
	"github.com/pawmart/pawmart/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			sessionManager := auth.NewSessionManager(database, cfg.DB.Driver, cfg.SessionLifetime, !cfg.InsecureCookies)

			ctx := context.Background()
			oidcProvider, err := auth.NewProvider(ctx, cfg)
			if err != nil {
				return err
			}

			assetStore, localDir, err := newAssetStore(ctx, cfg)
			if err != nil {
				return err
			}

			userStore := store.NewUserStore(database)
			petStore := store.NewPetStore(database)
			productStore := store.NewProductStore(database)
			ownerGate := gate.New(assetStore)

			authHandlers := auth.NewHandlers(oidcProvider, sessionManager, userStore, !cfg.InsecureCookies)
			authMiddleware := auth.NewMiddleware(sessionManager, userStore)

			router := api.NewRouter(api.Deps{
				Sessions:       sessionManager,
				AuthHandlers:   authHandlers,
				AuthMW:         authMiddleware,
				Pets:           petStore,
				Products:       productStore,
				Gate:           ownerGate,
				Assets:         assetStore,
				AllowAnonymous: cfg.AllowAnonymousPets,
				LocalAssetDir:  localDir,
				AssetBaseURL:   cfg.Assets.BaseURL,
			})

			log.Printf("listening on %s", cfg.HTTP.Addr)
			return http.ListenAndServe(cfg.HTTP.Addr, router)
		},
	}
}

// newAssetStore builds the configured asset backend. The returned dir is
// non-empty only for the local backend, which the router serves itself.
func newAssetStore(ctx context.Context, cfg *config.Config) (assets.Store, string, error) {
	switch cfg.Assets.Backend {
	case "local":
		s, err := assets.NewLocal(cfg.Assets.LocalDir, cfg.Assets.BaseURL)
		if err != nil {
			return nil, "", err
		}
		return s, cfg.Assets.LocalDir, nil
	case "s3":
		s3 := cfg.Assets.S3
		s, err := assets.NewS3(ctx, s3.Endpoint, s3.Bucket, s3.AccessKey, s3.SecretKey, s3.UseSSL)
		if err != nil {
			return nil, "", err
		}
		return s, "", nil
	default:
		return nil, "", fmt.Errorf("unsupported assets backend %q", cfg.Assets.Backend)
	}
}
