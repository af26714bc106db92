package migrate

import (
	"context"
	"fmt"

	"github.com/samansa/movie-store/pkg/config"
	"github.com/samansa/movie-store/pkg/db"
	"github.com/samansa/movie-store/pkg/logger"
)

// MaybeRunDev executes migrations automatically when the app is running in dev mode and
// the feature flag is enabled.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	count, err := ValidateDir(DefaultDir)
	if err != nil {
		return fmt.Errorf("validating migrations: %w", err)
	}

	meta := map[string]any{"env": cfg.App.Env, "dir": DefaultDir, "migrations": count}
	ctx = logg.WithFields(ctx, meta)
	logg.Info(ctx, "migrate.autorun.start")

	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "migrate.autorun.complete")
	return nil
}
