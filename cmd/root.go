package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yardsworth/dealfinder/internal/config"
	"github.com/yardsworth/dealfinder/internal/store"
)

var (
	cfg        *config.Config
	marketFlag string
)

var rootCmd = &cobra.Command{
	Use:   "dealfinder",
	Short: "Small-lot subdivision and build-to-rent deal finder",
	Long:  "Builds spatial comp indexes from sold-home data, estimates exit pricing, new-construction premiums, and rents, and scores for-sale listings for small-lot build-to-rent feasibility.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// activeMarket resolves the market from the --market flag, falling back
// to the configured default.
func activeMarket() (config.Market, error) {
	slug := marketFlag
	if slug == "" {
		slug = cfg.Market.Slug
	}
	return config.MarketBySlug(slug)
}

// initStore opens the sqlite cache and runs migrations.
func initStore(cmd *cobra.Command) (store.Store, error) {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(cmd.Context()); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

// logRun wraps a command body with run bookkeeping in the sqlite cache.
// The body's returned stats are persisted on completion; a body error
// marks the run failed and is returned unchanged.
func logRun(cmd *cobra.Command, name, market string, fn func(st store.Store) (any, error)) error {
	ctx := cmd.Context()

	st, err := initStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	run, err := st.StartRun(ctx, name, market)
	if err != nil {
		return err
	}

	stats, err := fn(st)
	if err != nil {
		if ferr := st.FailRun(ctx, run.ID, err); ferr != nil {
			zap.L().Warn("failed to record run failure", zap.Error(ferr))
		}
		return err
	}

	return st.CompleteRun(ctx, run.ID, stats)
}

// dataPath joins an artifact filename onto the configured data directory.
func dataPath(name string) string {
	return filepath.Join(cfg.Data.Dir, name)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&marketFlag, "market", "", "market slug (la, sd; default from config)")
}
