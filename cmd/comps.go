package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yardsworth/dealfinder/internal/arv"
	"github.com/yardsworth/dealfinder/internal/comps"
	"github.com/yardsworth/dealfinder/internal/ingest"
	"github.com/yardsworth/dealfinder/internal/pipeline"
	"github.com/yardsworth/dealfinder/internal/store"
)

var compsCmd = &cobra.Command{
	Use:   "comps",
	Short: "Build the sold-comp universe and ARV cluster surface",
	Long:  "Normalizes a sold-homes CSV export, assigns condition tiers from neighborhood context, fits per-cell size curves, and writes comps.json and clusters.json.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		mkt, err := activeMarket()
		if err != nil {
			return err
		}

		return logRun(cmd, "comps", mkt.Slug, func(_ store.Store) (any, error) {
			now := time.Now()
			n := &comps.Normalizer{Bounds: mkt.Bounds, Now: now}

			cc, counts, err := ingest.ReadSoldComps(ctx, cfg.Data.SoldCSV, n)
			if err != nil {
				return nil, err
			}

			ds, err := pipeline.BuildCompDataset(cc, arv.DefaultConfig(), now)
			if err != nil {
				return nil, err
			}

			if err := ingest.WriteJSON(dataPath("comps.json"), ds.Comps); err != nil {
				return nil, err
			}
			if err := ingest.WriteJSON(dataPath("clusters.json"), ds.Clusters); err != nil {
				return nil, err
			}

			zap.L().Info("comp build complete",
				zap.String("market", mkt.Slug),
				zap.Int("comps", len(ds.Comps)),
				zap.Int("clusters", len(ds.Clusters)),
			)

			return map[string]any{
				"total":    counts.Total,
				"kept":     counts.Kept,
				"bad":      counts.Bad,
				"no_date":  counts.NoDate,
				"outlier":  counts.Outlier,
				"clusters": len(ds.Clusters),
			}, nil
		})
	},
}

func init() {
	rootCmd.AddCommand(compsCmd)
}
