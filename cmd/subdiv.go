package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yardsworth/dealfinder/internal/comps"
	"github.com/yardsworth/dealfinder/internal/ingest"
	"github.com/yardsworth/dealfinder/internal/store"
	"github.com/yardsworth/dealfinder/internal/subdiv"
)

var subdivCmd = &cobra.Command{
	Use:   "subdiv",
	Short: "Extract subdivision-product comps with appreciation adjustment",
	Long:  "Filters the sold export down to recent small-lot subdivision sales, clusters them by proximity and sale window, adjusts each sale price to present value, and writes subdiv_comps.json.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		mkt, err := activeMarket()
		if err != nil {
			return err
		}

		return logRun(cmd, "subdiv", mkt.Slug, func(_ store.Store) (any, error) {
			now := time.Now()
			n := &comps.Normalizer{Bounds: mkt.Bounds, Now: now}

			cc, _, err := ingest.ReadSoldComps(ctx, cfg.Data.SoldCSV, n)
			if err != nil {
				return nil, err
			}

			appr, err := ingest.LoadApprIndex(dataPath("zhvi.json"))
			if err != nil {
				return nil, err
			}

			sc := subdiv.DetectAndAdjust(subdiv.DefaultConfig(), cc, appr, now)

			if err := ingest.WriteJSON(dataPath("subdiv_comps.json"), sc); err != nil {
				return nil, err
			}

			zap.L().Info("subdivision comp build complete",
				zap.String("market", mkt.Slug),
				zap.Int("comps", len(sc)),
				zap.Int("appr_zips", len(appr)),
			)

			return map[string]any{"comps": len(sc), "appr_zips": len(appr)}, nil
		})
	},
}

func init() {
	rootCmd.AddCommand(subdivCmd)
}
