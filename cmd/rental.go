package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yardsworth/dealfinder/internal/ingest"
	"github.com/yardsworth/dealfinder/internal/store"
)

var rentalCmd = &cobra.Command{
	Use:   "rental",
	Short: "Build the rental comp universe",
	Long:  "Normalizes a rental-listings CSV export, drops stale and out-of-band rows, and writes rental_comps.json.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		mkt, err := activeMarket()
		if err != nil {
			return err
		}

		return logRun(cmd, "rental", mkt.Slug, func(_ store.Store) (any, error) {
			rentals, err := ingest.ReadRentalComps(ctx, cfg.Data.RentalCSV, mkt.Bounds, time.Now())
			if err != nil {
				return nil, err
			}

			if err := ingest.WriteJSON(dataPath("rental_comps.json"), rentals); err != nil {
				return nil, err
			}

			zap.L().Info("rental comp build complete",
				zap.String("market", mkt.Slug),
				zap.Int("comps", len(rentals)),
			)

			return map[string]any{"comps": len(rentals)}, nil
		})
	},
}

func init() {
	rootCmd.AddCommand(rentalCmd)
}
