package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yardsworth/dealfinder/internal/ingest"
	"github.com/yardsworth/dealfinder/internal/store"
)

var rentsCmd = &cobra.Command{
	Use:   "rents",
	Short: "Convert a HUD SAFMR workbook into rents.json",
	Long:  "Parses the HUD Small Area Fair Market Rent xlsx and writes a zip-keyed index of 3BR and 4BR fair-market rents.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		mkt, err := activeMarket()
		if err != nil {
			return err
		}

		return logRun(cmd, "rents", mkt.Slug, func(_ store.Store) (any, error) {
			fmr, err := ingest.ReadSAFMR(cfg.Data.SAFMRXlsx)
			if err != nil {
				return nil, err
			}

			if err := ingest.WriteJSON(dataPath("rents.json"), fmr); err != nil {
				return nil, err
			}

			zap.L().Info("fair-market rent index built", zap.Int("zips", len(fmr)))

			return map[string]any{"zips": len(fmr)}, nil
		})
	},
}

func init() {
	rootCmd.AddCommand(rentsCmd)
}
