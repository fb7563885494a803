package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yardsworth/dealfinder/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load scraped cache files into the sqlite store",
	Long:  "Imports coordinate-keyed parcel, zoning, and slope caches produced by the county scrapers so the enrich pass can stamp listings without re-fetching.",
}

var importParcelsCmd = &cobra.Command{
	Use:   "parcels <file>",
	Short: "Import a parcel cache JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mkt, err := activeMarket()
		if err != nil {
			return err
		}

		return logRun(cmd, "import-parcels", mkt.Slug, func(st store.Store) (any, error) {
			var records map[string]store.ParcelRecord
			if err := readJSONFile(args[0], &records); err != nil {
				return nil, err
			}
			if err := st.UpsertParcels(cmd.Context(), records); err != nil {
				return nil, err
			}
			zap.L().Info("imported parcels", zap.Int("records", len(records)))
			return map[string]any{"records": len(records)}, nil
		})
	},
}

var importZoningCmd = &cobra.Command{
	Use:   "zoning <file>",
	Short: "Import a zoning cache JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mkt, err := activeMarket()
		if err != nil {
			return err
		}

		return logRun(cmd, "import-zoning", mkt.Slug, func(st store.Store) (any, error) {
			var records map[string]store.ZoningRecord
			if err := readJSONFile(args[0], &records); err != nil {
				return nil, err
			}
			if err := st.UpsertZoning(cmd.Context(), records); err != nil {
				return nil, err
			}
			zap.L().Info("imported zoning", zap.Int("records", len(records)))
			return map[string]any{"records": len(records)}, nil
		})
	},
}

var importSlopesCmd = &cobra.Command{
	Use:   "slopes <file>",
	Short: "Import a slope cache JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mkt, err := activeMarket()
		if err != nil {
			return err
		}

		return logRun(cmd, "import-slopes", mkt.Slug, func(st store.Store) (any, error) {
			var records map[string]float64
			if err := readJSONFile(args[0], &records); err != nil {
				return nil, err
			}
			if err := st.UpsertSlopes(cmd.Context(), records); err != nil {
				return nil, err
			}
			zap.L().Info("imported slopes", zap.Int("records", len(records)))
			return map[string]any{"records": len(records)}, nil
		})
	},
}

// readJSONFile decodes a whole JSON file into v.
func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "import: read %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return eris.Wrapf(err, "import: parse %s", path)
	}
	return nil
}

func init() {
	importCmd.AddCommand(importParcelsCmd)
	importCmd.AddCommand(importZoningCmd)
	importCmd.AddCommand(importSlopesCmd)
	rootCmd.AddCommand(importCmd)
}
