package main

import (
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yardsworth/dealfinder/internal/estimator"
	"github.com/yardsworth/dealfinder/internal/firezone"
	"github.com/yardsworth/dealfinder/internal/ingest"
	"github.com/yardsworth/dealfinder/internal/pipeline"
	"github.com/yardsworth/dealfinder/internal/store"
)

var (
	enrichWorkers int
	enrichConfig  string
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Estimate exit pricing, rents, and BTR feasibility for listings",
	Long:  "Reads the for-sale listings export, stamps cached parcel, zoning, slope, and fire-zone data, runs every estimator against the built comp universes, scores build-to-rent feasibility, and writes listings.json.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		mkt, err := activeMarket()
		if err != nil {
			return err
		}

		return logRun(cmd, "enrich", mkt.Slug, func(st store.Store) (any, error) {
			now := time.Now()

			cfgPath := enrichConfig
			if cfgPath == "" {
				cfgPath = cfg.Enrich.Config
			}
			estCfg, err := estimator.LoadConfig(cfgPath)
			if err != nil {
				return nil, err
			}

			listings, err := ingest.ReadListings(ctx, cfg.Data.ListingsCSV, mkt.Bounds)
			if err != nil {
				return nil, err
			}
			if len(listings) == 0 {
				return nil, eris.New("enrich: no listings in bounds, check the listings export")
			}

			// Stamp cached county data before estimating: parcel lot sizes
			// and zoning overrides change which screens a listing passes.
			parcels, err := st.AllParcels(ctx)
			if err != nil {
				return nil, err
			}
			zoning, err := st.AllZoning(ctx)
			if err != nil {
				return nil, err
			}
			slopes, err := st.AllSlopes(ctx)
			if err != nil {
				return nil, err
			}

			var stampStats pipeline.StampStats
			pipeline.StampParcels(listings, parcels, &stampStats)
			pipeline.StampZoning(listings, zoning, &stampStats)
			pipeline.StampSlopes(listings, slopes, &stampStats)

			if fz, err := loadFireZones(cfg.Data.FireGeoJSON); err != nil {
				return nil, err
			} else if fz != nil {
				pipeline.StampFireZones(listings, fz, &stampStats)
			}
			pipeline.LogStampStats(&stampStats, len(listings))

			cc, err := ingest.LoadComps(dataPath("comps.json"))
			if err != nil {
				return nil, err
			}
			if len(cc) == 0 {
				return nil, eris.New("enrich: empty comp universe, run the comps command first")
			}
			sc, err := ingest.LoadSubdivComps(dataPath("subdiv_comps.json"))
			if err != nil {
				return nil, err
			}
			rentals, err := ingest.LoadRentalComps(dataPath("rental_comps.json"))
			if err != nil {
				return nil, err
			}
			rentIndex, err := ingest.ReadZORI(dataPath("zori_data.csv"))
			if err != nil {
				return nil, err
			}
			fmrIndex, err := ingest.LoadFMRIndex(dataPath("rents.json"))
			if err != nil {
				return nil, err
			}

			est := estimator.New(estCfg, cc, sc, rentals, rentIndex, fmrIndex, now)

			workers := enrichWorkers
			if workers == 0 {
				workers = cfg.Enrich.Workers
			}
			stats, err := pipeline.EnrichListings(ctx, listings, est, mkt.BTRConfig(), workers)
			if err != nil {
				return nil, err
			}

			if err := ingest.WriteJSON(dataPath("listings.json"), listings); err != nil {
				return nil, err
			}

			zap.L().Info("enrich complete",
				zap.String("market", mkt.Slug),
				zap.Int("listings", len(listings)),
				zap.Int("btr_eligible", stats.BTREligible),
			)

			return stats, nil
		})
	},
}

// loadFireZones reads the fire hazard GeoJSON. A missing file disables the
// fallback point-in-polygon check rather than failing the run.
func loadFireZones(path string) (*firezone.Index, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		zap.L().Warn("fire hazard file missing, polygon fallback disabled", zap.String("path", path))
		return nil, nil
	}
	return firezone.Load(path)
}

func init() {
	enrichCmd.Flags().IntVar(&enrichWorkers, "workers", 0, "parallel estimator workers (0 = GOMAXPROCS)")
	enrichCmd.Flags().StringVar(&enrichConfig, "config", "", "estimator config YAML override")
	rootCmd.AddCommand(enrichCmd)
}
