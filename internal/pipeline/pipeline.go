// Package pipeline orchestrates the batch runs: building the comp dataset
// and its ARV cluster surface, and enriching active listings with cache
// stamps, estimator outputs, and BTR underwriting. All estimator work
// fans out per listing over immutable indexes; results are written back
// by slice index so output order is deterministic regardless of worker
// scheduling.
package pipeline

import (
	"context"
	"runtime"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yardsworth/dealfinder/internal/arv"
	"github.com/yardsworth/dealfinder/internal/btr"
	"github.com/yardsworth/dealfinder/internal/comps"
	"github.com/yardsworth/dealfinder/internal/estimator"
	"github.com/yardsworth/dealfinder/internal/model"
)

// CompDataset is the output of a comp build: the normalized, tiered comp
// universe and its fitted cluster surface.
type CompDataset struct {
	Comps    []*model.Comp  `json:"comps"`
	Clusters []*arv.Cluster `json:"clusters"`
	BuiltAt  time.Time      `json:"built_at"`
}

// BuildCompDataset derives tiers and the ARV surface from a normalized
// comp batch. An empty universe is the one hard failure in the system:
// it means a broken upstream export, and surfacing it once here beats
// shipping an all-null output.
func BuildCompDataset(cc []*model.Comp, arvCfg arv.Config, now time.Time) (*CompDataset, error) {
	if len(cc) == 0 {
		return nil, eris.New("pipeline: empty comp universe, check the sold-comps export")
	}

	comps.AssignTiers(cc)
	clusters := arv.BuildSurface(arvCfg, cc)

	t1 := 0
	for _, c := range cc {
		if c.Tier == model.TierNewRemodel {
			t1++
		}
	}
	zap.L().Info("comp dataset built",
		zap.Int("comps", len(cc)),
		zap.Int("tier1", t1),
		zap.Int("tier2", len(cc)-t1),
		zap.Int("clusters", len(clusters)),
	)

	return &CompDataset{Comps: cc, Clusters: clusters, BuiltAt: now.UTC()}, nil
}

// EnrichStats summarizes one enrichment run for the run log.
type EnrichStats struct {
	Listings    int            `json:"listings"`
	ExitMethods map[string]int `json:"exit_methods"`
	RentMethods map[string]int `json:"rent_methods"`
	NewConHits  int            `json:"newcon_hits"`
	SubdivHits  int            `json:"subdiv_hits"`
	BTREligible int            `json:"btr_eligible"`
}

// EnrichListings runs every estimator over each listing and attaches the
// results. Estimates merge additively: a listing with no matching comps
// keeps null fields and is never an error. workers <= 0 uses GOMAXPROCS.
func EnrichListings(ctx context.Context, listings []*model.Listing, est *estimator.Estimator, btrCfg btr.Config, workers int) (*EnrichStats, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range listings {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return eris.Wrap(err, "pipeline: enrich cancelled")
			}
			enrichOne(listings[i], est, btrCfg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &EnrichStats{
		Listings:    len(listings),
		ExitMethods: make(map[string]int),
		RentMethods: make(map[string]int),
	}
	for _, l := range listings {
		stats.ExitMethods[l.CompMethod]++
		stats.RentMethods[l.RentMethod]++
		if l.NewConPSF != nil {
			stats.NewConHits++
		}
		if l.SubdivExitPSF != nil {
			stats.SubdivHits++
		}
		if l.BTR != nil && l.BTR.Eligible {
			stats.BTREligible++
		}
	}

	zap.L().Info("listings enriched",
		zap.Int("listings", stats.Listings),
		zap.Any("exit_methods", stats.ExitMethods),
		zap.Any("rent_methods", stats.RentMethods),
		zap.Int("newcon_hits", stats.NewConHits),
		zap.Int("subdiv_hits", stats.SubdivHits),
		zap.Int("btr_eligible", stats.BTREligible),
	)
	return stats, nil
}

func enrichOne(l *model.Listing, est *estimator.Estimator, btrCfg btr.Config) {
	exit := est.EstimateExitPPSF(l.Lat, l.Lng, l.Zone, l.Zip)
	l.ExitPSF = exit.Value
	l.CompMethod = exit.Method
	l.CompCount = exit.CompCount
	if exit.Value != nil {
		r := exit.RadiusMiles
		l.CompRadius = &r
	}

	newcon := est.EstimateNewConPPSF(l.Lat, l.Lng, l.Zone, exit.Value)
	l.NewConPSF = newcon.Value
	l.NewConCount = newcon.CompCount
	l.NewConTier = newcon.Tier
	l.NewConZoneMatch = newcon.ZoneMatched
	l.NewConFlag = newcon.Flag

	sd := est.EstimateSubdivPPSF(l.Lat, l.Lng)
	l.SubdivExitPSF = sd.Value
	l.SubdivCompCount = sd.CompCount
	l.SubdivAvgAppr = sd.AvgApprPct

	rent := est.EstimateRent(l.Lat, l.Lng, l.Zip)
	l.EstRentMonth = rent.Value
	l.RentMethod = rent.Method
	l.RentCompCount = rent.CompCount

	res := btr.Evaluate(btrCfg, l, l.ExitPSF, est.MarketRent(l.Zip))
	l.BTR = &res
}
