// Package store persists the coordinate-keyed enrichment caches (parcel,
// zoning, slope) and the pipeline run log in a local SQLite database.
// Fetchers populate the caches incrementally across runs; the enrichment
// pipeline reads them as bulk maps keyed by "lat,lng".
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/yardsworth/dealfinder/internal/model"
)

// CoordKey renders the canonical cache key for a coordinate pair,
// matching the six-decimal rounding applied at ingest.
func CoordKey(lat, lng float64) string {
	return fmt.Sprintf("%g,%g", lat, lng)
}

// ParcelRecord is the assessor data cached for one coordinate.
type ParcelRecord struct {
	LotSqft      int    `json:"lotSf,omitempty"`
	SitusAddress string `json:"situsAddress,omitempty"`
	AIN          string `json:"ain,omitempty"`
	LandValue    *int   `json:"landValue,omitempty"`
	ImpValue     *int   `json:"impValue,omitempty"`
	FireZone     *bool  `json:"fireZone,omitempty"`
}

// ZoningRecord is the planning-department zoning cached for one
// coordinate. SBZone is the statute-relevant zone class derived from the
// raw municipal code.
type ZoningRecord struct {
	RawCode  string     `json:"zoning,omitempty"`
	Category string     `json:"category,omitempty"`
	SBZone   model.Zone `json:"sb1123,omitempty"`
}

// RunStatus is the lifecycle state of a pipeline run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// Run is one logged pipeline invocation.
type Run struct {
	ID        string
	Command   string
	Market    string
	Status    RunStatus
	Stats     string // JSON summary, set on completion
	Error     string
	StartedAt time.Time
	UpdatedAt time.Time
}

// Store is the persistence surface the commands depend on.
type Store interface {
	Migrate(ctx context.Context) error
	Close() error

	UpsertParcels(ctx context.Context, records map[string]ParcelRecord) error
	AllParcels(ctx context.Context) (map[string]ParcelRecord, error)

	UpsertZoning(ctx context.Context, records map[string]ZoningRecord) error
	AllZoning(ctx context.Context) (map[string]ZoningRecord, error)

	UpsertSlopes(ctx context.Context, records map[string]float64) error
	AllSlopes(ctx context.Context) (map[string]float64, error)

	StartRun(ctx context.Context, command, market string) (*Run, error)
	CompleteRun(ctx context.Context, runID string, stats any) error
	FailRun(ctx context.Context, runID string, runErr error) error
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}
