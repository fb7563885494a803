package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/yardsworth/dealfinder/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL
// mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS parcel_cache (
	coord         TEXT PRIMARY KEY,
	lot_sqft      INTEGER,
	situs_address TEXT,
	ain           TEXT,
	land_value    INTEGER,
	imp_value     INTEGER,
	fire_zone     INTEGER,
	fetched_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS zoning_cache (
	coord      TEXT PRIMARY KEY,
	raw_code   TEXT,
	category   TEXT,
	sb_zone    TEXT,
	fetched_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS slope_cache (
	coord      TEXT PRIMARY KEY,
	slope_pct  REAL NOT NULL,
	fetched_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	command    TEXT NOT NULL,
	market     TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'running',
	stats      TEXT,
	error      TEXT,
	started_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_command ON runs(command);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertParcels(ctx context.Context, records map[string]ParcelRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin parcel upsert")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO parcel_cache (coord, lot_sqft, situs_address, ain, land_value, imp_value, fire_zone, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT(coord) DO UPDATE SET
			lot_sqft = excluded.lot_sqft,
			situs_address = excluded.situs_address,
			ain = excluded.ain,
			land_value = excluded.land_value,
			imp_value = excluded.imp_value,
			fire_zone = excluded.fire_zone,
			fetched_at = excluded.fetched_at`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare parcel upsert")
	}
	defer stmt.Close()

	for coord, p := range records {
		var fz any
		if p.FireZone != nil {
			fz = boolToInt(*p.FireZone)
		}
		if _, err := stmt.ExecContext(ctx, coord, zeroNull(p.LotSqft), p.SitusAddress, p.AIN,
			intPtrVal(p.LandValue), intPtrVal(p.ImpValue), fz); err != nil {
			return eris.Wrapf(err, "sqlite: upsert parcel %s", coord)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit parcel upsert")
}

func (s *SQLiteStore) AllParcels(ctx context.Context) (map[string]ParcelRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT coord, lot_sqft, situs_address, ain, land_value, imp_value, fire_zone FROM parcel_cache`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query parcels")
	}
	defer rows.Close()

	out := make(map[string]ParcelRecord)
	for rows.Next() {
		var (
			coord      string
			lotSqft    sql.NullInt64
			situs, ain sql.NullString
			land, imp  sql.NullInt64
			fz         sql.NullInt64
		)
		if err := rows.Scan(&coord, &lotSqft, &situs, &ain, &land, &imp, &fz); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan parcel")
		}
		p := ParcelRecord{
			LotSqft:      int(lotSqft.Int64),
			SitusAddress: situs.String,
			AIN:          ain.String,
		}
		if land.Valid {
			v := int(land.Int64)
			p.LandValue = &v
		}
		if imp.Valid {
			v := int(imp.Int64)
			p.ImpValue = &v
		}
		if fz.Valid {
			b := fz.Int64 != 0
			p.FireZone = &b
		}
		out[coord] = p
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate parcels")
}

func (s *SQLiteStore) UpsertZoning(ctx context.Context, records map[string]ZoningRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin zoning upsert")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO zoning_cache (coord, raw_code, category, sb_zone, fetched_at)
		VALUES (?, ?, ?, ?, datetime('now'))
		ON CONFLICT(coord) DO UPDATE SET
			raw_code = excluded.raw_code,
			category = excluded.category,
			sb_zone = excluded.sb_zone,
			fetched_at = excluded.fetched_at`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare zoning upsert")
	}
	defer stmt.Close()

	for coord, z := range records {
		if _, err := stmt.ExecContext(ctx, coord, z.RawCode, z.Category, string(z.SBZone)); err != nil {
			return eris.Wrapf(err, "sqlite: upsert zoning %s", coord)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit zoning upsert")
}

func (s *SQLiteStore) AllZoning(ctx context.Context) (map[string]ZoningRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT coord, raw_code, category, sb_zone FROM zoning_cache`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query zoning")
	}
	defer rows.Close()

	out := make(map[string]ZoningRecord)
	for rows.Next() {
		var coord string
		var raw, cat, sb sql.NullString
		if err := rows.Scan(&coord, &raw, &cat, &sb); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan zoning")
		}
		out[coord] = ZoningRecord{
			RawCode:  raw.String,
			Category: cat.String,
			SBZone:   model.Zone(sb.String),
		}
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate zoning")
}

func (s *SQLiteStore) UpsertSlopes(ctx context.Context, records map[string]float64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin slope upsert")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO slope_cache (coord, slope_pct, fetched_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(coord) DO UPDATE SET
			slope_pct = excluded.slope_pct,
			fetched_at = excluded.fetched_at`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare slope upsert")
	}
	defer stmt.Close()

	for coord, pct := range records {
		if _, err := stmt.ExecContext(ctx, coord, pct); err != nil {
			return eris.Wrapf(err, "sqlite: upsert slope %s", coord)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit slope upsert")
}

func (s *SQLiteStore) AllSlopes(ctx context.Context) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT coord, slope_pct FROM slope_cache`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query slopes")
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var coord string
		var pct float64
		if err := rows.Scan(&coord, &pct); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan slope")
		}
		out[coord] = pct
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate slopes")
}

func (s *SQLiteStore) StartRun(ctx context.Context, command, market string) (*Run, error) {
	run := &Run{
		ID:        uuid.New().String(),
		Command:   command,
		Market:    market,
		Status:    RunRunning,
		StartedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, command, market, status, started_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Command, run.Market, string(run.Status), run.StartedAt, run.UpdatedAt)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}
	return run, nil
}

func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string, stats any) error {
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal run stats")
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, stats = ?, updated_at = datetime('now') WHERE id = ?`,
		string(RunCompleted), string(statsJSON), runID)
	return eris.Wrapf(err, "sqlite: complete run %s", runID)
}

func (s *SQLiteStore) FailRun(ctx context.Context, runID string, runErr error) error {
	msg := ""
	if runErr != nil {
		msg = runErr.Error()
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, error = ?, updated_at = datetime('now') WHERE id = ?`,
		string(RunFailed), msg, runID)
	return eris.Wrapf(err, "sqlite: fail run %s", runID)
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, command, market, status, COALESCE(stats, ''), COALESCE(error, ''), started_at, updated_at
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query runs")
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var status string
		if err := rows.Scan(&r.ID, &r.Command, &r.Market, &status, &r.Stats, &r.Error,
			&r.StartedAt, &r.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		r.Status = RunStatus(status)
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func zeroNull(v int) any {
	if v == 0 {
		return nil
	}
	return v
}

func intPtrVal(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
