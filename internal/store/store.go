// Package store implements Aura's DVR: an append-only, time-indexed sample
// store with retention pruning, legacy schema migration, and LTTB-based
// timeline queries. It is backed by the pure-Go modernc.org/sqlite driver
// so the store never requires cgo, matching the Repo-over-database/sql
// shape used elsewhere in the retrieved corpus.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/aura-systems/aura/internal/clock"
	"github.com/aura-systems/aura/internal/errs"
	"github.com/aura-systems/aura/internal/obsmetrics"
	"github.com/aura-systems/aura/internal/types"
)

// Store is the exclusive owner of the on-disk DB handle. All operations are
// serialized through mu; callers never see a torn sample.
type Store struct {
	mu               sync.Mutex
	db               *sql.DB
	clk              clock.Clock
	retentionSeconds float64
}

// Open creates parent directories if missing, initializes or migrates the
// schema, prunes stale rows, and returns a ready Store. retentionSeconds
// must already be validated positive by the config layer; Open treats a
// non-positive value as a programming error, not a store error.
func Open(path string, retentionSeconds float64, clk clock.Clock) (*Store, error) {
	const op = "store.Open"
	if retentionSeconds <= 0 {
		return nil, errs.New(op, errs.InvalidArgument, fmt.Errorf("retention_seconds must be positive, got %v", retentionSeconds))
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errs.New(op, errs.IO, err)
		}
	}

	// An aborted atomic-replace write leaves a sibling temp file; clean it
	// up before opening so a crash mid-write never resurfaces stale data.
	removeStaleTempFile(path)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errs.New(op, errs.Store, err)
	}
	db.SetMaxOpenConns(1) // modernc.org/sqlite does not support concurrent writers

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, errs.New(op, errs.Store, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errs.New(op, errs.Store, err)
	}

	s := &Store{db: db, clk: clk, retentionSeconds: retentionSeconds}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, errs.New(op, errs.Store, err)
	}
	if err := s.pruneLocked(); err != nil {
		db.Close()
		return nil, errs.New(op, errs.Store, err)
	}
	return s, nil
}

func removeStaleTempFile(path string) {
	tmp := path + ".tmp"
	if _, err := os.Stat(tmp); err == nil {
		_ = os.Remove(tmp)
	}
}

func (s *Store) initSchema() error {
	if _, err := s.db.Exec(createMetaTableSQL); err != nil {
		return err
	}

	var version int
	row := s.db.QueryRow("SELECT version FROM schema_meta WHERE id = 0;")
	err := row.Scan(&version)

	switch {
	case err == sql.ErrNoRows:
		// Fresh database: no meta row yet. Check whether a legacy (version
		// 1, timestamp-primary-key) samples table already exists before
		// assuming a clean slate.
		if s.hasLegacySamplesTable() {
			if err := s.migrateLegacyToCurrent(); err != nil {
				return err
			}
		} else if _, err := s.db.Exec(createSamplesTableSQL); err != nil {
			return err
		} else if _, err := s.db.Exec(createTimestampIndexSQL); err != nil {
			return err
		}
		_, err = s.db.Exec("INSERT INTO schema_meta (id, version) VALUES (0, ?);", schemaVersion)
		return err
	case err != nil:
		return err
	case version < schemaVersion:
		if version < 2 {
			if err := s.migrateLegacyToCurrent(); err != nil {
				return err
			}
		} else if err := s.addExtensionColumns(); err != nil {
			return err
		}
		_, err = s.db.Exec("UPDATE schema_meta SET version = ? WHERE id = 0;", schemaVersion)
		return err
	default:
		return nil
	}
}

// hasLegacySamplesTable reports whether a pre-existing samples table uses
// the version-1 layout (ts as the table's declared primary key, no
// synthetic id column).
func (s *Store) hasLegacySamplesTable() bool {
	row := s.db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type = 'table' AND name = 'samples' AND sql NOT LIKE '%AUTOINCREMENT%';
	`)
	var n int
	if err := row.Scan(&n); err != nil {
		return false
	}
	return n > 0
}

// migrateLegacyToCurrent reads rows out of the legacy (version 1) table and
// writes them into a fresh table at the current schema version, then swaps,
// per spec.md §4.3's durability policy ("migrated by reading rows and
// writing a new table, then swapping"). createSamplesTableSQL already
// carries the extension columns, so migrated rows land with those columns
// NULL rather than needing a second upgrade step.
func (s *Store) migrateLegacyToCurrent() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(renameLegacySamplesSQL); err != nil {
		return err
	}
	if _, err := tx.Exec(createSamplesTableSQL); err != nil {
		return err
	}
	if _, err := tx.Exec(copyLegacyRowsSQL); err != nil {
		return err
	}
	if _, err := tx.Exec(createTimestampIndexSQL); err != nil {
		return err
	}
	if _, err := tx.Exec(dropLegacySamplesSQL); err != nil {
		return err
	}
	return tx.Commit()
}

// addExtensionColumns upgrades a version-2 table (synthetic id, no
// per-core/thermal/GPU columns) to the current schema in place.
func (s *Store) addExtensionColumns() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range addExtensionColumnsSQL {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Append durably inserts sample, then prunes rows older than the retention
// horizon. Duplicate timestamps are preserved; the primary key is a
// synthetic autoincrement id. The optional per-core/thermal/GPU channels
// are stored as nullable JSON columns, NULL when the collector didn't
// produce that channel this tick.
func (s *Store) Append(sample types.Sample) error {
	const op = "store.Append"
	s.mu.Lock()
	defer s.mu.Unlock()

	perCore, err := marshalPerCore(sample.PerCoreCPU)
	if err != nil {
		return errs.New(op, errs.InvalidArgument, err)
	}
	thermal, err := marshalThermal(sample.Thermal)
	if err != nil {
		return errs.New(op, errs.InvalidArgument, err)
	}
	gpu, err := marshalGPU(sample.GPU)
	if err != nil {
		return errs.New(op, errs.InvalidArgument, err)
	}

	_, err = s.db.Exec(
		`INSERT INTO samples (ts, cpu_percent, memory_percent, disk_read_bps, disk_write_bps, net_recv_bps, net_sent_bps, per_core_json, thermal_json, gpu_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		sample.Timestamp, sample.CPUPercent, sample.MemoryPercent,
		sample.DiskReadBps, sample.DiskWriteBps, sample.NetworkRecvBps, sample.NetworkSentBps,
		perCore, thermal, gpu,
	)
	if err != nil {
		obsmetrics.StoreAppendFailures.Inc()
		return errs.New(op, errs.Store, err)
	}
	if err := s.pruneLocked(); err != nil {
		obsmetrics.StoreAppendFailures.Inc()
		return errs.New(op, errs.Store, err)
	}
	return nil
}

// pruneLocked deletes rows older than now-retentionSeconds. Caller must
// hold mu.
func (s *Store) pruneLocked() error {
	horizon := s.clk.MonotonicSeconds() - s.retentionSeconds
	_, err := s.db.Exec("DELETE FROM samples WHERE ts < ?;", horizon)
	return err
}

// Count returns the total number of retained rows.
func (s *Store) Count() (int, error) {
	const op = "store.Count"
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	row := s.db.QueryRow("SELECT COUNT(*) FROM samples;")
	if err := row.Scan(&n); err != nil {
		return 0, errs.New(op, errs.Store, err)
	}
	return n, nil
}

// Latest returns up to n most recent rows, ordered by timestamp ascending.
func (s *Store) Latest(n int) ([]types.Sample, error) {
	const op = "store.Latest"
	if n <= 0 {
		return nil, errs.New(op, errs.InvalidArgument, fmt.Errorf("n must be > 0, got %d", n))
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT ts, cpu_percent, memory_percent, disk_read_bps, disk_write_bps, net_recv_bps, net_sent_bps, per_core_json, thermal_json, gpu_json
		 FROM samples ORDER BY ts DESC LIMIT ?;`, n,
	)
	if err != nil {
		return nil, errs.New(op, errs.Store, err)
	}
	defer rows.Close()

	samples, err := scanSamples(rows)
	if err != nil {
		return nil, errs.New(op, errs.Store, err)
	}
	reverse(samples)
	return samples, nil
}

// Between returns rows with start <= ts <= end, timestamp ascending.
// Either bound may be nil to mean unbounded.
func (s *Store) Between(start, end *float64) ([]types.Sample, error) {
	const op = "store.Between"
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `SELECT ts, cpu_percent, memory_percent, disk_read_bps, disk_write_bps, net_recv_bps, net_sent_bps, per_core_json, thermal_json, gpu_json FROM samples WHERE 1=1`
	args := make([]any, 0, 2)
	if start != nil {
		query += " AND ts >= ?"
		args = append(args, *start)
	}
	if end != nil {
		query += " AND ts <= ?"
		args = append(args, *end)
	}
	query += " ORDER BY ts ASC;"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errs.New(op, errs.Store, err)
	}
	defer rows.Close()

	samples, err := scanSamples(rows)
	if err != nil {
		return nil, errs.New(op, errs.Store, err)
	}
	return samples, nil
}

// QueryTimeline runs Between(start, end) and downsamples the result to
// resolution points via LTTB.
func (s *Store) QueryTimeline(start, end *float64, resolution int) ([]types.TimelinePoint, error) {
	const op = "store.QueryTimeline"
	if resolution < 3 {
		return nil, errs.New(op, errs.InvalidArgument, fmt.Errorf("resolution must be >= 3, got %d", resolution))
	}
	samples, err := s.Between(start, end)
	if err != nil {
		return nil, err
	}
	points := make([]types.TimelinePoint, len(samples))
	for i, sm := range samples {
		points[i] = types.TimelinePoint{Timestamp: sm.Timestamp, CPUPercent: sm.CPUPercent, MemoryPercent: sm.MemoryPercent}
	}
	return DownsampleLTTB(points, resolution), nil
}

// Close flushes and releases the DB handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.Close(); err != nil {
		return errs.New("store.Close", errs.Store, err)
	}
	return nil
}

func scanSamples(rows *sql.Rows) ([]types.Sample, error) {
	var out []types.Sample
	for rows.Next() {
		var sm types.Sample
		var perCore, thermal, gpu sql.NullString
		if err := rows.Scan(
			&sm.Timestamp, &sm.CPUPercent, &sm.MemoryPercent, &sm.DiskReadBps, &sm.DiskWriteBps, &sm.NetworkRecvBps, &sm.NetworkSentBps,
			&perCore, &thermal, &gpu,
		); err != nil {
			return nil, err
		}
		if err := unmarshalPerCore(perCore, &sm.PerCoreCPU); err != nil {
			return nil, err
		}
		if err := unmarshalThermal(thermal, &sm.Thermal); err != nil {
			return nil, err
		}
		if err := unmarshalGPU(gpu, &sm.GPU); err != nil {
			return nil, err
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

// marshalPerCore/marshalThermal/marshalGPU encode an optional channel to a
// nullable JSON column: nil/empty input yields a NULL column rather than an
// empty-but-present JSON value, so "not collected this tick" round-trips
// distinctly from "collected as empty".
func marshalPerCore(v []float64) (any, error) {
	if len(v) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func marshalThermal(v []types.ThermalSensor) (any, error) {
	if len(v) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func marshalGPU(v types.GPUStats) (any, error) {
	if !v.Available {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func unmarshalPerCore(col sql.NullString, out *[]float64) error {
	if !col.Valid {
		return nil
	}
	return json.Unmarshal([]byte(col.String), out)
}

func unmarshalThermal(col sql.NullString, out *[]types.ThermalSensor) error {
	if !col.Valid {
		return nil
	}
	return json.Unmarshal([]byte(col.String), out)
}

func unmarshalGPU(col sql.NullString, out *types.GPUStats) error {
	if !col.Valid {
		return nil
	}
	return json.Unmarshal([]byte(col.String), out)
}

func reverse(s []types.Sample) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
