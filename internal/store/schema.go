package store

// schemaVersion is the current on-disk schema's sentinel value.
//   - version 1: legacy layout, ts as declared primary key, no synthetic id,
//     no extension columns. Kept only so migration tests can exercise the
//     upgrade path; no production path creates it.
//   - version 2: synthetic autoincrement id, core + network columns only,
//     no extension columns. An earlier build of this store could have left
//     a database at this version; Open must still migrate it forward.
//   - version 3 (current): adds nullable per_core_json/thermal_json/gpu_json
//     extension columns so the optional telemetry channels survive Append,
//     per SPEC_FULL.md §4.3.
const schemaVersion = 3

const createMetaTableSQL = `
CREATE TABLE IF NOT EXISTS schema_meta (
	id      INTEGER PRIMARY KEY CHECK (id = 0),
	version INTEGER NOT NULL
);
`

// createSamplesTableSQL always creates the table at the current schema
// version. Rows written for channels a collector didn't produce leave the
// corresponding extension column NULL.
const createSamplesTableSQL = `
CREATE TABLE IF NOT EXISTS samples (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	ts              REAL NOT NULL,
	cpu_percent     REAL NOT NULL,
	memory_percent  REAL NOT NULL,
	disk_read_bps   REAL NOT NULL,
	disk_write_bps  REAL NOT NULL,
	net_recv_bps    REAL NOT NULL,
	net_sent_bps    REAL NOT NULL,
	per_core_json   TEXT,
	thermal_json    TEXT,
	gpu_json        TEXT
);
`

const createTimestampIndexSQL = `
CREATE INDEX IF NOT EXISTS idx_samples_ts ON samples(ts);
`

// legacyCreateSamplesTableSQL is the version-1 layout, timestamp as primary
// key. Kept for migration tests only; no production path creates it.
const legacyCreateSamplesTableSQL = `
CREATE TABLE IF NOT EXISTS samples (
	ts              REAL PRIMARY KEY,
	cpu_percent     REAL NOT NULL,
	memory_percent  REAL NOT NULL,
	disk_read_bps   REAL NOT NULL,
	disk_write_bps  REAL NOT NULL,
	net_recv_bps    REAL NOT NULL,
	net_sent_bps    REAL NOT NULL
);
`

const renameLegacySamplesSQL = `ALTER TABLE samples RENAME TO samples_legacy_v1;`

// copyLegacyRowsSQL copies only the version-1 columns; the new table's
// extension columns default to NULL for every migrated row, since the
// legacy layout never carried per-core/thermal/GPU data.
const copyLegacyRowsSQL = `
INSERT INTO samples (ts, cpu_percent, memory_percent, disk_read_bps, disk_write_bps, net_recv_bps, net_sent_bps)
SELECT ts, cpu_percent, memory_percent, disk_read_bps, disk_write_bps, net_recv_bps, net_sent_bps
FROM samples_legacy_v1;
`

const dropLegacySamplesSQL = `DROP TABLE IF EXISTS samples_legacy_v1;`

// addExtensionColumnsSQL upgrades a version-2 table (synthetic id, no
// extension columns) in place to version 3. Each ALTER TABLE may only add
// one column, hence three statements.
var addExtensionColumnsSQL = []string{
	`ALTER TABLE samples ADD COLUMN per_core_json TEXT;`,
	`ALTER TABLE samples ADD COLUMN thermal_json TEXT;`,
	`ALTER TABLE samples ADD COLUMN gpu_json TEXT;`,
}
