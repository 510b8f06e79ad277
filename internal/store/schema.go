package store

// schemaVersion is stored in PRAGMA user_version. Bump it when a table is
// added so older cache entries are rebuilt.
const schemaVersion = 2

// Money and rate columns are TEXT holding exact decimal strings.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS datasets (
    source_path          TEXT PRIMARY KEY,
    revision             TEXT NOT NULL,
    saved_at             TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS series_points (
    source_path          TEXT NOT NULL REFERENCES datasets(source_path) ON DELETE CASCADE,
    country              TEXT NOT NULL,
    idx                  INTEGER NOT NULL,
    period               TEXT NOT NULL,
    new_users            INTEGER NOT NULL,
    revenue              TEXT NOT NULL,
    cpa                  TEXT NOT NULL,
    ltv                  TEXT NOT NULL,
    subscription_share   TEXT NOT NULL,
    total_active_users   INTEGER NOT NULL DEFAULT 0,
    subscribed_users     INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (source_path, country, idx)
);

CREATE TABLE IF NOT EXISTS metric_targets (
    source_path          TEXT NOT NULL REFERENCES datasets(source_path) ON DELETE CASCADE,
    country              TEXT NOT NULL,
    metric               TEXT NOT NULL,
    target               TEXT NOT NULL,
    forecast             TEXT NOT NULL,
    PRIMARY KEY (source_path, country, metric)
);

CREATE TABLE IF NOT EXISTS campaigns (
    source_path          TEXT NOT NULL REFERENCES datasets(source_path) ON DELETE CASCADE,
    idx                  INTEGER NOT NULL,
    campaign_id          TEXT NOT NULL,
    name                 TEXT NOT NULL,
    platform             TEXT NOT NULL,
    country              TEXT NOT NULL,
    status               TEXT NOT NULL,
    start_date           TEXT NOT NULL,
    end_date             TEXT NOT NULL,
    budget               TEXT NOT NULL,
    spent                TEXT NOT NULL,
    conversions          INTEGER NOT NULL,
    cpa                  TEXT NOT NULL,
    roas                 TEXT NOT NULL,
    PRIMARY KEY (source_path, idx)
);

CREATE TABLE IF NOT EXISTS budget_lines (
    source_path          TEXT NOT NULL REFERENCES datasets(source_path) ON DELETE CASCADE,
    idx                  INTEGER NOT NULL,
    channel              TEXT NOT NULL,
    allocated            TEXT NOT NULL,
    spent                TEXT NOT NULL,
    PRIMARY KEY (source_path, idx)
);

CREATE TABLE IF NOT EXISTS regions (
    source_path          TEXT NOT NULL REFERENCES datasets(source_path) ON DELETE CASCADE,
    idx                  INTEGER NOT NULL,
    country              TEXT NOT NULL,
    users                INTEGER NOT NULL,
    revenue              TEXT NOT NULL,
    growth               TEXT NOT NULL,
    PRIMARY KEY (source_path, idx)
);

CREATE TABLE IF NOT EXISTS channels (
    source_path          TEXT NOT NULL REFERENCES datasets(source_path) ON DELETE CASCADE,
    idx                  INTEGER NOT NULL,
    name                 TEXT NOT NULL,
    users                INTEGER NOT NULL,
    revenue              TEXT NOT NULL,
    conversion_rate      TEXT NOT NULL,
    cpa                  TEXT NOT NULL,
    PRIMARY KEY (source_path, idx)
);

-- Product and market tables share one shape. v1..v3 meaning depends on section.
CREATE TABLE IF NOT EXISTS product_rows (
    source_path          TEXT NOT NULL REFERENCES datasets(source_path) ON DELETE CASCADE,
    section              TEXT NOT NULL,
    idx                  INTEGER NOT NULL,
    label                TEXT NOT NULL,
    period               TEXT NOT NULL DEFAULT '',
    v1                   TEXT NOT NULL,
    v2                   TEXT NOT NULL DEFAULT '0',
    v3                   TEXT NOT NULL DEFAULT '0',
    PRIMARY KEY (source_path, section, idx)
);

CREATE TABLE IF NOT EXISTS file_tracker (
    file_path            TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_series_country ON series_points(source_path, country);
`

// childTables are cleared explicitly before a dataset is rewritten.
var childTables = []string{
	"series_points", "metric_targets", "campaigns", "budget_lines", "regions", "channels",
	"product_rows",
}
