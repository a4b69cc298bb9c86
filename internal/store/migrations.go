package store

// The schema is applied on every open and must stay idempotent. Exactly
// these three tables exist; retention is handled by deleting rows, never
// by dropping tables.
const schema = `
-- Per-device measurement history
CREATE TABLE IF NOT EXISTS device_data (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    device_id        TEXT     NOT NULL,
    device_name      TEXT,
    device_type      TEXT,
    timestamp        DATETIME NOT NULL,
    value            REAL,
    unit             TEXT,
    health_score     REAL,
    efficiency_score REAL,
    status           TEXT,
    location         TEXT
);

-- Host-level resource usage samples
CREATE TABLE IF NOT EXISTS system_metrics (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp            DATETIME NOT NULL,
    cpu_usage_percent    REAL,
    memory_usage_percent REAL,
    disk_usage_percent   REAL,
    network_io_mbps      REAL,
    active_connections   INTEGER
);

-- Plant-wide energy samples
CREATE TABLE IF NOT EXISTS energy_data (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp            DATETIME NOT NULL,
    power_consumption_kw REAL,
    energy_consumed_kwh  REAL,
    efficiency_percent   REAL,
    cost_usd             REAL
);

-- Secondary indexes
CREATE INDEX IF NOT EXISTS idx_device_data_device_ts ON device_data(device_id, timestamp);
CREATE INDEX IF NOT EXISTS idx_device_data_ts ON device_data(timestamp);
CREATE INDEX IF NOT EXISTS idx_system_metrics_ts ON system_metrics(timestamp);
CREATE INDEX IF NOT EXISTS idx_energy_data_ts ON energy_data(timestamp);
`
