// Package migration holds the schema for the streaming history database.
package migration

// Create builds the StreamingHistory table. The ingest pipeline rebuilds the
// table wholesale on every run, so there are no incremental migrations.
const Create = `
CREATE TABLE IF NOT EXISTS StreamingHistory (
  ts TEXT NOT NULL,
  platform TEXT,
  ms_played INTEGER NOT NULL,
  track_name TEXT,
  artist_name TEXT,
  album_name TEXT,
  track_uri TEXT,
  skipped INTEGER NOT NULL DEFAULT 0,
  shuffle INTEGER NOT NULL DEFAULT 0,
  offline INTEGER NOT NULL DEFAULT 0,
  media_type TEXT NOT NULL,
  conn_country TEXT,
  reason_start TEXT,
  reason_end TEXT
);

CREATE INDEX IF NOT EXISTS idx_history_ts ON StreamingHistory (ts);
CREATE INDEX IF NOT EXISTS idx_history_artist ON StreamingHistory (artist_name);
CREATE INDEX IF NOT EXISTS idx_history_media ON StreamingHistory (media_type);
`
