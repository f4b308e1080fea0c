package ledger

const schema = `
CREATE TABLE IF NOT EXISTS processed (
	url TEXT PRIMARY KEY,
	text TEXT NOT NULL,
	sentiment TEXT NOT NULL,
	views INTEGER NOT NULL,
	recorded_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	seq INTEGER
);

CREATE TABLE IF NOT EXISTS cycles (
	run_id TEXT PRIMARY KEY,
	started_at DATETIME NOT NULL,
	collected INTEGER NOT NULL,
	fresh INTEGER NOT NULL,
	processed INTEGER NOT NULL,
	ordered_posts INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_processed_recorded_at ON processed(recorded_at);
`
