package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

-- Runs: one row per ranking invocation
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    contract TEXT NOT NULL,
    collection_total INTEGER NOT NULL,
    token_count INTEGER NOT NULL,
    trait_pairs INTEGER NOT NULL,
    tie_break TEXT NOT NULL,
    cache_hits INTEGER DEFAULT 0,
    network_fetches INTEGER DEFAULT 0,
    refetched INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_contract ON runs(contract);

-- Token scores: final score and rank per token per run
CREATE TABLE IF NOT EXISTS token_scores (
    run_id INTEGER NOT NULL,
    token_id INTEGER NOT NULL,
    name TEXT,
    rank INTEGER NOT NULL,
    score REAL NOT NULL,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE,
    PRIMARY KEY (run_id, token_id)
);

CREATE INDEX IF NOT EXISTS idx_token_scores_rank ON token_scores(run_id, rank);

-- Trait stats: frequency table snapshot per run
CREATE TABLE IF NOT EXISTS trait_stats (
    run_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    value TEXT NOT NULL,
    count INTEGER NOT NULL,
    score REAL NOT NULL,
    percentage REAL NOT NULL,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE,
    PRIMARY KEY (run_id, name, value)
);
`
