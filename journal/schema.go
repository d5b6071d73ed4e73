package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	pair TEXT NOT NULL,
	direction TEXT NOT NULL,
	status TEXT NOT NULL,
	entry REAL NOT NULL,
	stop_loss REAL NOT NULL,
	take_profits TEXT NOT NULL,
	position_size REAL NOT NULL,
	position_unit TEXT NOT NULL,
	leverage REAL NOT NULL,
	is_crypto INTEGER NOT NULL,
	outcome TEXT NOT NULL DEFAULT '',
	profit TEXT NOT NULL DEFAULT '',
	is_edited INTEGER NOT NULL DEFAULT 0,
	emotions TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	tags TEXT NOT NULL DEFAULT '',
	screenshot_url TEXT NOT NULL DEFAULT '',
	rule_broken INTEGER NOT NULL DEFAULT 0,
	rr_ratio REAL NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_trades_user_created ON trades(user_id, created_at);

CREATE TABLE IF NOT EXISTS habits (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	trade_id TEXT NOT NULL UNIQUE,
	had_plan INTEGER NOT NULL,
	plan_followed INTEGER NOT NULL,
	was_gamble INTEGER NOT NULL,
	streak INTEGER NOT NULL,
	FOREIGN KEY (trade_id) REFERENCES trades(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_habits_user ON habits(user_id);

CREATE TABLE IF NOT EXISTS streak_records (
	user_id TEXT PRIMARY KEY,
	best_unbroken_trades INTEGER NOT NULL,
	best_unbroken_days INTEGER NOT NULL,
	updated_at DATETIME NOT NULL
);
`
