package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Timestamps on habit rows are Unix milliseconds, preserving the precision of
// the ISO-8601 strings clients send; user/group timestamps are Unix seconds.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    uid TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    photo_url TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL DEFAULT '',
    provider TEXT NOT NULL,
    show_on_leaderboard INTEGER NOT NULL DEFAULT 1,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS habit_entries (
    uid TEXT NOT NULL,
    day_index INTEGER NOT NULL,
    habit_id TEXT NOT NULL,
    value_kind TEXT NOT NULL,
    value_num INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    PRIMARY KEY (uid, day_index, habit_id)
);

CREATE TABLE IF NOT EXISTS habit_categories (
    uid TEXT NOT NULL,
    category_id TEXT NOT NULL,
    name TEXT NOT NULL,
    icon TEXT NOT NULL,
    sort_order INTEGER NOT NULL DEFAULT 0,
    updated_at INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    PRIMARY KEY (uid, category_id)
);

CREATE TABLE IF NOT EXISTS category_items (
    uid TEXT NOT NULL,
    category_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    item_id TEXT NOT NULL,
    label TEXT NOT NULL,
    item_type TEXT NOT NULL,
    PRIMARY KEY (uid, category_id, item_id),
    FOREIGN KEY (uid, category_id) REFERENCES habit_categories(uid, category_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS groups (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    emoji TEXT NOT NULL,
    admin_uid TEXT NOT NULL,
    invite_code TEXT NOT NULL UNIQUE,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS group_members (
    group_id TEXT NOT NULL,
    uid TEXT NOT NULL,
    joined_at INTEGER NOT NULL,
    PRIMARY KEY (group_id, uid),
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS group_categories (
    group_id TEXT NOT NULL,
    category_id TEXT NOT NULL,
    name TEXT NOT NULL,
    icon TEXT NOT NULL,
    sort_order INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (group_id, category_id),
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS group_category_items (
    group_id TEXT NOT NULL,
    category_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    item_id TEXT NOT NULL,
    label TEXT NOT NULL,
    item_type TEXT NOT NULL,
    PRIMARY KEY (group_id, category_id, item_id),
    FOREIGN KEY (group_id, category_id) REFERENCES group_categories(group_id, category_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_habit_entries_uid ON habit_entries(uid);
CREATE INDEX IF NOT EXISTS idx_habit_entries_uid_habit ON habit_entries(uid, habit_id);
CREATE INDEX IF NOT EXISTS idx_category_items_owner ON category_items(uid, category_id);
CREATE INDEX IF NOT EXISTS idx_groups_admin ON groups(admin_uid);
CREATE INDEX IF NOT EXISTS idx_group_members_uid ON group_members(uid);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
