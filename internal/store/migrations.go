package store

import (
	"fmt"
	"strings"
)

// Base tables. Column names are part of the on-disk format shared with
// earlier releases and must not be renamed.
var createStatements = []string{
	`CREATE TABLE IF NOT EXISTS Account (
		Id           INTEGER PRIMARY KEY AUTOINCREMENT,
		Email        TEXT NOT NULL UNIQUE,
		Name         TEXT NOT NULL DEFAULT '',
		PasswordHash TEXT NOT NULL DEFAULT '',
		PasswordSalt TEXT NOT NULL DEFAULT '',
		CreatedAt    DATETIME
	)`,
	`CREATE TABLE IF NOT EXISTS Task (
		Id           INTEGER PRIMARY KEY AUTOINCREMENT,
		UserId       INTEGER NOT NULL DEFAULT 0,
		OrderIndex   INTEGER NOT NULL DEFAULT 0,
		Title        TEXT NOT NULL DEFAULT '',
		IsDone       INTEGER NOT NULL DEFAULT 0,
		Category     TEXT NOT NULL DEFAULT 'General',
		Priority     INTEGER NOT NULL DEFAULT 1,
		DueDate      DATETIME,
		CreatedAt    DATETIME,
		UpdatedAt    DATETIME,
		TagsRaw      TEXT NOT NULL DEFAULT '',
		SubtasksJson TEXT NOT NULL DEFAULT '[]'
	)`,
}

// Indexes reference migrated columns, so these run only after the column
// migrations have brought an older database up to date.
var indexStatements = []string{
	`CREATE INDEX IF NOT EXISTS idx_task_user ON Task(UserId)`,
	`CREATE INDEX IF NOT EXISTS idx_task_user_order ON Task(UserId, OrderIndex)`,
}

// schemaColumn is one additive column migration.
type schemaColumn struct {
	table  string
	column string
	typ    string
}

// schemaColumns covers every column added since the first release, for
// databases created by older versions. Entries are checked and applied
// independently, in any order, any number of times. Each added column
// carries a constant default so rows written by the older version stay
// scannable instead of holding NULL.
var schemaColumns = []schemaColumn{
	{"Account", "Name", "TEXT NOT NULL DEFAULT ''"},
	{"Task", "OrderIndex", "INTEGER NOT NULL DEFAULT 0"},
	{"Task", "Category", "TEXT NOT NULL DEFAULT 'General'"},
	{"Task", "Priority", "INTEGER NOT NULL DEFAULT 1"},
	{"Task", "DueDate", "DATETIME"},
	{"Task", "CreatedAt", "DATETIME NOT NULL DEFAULT '0001-01-01 00:00:00'"},
	{"Task", "UpdatedAt", "DATETIME NOT NULL DEFAULT '0001-01-01 00:00:00'"},
	{"Task", "TagsRaw", "TEXT NOT NULL DEFAULT ''"},
	{"Task", "SubtasksJson", "TEXT NOT NULL DEFAULT '[]'"},
}

// ensureSchema creates the base tables if missing, applies the additive
// column migrations, then creates the indexes. It is safe to run on every
// start: columns are only ever added, never dropped or renamed, and a second
// run changes nothing.
func (s *SQLiteStore) ensureSchema() error {
	for _, stmt := range createStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return unavailable("creating tables", err)
		}
	}

	for _, col := range schemaColumns {
		if err := s.ensureColumn(col.table, col.column, col.typ); err != nil {
			return err
		}
	}

	for _, stmt := range indexStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return unavailable("creating indexes", err)
		}
	}

	return nil
}

// tableColumn mirrors one row of PRAGMA table_info output.
type tableColumn struct {
	CID     int     `db:"cid"`
	Name    string  `db:"name"`
	Type    string  `db:"type"`
	NotNull int     `db:"notnull"`
	Default *string `db:"dflt_value"`
	PK      int     `db:"pk"`
}

// ensureColumn adds the column when the table does not have it yet.
func (s *SQLiteStore) ensureColumn(table, column, typ string) error {
	var info []tableColumn
	if err := s.db.Select(&info, fmt.Sprintf("PRAGMA table_info(%s)", table)); err != nil {
		return unavailable(fmt.Sprintf("inspecting table %s", table), err)
	}

	for _, col := range info {
		if strings.EqualFold(col.Name, column) {
			return nil
		}
	}

	stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, typ)
	if _, err := s.db.Exec(stmt); err != nil {
		return unavailable(fmt.Sprintf("adding column %s.%s", table, column), err)
	}

	return nil
}
