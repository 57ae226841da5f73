// Package cache persists the data slices of a state snapshot to a local
// sqlite file, so the client starts with content before the first fetch and
// stays browsable when the backend is unreachable.
//
// Only server-known data is cached. Drafts and UI state are session-local by
// design: a draft that survived restarts invisibly would surprise more than
// it helps.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"curio-cli/internal/config"
	"curio-cli/internal/schema"
	"curio-cli/internal/state"

	_ "modernc.org/sqlite"
)

type Cache struct {
	path string
}

func New(path string) *Cache {
	return &Cache{path: path}
}

// DefaultPath places the cache next to the config file.
func DefaultPath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache.sqlite"), nil
}

func (c *Cache) open(ctx context.Context) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", c.path)
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout helps avoid
	// "database is locked" flakiness when CLI and TUI run side by side.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tags (
			tag_id INTEGER PRIMARY KEY,
			payload_json TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS objects (
			object_id INTEGER PRIMARY KEY,
			payload_json TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS object_data (
			object_id INTEGER PRIMARY KEY,
			object_type TEXT NOT NULL,
			payload_json TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS objects_tags (
			object_id INTEGER PRIMARY KEY,
			tag_ids_json TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS users (
			user_id INTEGER PRIMARY KEY,
			payload_json TEXT NOT NULL
		);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// Save replaces the cached data slices with the snapshot's.
func (c *Cache) Save(ctx context.Context, s *state.State) error {
	db, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"tags", "objects", "object_data", "objects_tags", "users"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return err
		}
	}

	for id, t := range s.Tags {
		if err := insertJSON(ctx, tx, `INSERT INTO tags(tag_id, payload_json) VALUES(?, ?)`, id, t); err != nil {
			return err
		}
	}
	for id, o := range s.Objects {
		if err := insertJSON(ctx, tx, `INSERT INTO objects(object_id, payload_json) VALUES(?, ?)`, id, o); err != nil {
			return err
		}
	}
	for id, payload := range collectPayloads(s) {
		b, err := json.Marshal(payload.data)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO object_data(object_id, object_type, payload_json) VALUES(?, ?, ?)`,
			id, string(payload.objectType), string(b)); err != nil {
			return err
		}
	}
	for id, tagIDs := range s.ObjectsTags {
		if err := insertJSON(ctx, tx, `INSERT INTO objects_tags(object_id, tag_ids_json) VALUES(?, ?)`, id, tagIDs); err != nil {
			return err
		}
	}
	for id, u := range s.Users {
		if err := insertJSON(ctx, tx, `INSERT INTO users(user_id, payload_json) VALUES(?, ?)`, id, u); err != nil {
			return err
		}
	}

	savedAt := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO meta(k, v) VALUES('saved_at', ?)`, savedAt); err != nil {
		return err
	}
	return tx.Commit()
}

// Load builds a fresh state pre-seeded with the cached data slices. A missing
// or empty cache yields the initial state. Rows that no longer decode are
// skipped; the next Save rewrites them.
func (c *Cache) Load(ctx context.Context) (*state.State, error) {
	if _, err := os.Stat(c.path); err != nil {
		if os.IsNotExist(err) {
			return state.New(), nil
		}
		return nil, err
	}
	db, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	s := state.New()

	if err := scanJSONRows(ctx, db, `SELECT tag_id, payload_json FROM tags`, func(id int, raw []byte) {
		var t schema.Tag
		if json.Unmarshal(raw, &t) == nil {
			s.Tags[id] = t
		}
	}); err != nil {
		return nil, err
	}
	if err := scanJSONRows(ctx, db, `SELECT object_id, payload_json FROM objects`, func(id int, raw []byte) {
		var o schema.ObjectAttributes
		if json.Unmarshal(raw, &o) == nil {
			o.CurrentTagIDs = nil
			s.Objects[id] = o
		}
	}); err != nil {
		return nil, err
	}
	if err := scanJSONRows(ctx, db, `SELECT object_id, tag_ids_json FROM objects_tags`, func(id int, raw []byte) {
		var ids []int
		if json.Unmarshal(raw, &ids) == nil && len(ids) > 0 {
			s.ObjectsTags[id] = ids
		}
	}); err != nil {
		return nil, err
	}
	if err := scanJSONRows(ctx, db, `SELECT user_id, payload_json FROM users`, func(id int, raw []byte) {
		var u schema.User
		if json.Unmarshal(raw, &u) == nil {
			s.Users[id] = u
		}
	}); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT object_id, object_type, payload_json FROM object_data`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id int
		var objectType, raw string
		if err := rows.Scan(&id, &objectType, &raw); err != nil {
			return nil, err
		}
		switch schema.ObjectType(objectType) {
		case schema.ObjectTypeLink:
			var l schema.Link
			if json.Unmarshal([]byte(raw), &l) == nil {
				s.Links[id] = l
			}
		case schema.ObjectTypeMarkdown:
			var m schema.Markdown
			if json.Unmarshal([]byte(raw), &m) == nil {
				s.Markdown[id] = m
			}
		case schema.ObjectTypeToDoList:
			var l schema.ToDoList
			if json.Unmarshal([]byte(raw), &l) == nil {
				s.ToDoLists[id] = l
			}
		case schema.ObjectTypeComposite:
			var comp schema.Composite
			if json.Unmarshal([]byte(raw), &comp) == nil {
				s.Composite[id] = comp
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

type typedPayload struct {
	objectType schema.ObjectType
	data       any
}

func collectPayloads(s *state.State) map[int]typedPayload {
	out := make(map[int]typedPayload, len(s.Links)+len(s.Markdown)+len(s.ToDoLists)+len(s.Composite))
	for id, l := range s.Links {
		out[id] = typedPayload{schema.ObjectTypeLink, l}
	}
	for id, m := range s.Markdown {
		out[id] = typedPayload{schema.ObjectTypeMarkdown, m}
	}
	for id, l := range s.ToDoLists {
		out[id] = typedPayload{schema.ObjectTypeToDoList, l}
	}
	for id, c := range s.Composite {
		out[id] = typedPayload{schema.ObjectTypeComposite, c}
	}
	return out
}

func insertJSON(ctx context.Context, tx *sql.Tx, query string, id int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, query, id, string(b))
	return err
}

func scanJSONRows(ctx context.Context, db *sql.DB, query string, fn func(id int, raw []byte)) error {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var id int
		var raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return err
		}
		fn(id, []byte(raw))
	}
	return rows.Err()
}
