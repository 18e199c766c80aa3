package sink

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgallion1/docoutline/internal/outline"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite stores rows in the outline_rows table, replacing its previous contents.
type SQLite struct {
	Path string
}

const schema = `CREATE TABLE IF NOT EXISTS outline_rows (
	position INTEGER PRIMARY KEY,
	chapter TEXT NOT NULL,
	topic TEXT NOT NULL,
	sub_topic TEXT NOT NULL,
	figures TEXT NOT NULL,
	tables TEXT NOT NULL,
	examples TEXT NOT NULL,
	exercises TEXT NOT NULL,
	activities TEXT NOT NULL
);`

const insertRow = `INSERT INTO outline_rows
	(position, chapter, topic, sub_topic, figures, tables, examples, exercises, activities)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Open opens the database at path and ensures the schema exists.
func Open(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func (s *SQLite) Write(ctx context.Context, rows []outline.Row) error {
	db, err := Open(s.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM outline_rows`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, insertRow)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, i+1, row.Chapter, row.Topic, row.SubTopic,
			row.Figures, row.Tables, row.Examples, row.Exercises, row.Activities); err != nil {
			return fmt.Errorf("insert row %d: %w", i+1, err)
		}
	}
	return tx.Commit()
}
