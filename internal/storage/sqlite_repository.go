package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sandeepkv93/todoapp/internal/model"
)

const sqliteTimeLayout = time.RFC3339Nano

// SQLiteRepository stores one row per item. Save rewrites every row inside a
// single transaction and keeps stored order in the position column.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	return &SQLiteRepository{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	if path == "" {
		return nil, errors.New("storage: data path is empty")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) Load(ctx context.Context) (*model.Container, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, description, due_at, added_at, finished, finished_at
		FROM items ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		rec, scanErr := scanRecord(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return containerOf(records)
}

func (r *SQLiteRepository) Save(ctx context.Context, c *model.Container) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return fmt.Errorf("clear items: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO items (id, position, title, description, due_at, added_at, finished, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for pos, it := range c.Items() {
		rec := toRecord(it)
		if _, err = stmt.ExecContext(ctx,
			rec.ID, pos, rec.Title, rec.Description,
			mustTime(rec.DueAt), mustTime(rec.AddedAt), boolInt(rec.Finished), nullTime(rec.FinishedAt),
		); err != nil {
			return fmt.Errorf("insert item %s: %w", rec.ID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.UTC().Format(sqliteTimeLayout)
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseNullableTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	tm, err := time.Parse(sqliteTimeLayout, v.String)
	if err != nil {
		return nil, err
	}
	local := tm.Local()
	return &local, nil
}

func parseRequiredTime(v string) (time.Time, error) {
	tm, err := time.Parse(sqliteTimeLayout, v)
	if err != nil {
		return time.Time{}, err
	}
	return tm.Local(), nil
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (Record, error) {
	var out Record
	var due, added string
	var finished int
	var finishedAt sql.NullString
	if err := s.Scan(&out.ID, &out.Title, &out.Description, &due, &added, &finished, &finishedAt); err != nil {
		return Record{}, err
	}
	dueAt, err := parseRequiredTime(due)
	if err != nil {
		return Record{}, fmt.Errorf("item %s due_at: %w", out.ID, err)
	}
	addedAt, err := parseRequiredTime(added)
	if err != nil {
		return Record{}, fmt.Errorf("item %s added_at: %w", out.ID, err)
	}
	doneAt, err := parseNullableTime(finishedAt)
	if err != nil {
		return Record{}, fmt.Errorf("item %s finished_at: %w", out.ID, err)
	}
	out.DueAt = dueAt
	out.AddedAt = addedAt
	out.Finished = finished == 1
	out.FinishedAt = doneAt
	return out, nil
}
