// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal records conversion runs in a SQLite database. The history
// backs the history command and lets batch runs skip inputs that have not
// changed since they were last converted.
package journal

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/hwpx-convert/pkg/types"
)

// DefaultPath is the journal location relative to the working directory.
const DefaultPath = ".hwpx-convert/journal.db"

const defaultLimit = 20

// Journal is an open conversion history.
type Journal struct {
	db *sql.DB
}

// Open opens or creates the journal at path, creating parent directories
// and the schema as needed.
func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	// Batch workers share one connection so writes never contend.
	db.SetMaxOpenConns(1)

	j := &Journal{db: db}
	if err := j.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return j, nil
}

// Close releases the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS conversions (
			id TEXT PRIMARY KEY,
			input_path TEXT NOT NULL,
			input_sha256 TEXT,
			template_path TEXT,
			template_sha256 TEXT,
			output_path TEXT NOT NULL,
			status TEXT NOT NULL,
			error TEXT,
			reader TEXT,
			output_bytes INTEGER,
			started_at TEXT NOT NULL,
			duration_ms INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_input ON conversions(input_path, output_path)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_started ON conversions(started_at)`,
	}

	for _, stmt := range statements {
		if _, err := j.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores rec, assigning an ID when it has none.
func (j *Journal) Record(ctx context.Context, rec *types.ConversionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now()
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO conversions (id, input_path, input_sha256, template_path, template_sha256,
			output_path, status, error, reader, output_bytes, started_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.InputPath, rec.InputSHA256, rec.TemplatePath, rec.TemplateSHA256,
		rec.OutputPath, string(rec.Status), rec.Error, rec.Reader, rec.OutputBytes,
		rec.StartedAt.UTC().Format(time.RFC3339Nano), rec.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("recording conversion of %s: %w", rec.InputPath, err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]types.ConversionRecord, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, input_path, input_sha256, template_path, template_sha256, output_path,
			status, error, reader, output_bytes, started_at, duration_ms
		 FROM conversions ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	var records []types.ConversionRecord
	for rows.Next() {
		var (
			rec                     types.ConversionRecord
			inSHA, tpl, tplSHA, msg sql.NullString
			reader, status, started sql.NullString
			size, ms                sql.NullInt64
		)
		if err := rows.Scan(&rec.ID, &rec.InputPath, &inSHA, &tpl, &tplSHA, &rec.OutputPath,
			&status, &msg, &reader, &size, &started, &ms); err != nil {
			return nil, fmt.Errorf("scanning journal row: %w", err)
		}
		rec.InputSHA256 = inSHA.String
		rec.TemplatePath = tpl.String
		rec.TemplateSHA256 = tplSHA.String
		rec.Status = types.ConversionStatus(status.String)
		rec.Error = msg.String
		rec.Reader = reader.String
		rec.OutputBytes = size.Int64
		rec.Duration = time.Duration(ms.Int64) * time.Millisecond
		if t, err := time.Parse(time.RFC3339Nano, started.String); err == nil {
			rec.StartedAt = t
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// UpToDate reports whether the latest successful conversion of input to
// output used the same input and template content. A missing output file is
// never up to date.
func (j *Journal) UpToDate(ctx context.Context, rec types.ConversionRecord) (bool, error) {
	if _, err := os.Stat(rec.OutputPath); err != nil {
		return false, nil
	}
	var inSHA, tplSHA sql.NullString
	err := j.db.QueryRowContext(ctx,
		`SELECT input_sha256, template_sha256 FROM conversions
		 WHERE input_path = ? AND output_path = ? AND status = ?
		 ORDER BY started_at DESC, rowid DESC LIMIT 1`,
		rec.InputPath, rec.OutputPath, string(types.StatusConverted),
	).Scan(&inSHA, &tplSHA)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking journal for %s: %w", rec.InputPath, err)
	}
	return inSHA.String == rec.InputSHA256 && tplSHA.String == rec.TemplateSHA256, nil
}

// Produced reports whether a recorded conversion of input wrote output.
func (j *Journal) Produced(ctx context.Context, input, output string) (bool, error) {
	var n int
	err := j.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM conversions
		 WHERE input_path = ? AND output_path = ? AND status = ?`,
		input, output, string(types.StatusConverted),
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking journal for %s: %w", output, err)
	}
	return n > 0, nil
}

// HashFile returns the hex SHA-256 of a file's content.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashBytes returns the hex SHA-256 of data.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
