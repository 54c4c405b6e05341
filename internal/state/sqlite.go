package state

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

// SQLiteStore persists type records in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore creates an unopened store.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{}
}

// Open opens the database at path. Use ":memory:" for an in-memory store.
func (s *SQLiteStore) Open(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveType upserts a type record by name and reports whether it was created,
// updated (fingerprint drift), or already current.
func (s *SQLiteStore) SaveType(name string, slotNames []string, fingerprint uint64, frozen bool) (SaveStatus, error) {
	if s.db == nil {
		return "", fmt.Errorf("database not opened")
	}

	prior, err := s.GetType(name)
	if err != nil {
		return "", err
	}

	slotsJSON, err := json.Marshal(slotNames)
	if err != nil {
		return "", fmt.Errorf("failed to encode slots: %w", err)
	}
	now := time.Now().UTC()

	if prior == nil {
		_, err = s.db.Exec(
			`INSERT INTO slot_types (id, name, slots, fingerprint, frozen, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), name, string(slotsJSON), formatFingerprint(fingerprint), frozen, now, now,
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert type %s: %w", name, err)
		}
		return SaveCreated, nil
	}

	if prior.Fingerprint == fingerprint && prior.Frozen == frozen {
		return SaveUnchanged, nil
	}

	_, err = s.db.Exec(
		`UPDATE slot_types SET slots = ?, fingerprint = ?, frozen = ?, updated_at = ? WHERE name = ?`,
		string(slotsJSON), formatFingerprint(fingerprint), frozen, now, name,
	)
	if err != nil {
		return "", fmt.Errorf("failed to update type %s: %w", name, err)
	}
	return SaveUpdated, nil
}

// GetType returns the record stored under name, or nil when absent.
func (s *SQLiteStore) GetType(name string) (*TypeRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRow(
		`SELECT id, name, slots, fingerprint, frozen, created_at, updated_at
		 FROM slot_types WHERE name = ?`, name,
	)
	rec, err := scanType(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get type %s: %w", name, err)
	}
	return rec, nil
}

// ListTypes returns all stored records ordered by name.
func (s *SQLiteStore) ListTypes() ([]*TypeRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT id, name, slots, fingerprint, frozen, created_at, updated_at
		 FROM slot_types ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list types: %w", err)
	}
	defer rows.Close()

	var records []*TypeRecord
	for rows.Next() {
		rec, err := scanType(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan type row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteType removes the record stored under name. Deleting an absent name
// is not an error.
func (s *SQLiteStore) DeleteType(name string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if _, err := s.db.Exec(`DELETE FROM slot_types WHERE name = ?`, name); err != nil {
		return fmt.Errorf("failed to delete type %s: %w", name, err)
	}
	return nil
}

// scanType reads one slot_types row.
func scanType(scan func(dest ...any) error) (*TypeRecord, error) {
	var (
		rec         TypeRecord
		slotsJSON   string
		fingerprint string
	)
	if err := scan(&rec.ID, &rec.Name, &slotsJSON, &fingerprint, &rec.Frozen, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(slotsJSON), &rec.Slots); err != nil {
		return nil, fmt.Errorf("corrupt slots column: %w", err)
	}
	fp, err := parseFingerprint(fingerprint)
	if err != nil {
		return nil, fmt.Errorf("corrupt fingerprint column: %w", err)
	}
	rec.Fingerprint = fp
	return &rec, nil
}

// Fingerprints are stored as fixed-width hex text: SQLite integers are
// signed 64-bit and would mangle the upper half of the range.
func formatFingerprint(fp uint64) string {
	return fmt.Sprintf("%016x", fp)
}

func parseFingerprint(s string) (uint64, error) {
	return strconv.ParseUint(s, 16, 64)
}
