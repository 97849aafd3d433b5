// Package sqlite provides a SQLite implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jwulff/ledstrip-go/internal/domain"
	"github.com/jwulff/ledstrip-go/internal/storage"

	_ "modernc.org/sqlite"
)

// Store is a SQLite implementation of storage.Store.
type Store struct {
	db *sql.DB
}

// NewMemoryStore creates an in-memory SQLite store.
func NewMemoryStore() (*Store, error) {
	return newStore(":memory:")
}

// NewFileStore creates a file-based SQLite store.
func NewFileStore(path string) (*Store, error) {
	return newStore(path)
}

func newStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Profile methods

const profileColumns = `id, name, layout, chip, format, brightness, created_at, updated_at`

func (s *Store) SaveProfile(ctx context.Context, p *storage.Profile) error {
	layoutJSON, err := json.Marshal(p.Layout)
	if err != nil {
		return fmt.Errorf("failed to encode layout: %w", err)
	}
	p.UpdatedAt = time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = p.UpdatedAt
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO profiles (`+profileColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, string(layoutJSON), p.Chip, p.Format.String(), int(p.Brightness), p.CreatedAt, p.UpdatedAt)
	return err
}

func (s *Store) GetProfile(ctx context.Context, id string) (*storage.Profile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound{Resource: "profile", ID: id}
	}
	return p, err
}

func (s *Store) GetProfileByName(ctx context.Context, name string) (*storage.Profile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE name = ?`, name)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound{Resource: "profile", ID: name}
	}
	return p, err
}

func (s *Store) GetProfiles(ctx context.Context) ([]*storage.Profile, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*storage.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (s *Store) DeleteProfile(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM frame_cache WHERE profile_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(row scanner) (*storage.Profile, error) {
	var (
		p          storage.Profile
		layoutJSON string
		format     string
		brightness int
	)
	err := row.Scan(&p.ID, &p.Name, &layoutJSON, &p.Chip, &format, &brightness, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(layoutJSON), &p.Layout); err != nil {
		return nil, fmt.Errorf("failed to decode layout of profile %s: %w", p.ID, err)
	}
	if p.Format, err = domain.ParseFormat(format); err != nil {
		return nil, fmt.Errorf("failed to decode format of profile %s: %w", p.ID, err)
	}
	p.Brightness = uint8(brightness)
	return &p, nil
}

// Frame cache methods

func (s *Store) CacheFrame(ctx context.Context, frame *storage.CachedFrame) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO frame_cache (profile_id, rows, columns, frame_data, generated_at)
		VALUES (?, ?, ?, ?, ?)
	`, frame.ProfileID, frame.Rows, frame.Columns, frame.FrameData, frame.GeneratedAt)
	return err
}

func (s *Store) GetCachedFrame(ctx context.Context, profileID string) (*storage.CachedFrame, error) {
	var frame storage.CachedFrame
	err := s.db.QueryRowContext(ctx, `
		SELECT profile_id, rows, columns, frame_data, generated_at FROM frame_cache WHERE profile_id = ?
	`, profileID).Scan(&frame.ProfileID, &frame.Rows, &frame.Columns, &frame.FrameData, &frame.GeneratedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound{Resource: "frame", ID: profileID}
	}
	if err != nil {
		return nil, err
	}
	return &frame, nil
}

// Config methods

func (s *Store) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM config WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", storage.ErrNotFound{Resource: "config", ID: key}
	}
	return value, err
}

func (s *Store) SetConfig(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO config (key, value, updated_at)
		VALUES (?, ?, ?)
	`, key, value, time.Now())
	return err
}

func (s *Store) DeleteConfig(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM config WHERE key = ?`, key)
	return err
}

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)
