// Package storage persists matrix profiles and the last shown frames.
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwulff/ledstrip-go/internal/domain"
	"github.com/jwulff/ledstrip-go/internal/layout"
)

// Store is the interface for persistent storage.
type Store interface {
	// Profiles
	SaveProfile(ctx context.Context, p *Profile) error
	GetProfile(ctx context.Context, id string) (*Profile, error)
	GetProfileByName(ctx context.Context, name string) (*Profile, error)
	GetProfiles(ctx context.Context) ([]*Profile, error)
	DeleteProfile(ctx context.Context, id string) error

	// Frame cache, one frame per profile
	CacheFrame(ctx context.Context, frame *CachedFrame) error
	GetCachedFrame(ctx context.Context, profileID string) (*CachedFrame, error)

	// Configuration
	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
	DeleteConfig(ctx context.Context, key string) error

	// Lifecycle
	Close() error
}

// Profile is a named LED installation: its wiring and chip settings.
type Profile struct {
	ID         string
	Name       string
	Layout     layout.Layout
	Chip       string
	Format     domain.Format
	Brightness uint8
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewProfile creates a profile with a fresh ID.
func NewProfile(name string, l layout.Layout, chip string, format domain.Format, brightness uint8) *Profile {
	now := time.Now()
	return &Profile{
		ID:         uuid.NewString(),
		Name:       name,
		Layout:     l,
		Chip:       chip,
		Format:     format,
		Brightness: brightness,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// CachedFrame is the last canonical buffer shown for a profile.
type CachedFrame struct {
	ProfileID   string
	Rows        int
	Columns     int
	FrameData   []byte
	GeneratedAt time.Time
}

// NewCachedFrame packs m for storage.
func NewCachedFrame(profileID string, m *domain.Matrix) *CachedFrame {
	return &CachedFrame{
		ProfileID:   profileID,
		Rows:        m.Rows(),
		Columns:     m.Columns(),
		FrameData:   m.Buffer().Packed(),
		GeneratedAt: time.Now(),
	}
}

// Matrix unpacks the frame. Missing pixels are black.
func (f *CachedFrame) Matrix() *domain.Matrix {
	m := domain.NewMatrix(f.Rows, f.Columns, domain.Black)
	copy(m.Buffer(), domain.BufferFromPacked(f.FrameData))
	return m
}

// ErrNotFound is returned when a record is not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e ErrNotFound) Error() string {
	return e.Resource + " not found: " + e.ID
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	_, ok := err.(ErrNotFound)
	return ok
}
