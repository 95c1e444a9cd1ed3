// Package snapshot persists rendered HTML snapshots of a component tree on
// the local filesystem or in S3.
package snapshot

import (
	"context"
	stderrors "errors"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/vango-dev/reactor/internal/config"
	"github.com/vango-dev/reactor/internal/errors"
)

// ErrInvalidName is wrapped by errors for names that are empty or contain
// characters other than letters, digits, '-', '_' and '.'.
var ErrInvalidName = stderrors.New("snapshot: invalid name")

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Snapshot is one rendered document.
type Snapshot struct {
	ID        string
	Name      string
	HTML      []byte
	CreatedAt time.Time
}

// New creates a snapshot with a fresh ID.
func New(name string, html []byte) (*Snapshot, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	return &Snapshot{
		ID:        uuid.NewString(),
		Name:      name,
		HTML:      html,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Key is the storage key relative to the store root.
func (s *Snapshot) Key() string {
	return s.Name + "/" + s.ID + ".html"
}

// ValidateName checks a snapshot name.
func ValidateName(name string) error {
	if !validName.MatchString(name) {
		return errors.New("S301").WithField("name", name).Wrap(ErrInvalidName)
	}
	return nil
}

// Store persists snapshots.
type Store interface {
	// Save stores s and returns its location (a path or URL).
	Save(ctx context.Context, s *Snapshot) (string, error)
}

// Open returns the store selected by cfg. dir is the resolved directory of
// the file backend.
func Open(cfg config.SnapshotConfig, dir string) (Store, error) {
	switch cfg.Backend {
	case config.BackendS3:
		client := NewS3Client(cfg.Region, "")
		return NewS3Store(client, cfg.Bucket, cfg.Prefix), nil
	case config.BackendFile, "":
		return NewFileStore(dir)
	default:
		return nil, errors.New("C201").WithField("field", "snapshot.backend")
	}
}
