package snapshot

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/vango-dev/reactor/internal/errors"
)

// FileStore writes snapshots below a directory as <name>/<id>.html with a
// <name>/<id>.json metadata sidecar.
type FileStore struct {
	dir string
}

type fileMeta struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.New("S300").WithField("dir", dir).Wrap(err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the store root.
func (f *FileStore) Dir() string {
	return f.dir
}

// Save implements Store. It returns the path of the HTML file.
func (f *FileStore) Save(ctx context.Context, s *Snapshot) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := ValidateName(s.Name); err != nil {
		return "", err
	}

	path := filepath.Join(f.dir, filepath.FromSlash(s.Key()))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", errors.New("S300").Wrap(err)
	}
	if err := os.WriteFile(path, s.HTML, 0644); err != nil {
		return "", errors.New("S300").WithField("path", path).Wrap(err)
	}

	meta, err := json.MarshalIndent(fileMeta{
		ID:        s.ID,
		Name:      s.Name,
		Size:      len(s.HTML),
		CreatedAt: s.CreatedAt,
	}, "", "  ")
	if err != nil {
		return "", errors.New("S300").Wrap(err)
	}
	metaPath := path[:len(path)-len(".html")] + ".json"
	if err := os.WriteFile(metaPath, meta, 0644); err != nil {
		os.Remove(path)
		return "", errors.New("S300").WithField("path", metaPath).Wrap(err)
	}
	return path, nil
}

// List returns the IDs stored under name, oldest first.
func (f *FileStore) List(name string) ([]string, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	matches, err := filepath.Glob(filepath.Join(f.dir, name, "*.json"))
	if err != nil {
		return nil, err
	}

	metas := make([]fileMeta, 0, len(matches))
	for _, m := range matches {
		data, err := os.ReadFile(m)
		if err != nil {
			return nil, err
		}
		var meta fileMeta
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		metas = append(metas, meta)
	}
	sort.SliceStable(metas, func(i, j int) bool {
		return metas[i].CreatedAt.Before(metas[j].CreatedAt)
	})

	ids := make([]string, len(metas))
	for i, m := range metas {
		ids[i] = m.ID
	}
	return ids, nil
}
