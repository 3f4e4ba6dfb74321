// Package notes stores free-form markdown notes for todos, one file per item.
package notes

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"idea/internal/log"
)

const fileExt = ".md"

type Store struct {
	d *diskv.Diskv
}

func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("notes dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	return &Store{d: diskv.New(diskv.Options{
		BasePath:          dir,
		AdvancedTransform: keyToPath,
		InverseTransform:  pathToKey,
		CacheSizeMax:      1024 * 1024,
	})}, nil
}

func keyToPath(key string) *diskv.PathKey {
	return &diskv.PathKey{FileName: key + fileExt}
}

func pathToKey(pk *diskv.PathKey) string {
	return strings.TrimSuffix(pk.FileName, fileExt)
}

func (s *Store) Has(id string) bool {
	return s.d.Has(id)
}

func (s *Store) Read(id string) (string, error) {
	b, err := s.d.Read(id)
	if err != nil {
		return "", fmt.Errorf("read notes %s: %w", id, err)
	}
	return string(b), nil
}

func (s *Store) Write(id, body string) error {
	if err := s.d.Write(id, []byte(body)); err != nil {
		return fmt.Errorf("write notes %s: %w", id, err)
	}
	return nil
}

func (s *Store) Remove(id string) error {
	if !s.d.Has(id) {
		return nil
	}
	return s.d.Erase(id)
}

// IDs lists every item that has a notes file.
func (s *Store) IDs(ctx context.Context) []string {
	var ids []string
	for key := range s.d.Keys(ctx.Done()) {
		ids = append(ids, key)
	}
	return ids
}

// Prune erases the notes of every id not in keep.
func (s *Store) Prune(ctx context.Context, keep map[string]bool) error {
	var errs []error
	for _, id := range s.IDs(ctx) {
		if keep[id] {
			continue
		}
		log.Debug(log.CatNotes, "pruning notes", "id", id)
		if err := s.d.Erase(id); err != nil {
			errs = append(errs, fmt.Errorf("erase notes %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}
