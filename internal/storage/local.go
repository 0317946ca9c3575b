package storage

import (
	"bitwise74/media-api/internal/model"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps objects on disk under {Root}/{bucket}/{key}. Content types
// are written next to the objects under {Root}/.meta
type LocalStore struct {
	Root string
}

type localMeta struct {
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root, %w", err)
	}

	return &LocalStore{Root: root}, nil
}

func (s *LocalStore) Put(ctx context.Context, bucket model.Bucket, key string, body io.Reader, size int64, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p, err := s.objectPath(string(bucket), key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("failed to create object directory, %w", err)
	}

	// O_EXCL makes the existence check and the create a single step
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s/%s", ErrObjectExists, bucket, key)
		}

		return fmt.Errorf("failed to create object file, %w", err)
	}

	n, err := io.Copy(f, body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(p)
		return fmt.Errorf("failed to write object, %w", err)
	}

	metaPath, err := s.objectPath(filepath.Join(".meta", string(bucket)), key+".json")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(metaPath), 0o755); err != nil {
		return fmt.Errorf("failed to create metadata directory, %w", err)
	}

	meta, _ := json.Marshal(localMeta{ContentType: contentType, Size: n})
	if err := os.WriteFile(metaPath, meta, 0o644); err != nil {
		return fmt.Errorf("failed to write object metadata, %w", err)
	}

	return nil
}

func (s *LocalStore) objectPath(bucket, key string) (string, error) {
	if bucket == "" || key == "" {
		return "", ErrInvalidKey
	}

	base := filepath.Join(s.Root, bucket)
	p := filepath.Join(base, filepath.FromSlash(key))

	rel, err := filepath.Rel(base, p)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%w: %s", ErrInvalidKey, key)
	}

	return p, nil
}
