package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/specialistvlad/memogrid/internal/cachekey"
	"github.com/specialistvlad/memogrid/internal/fsutil"
)

// ErrArtifactNotFound is returned when no artifact exists for a key under
// either the hashed or the legacy layout.
var ErrArtifactNotFound = errors.New("artifact not found")

// Store is a filesystem backed content store. It is not safe for use by
// several processes sharing one directory.
type Store struct {
	fs    afero.Fs
	dir   string
	codec Codec
}

// New creates a store rooted at dir. A nil codec selects JSONCodec.
func New(fs afero.Fs, dir string, codec Codec) *Store {
	if codec == nil {
		codec = JSONCodec{}
	}
	return &Store{fs: fs, dir: dir, codec: codec}
}

// Dir returns the cache directory.
func (s *Store) Dir() string { return s.dir }

// Codec returns the codec used for artifacts.
func (s *Store) Codec() Codec { return s.codec }

// Path returns the location an artifact for key is, or would be, stored at.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, cachekey.Hash(key))
}

// Exists reports whether an artifact is stored for key under the hashed layout.
func (s *Store) Exists(key string) (bool, error) {
	ok, err := afero.Exists(s.fs, s.Path(key))
	if err != nil {
		return false, fmt.Errorf("checking artifact for %q: %w", key, err)
	}
	return ok, nil
}

// Put encodes v and stores it under key, creating the cache directory when
// needed. An existing artifact for the same key is replaced.
func (s *Store) Put(key string, v any) (string, error) {
	data, err := s.codec.Encode(v)
	if err != nil {
		return "", fmt.Errorf("encoding artifact for %q with %s codec: %w", key, s.codec.Name(), err)
	}
	path := s.Path(key)
	if err := fsutil.WriteFileAtomic(s.fs, path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing artifact for %q: %w", key, err)
	}
	return path, nil
}

// Get loads the artifact stored for key.
func (s *Store) Get(key string) (any, error) {
	v, err := s.Load(s.Path(key))
	if err == nil || !errors.Is(err, ErrArtifactNotFound) {
		return v, err
	}
	legacy, legacyErr := s.Load(filepath.Join(s.dir, key))
	if legacyErr != nil {
		if errors.Is(legacyErr, ErrArtifactNotFound) {
			return nil, fmt.Errorf("%w: key %q", ErrArtifactNotFound, key)
		}
		return nil, legacyErr
	}
	return legacy, nil
}

// Load decodes the artifact at path, as recorded in run metadata.
func (s *Store) Load(path string) (any, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, path)
		}
		return nil, fmt.Errorf("reading artifact %s: %w", path, err)
	}
	v, err := s.codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding artifact %s with %s codec: %w", path, s.codec.Name(), err)
	}
	return v, nil
}
