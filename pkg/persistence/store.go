// Package persistence stores catalog versions, change logs and override
// snapshots in a directory.
//
// The active catalog is the newest of the bundled catalog shipped with the
// program and the versions previously saved to the directory. Every saved
// catalog version gets its own file, so a run never overwrites history.
package persistence

import (
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/zeebo/blake3"

	"github.com/agentstation/modcatalog/pkg/catalogs"
	"github.com/agentstation/modcatalog/pkg/constants"
	"github.com/agentstation/modcatalog/pkg/errors"
	"github.com/agentstation/modcatalog/pkg/logging"
)

// Origin tells where the active catalog was loaded from.
type Origin string

// Origin values.
const (
	OriginBundled    Origin = "bundled"
	OriginDownloaded Origin = "downloaded"
)

// Artifact describes a file written by the store.
type Artifact struct {
	Path   string
	Digest string // hex BLAKE3-256 of the content
	Size   int
}

// Store reads and writes catalog files under one directory.
type Store struct {
	dir         string
	bundled     fs.FS
	bundledName string
	logger      *zerolog.Logger
}

// Option configures a Store.
type Option func(*Store) error

// WithBundled sets the catalog shipped with the program.
func WithBundled(fsys fs.FS, name string) Option {
	return func(s *Store) error {
		if fsys == nil {
			return &errors.ValidationError{Field: "bundled", Message: "filesystem cannot be nil"}
		}
		if name == "" {
			name = constants.BundledCatalogFile
		}
		s.bundled = fsys
		s.bundledName = name
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Store) error {
		s.logger = logger
		return nil
	}
}

// New creates a store rooted at dir.
func New(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		return nil, &errors.ValidationError{Field: "dir", Message: "cannot be empty"}
	}
	s := &Store{dir: dir}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("applying store option: %w", err)
		}
	}
	if s.logger == nil {
		s.logger = logging.Default()
	}
	return s, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

var errMissingVersion = errors.New("catalog has no version")

var catalogFilePattern = regexp.MustCompile(`^ModCatalog_v(\d+)\.yaml$`)

// Versions lists the catalog versions saved in the directory, newest first.
// A missing directory has no versions.
func (s *Store) Versions() ([]uint64, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapIO("read", s.dir, err)
	}

	var versions []uint64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := catalogFilePattern.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		v, err := strconv.ParseUint(match[1], 10, 64)
		if err != nil {
			continue
		}
		versions = append(versions, v)
	}
	slices.Sort(versions)
	slices.Reverse(versions)
	return versions, nil
}

// CatalogPath returns the file path of a catalog version.
func (s *Store) CatalogPath(version uint64) string {
	return filepath.Join(s.dir, fmt.Sprintf(constants.CatalogFileFormat, version))
}

// LoadVersion loads a saved catalog version.
func (s *Store) LoadVersion(version uint64) (*catalogs.Catalog, error) {
	return catalogs.LoadFile(s.CatalogPath(version))
}

// Open returns the newest valid catalog among the bundled catalog and the
// newest loadable saved version. On a version tie the saved one wins.
func (s *Store) Open() (*catalogs.Catalog, Origin, error) {
	downloaded, err := s.newestSaved()
	if err != nil {
		return nil, "", errors.Unavailable(err)
	}

	var bundled *catalogs.Catalog
	if s.bundled != nil {
		bundled, err = catalogs.Load(s.bundled, s.bundledName)
		if err == nil && bundled.Version == 0 {
			err = errMissingVersion
		}
		if err != nil {
			s.logger.Warn().Err(err).Str("file", s.bundledName).Msg("Bundled catalog could not be loaded")
			bundled = nil
		}
	}

	switch {
	case downloaded == nil && bundled == nil:
		return nil, "", errors.Unavailable(fmt.Errorf("no valid catalog in %s or bundled", s.dir))
	case bundled == nil:
		return downloaded, OriginDownloaded, nil
	case downloaded == nil:
		return bundled, OriginBundled, nil
	case bundled.Version > downloaded.Version:
		s.logger.Info().
			Uint64("bundled", bundled.Version).
			Uint64("downloaded", downloaded.Version).
			Msg("Bundled catalog is newer than the downloaded one")
		return bundled, OriginBundled, nil
	default:
		return downloaded, OriginDownloaded, nil
	}
}

func (s *Store) newestSaved() (*catalogs.Catalog, error) {
	versions, err := s.Versions()
	if err != nil {
		return nil, err
	}
	for _, v := range versions {
		cat, err := s.LoadVersion(v)
		if err == nil && cat.Version != v {
			err = fmt.Errorf("file holds version %d", cat.Version)
		}
		if err != nil {
			s.logger.Warn().Err(err).Uint64("version", v).Msg("Skipping unreadable catalog version")
			continue
		}
		return cat, nil
	}
	return nil, nil
}

// SaveCatalog writes the catalog under its version file name.
func (s *Store) SaveCatalog(cat *catalogs.Catalog) (Artifact, error) {
	if cat == nil {
		return Artifact{}, errors.ErrCatalogUnavailable
	}
	data, err := cat.Encode()
	if err != nil {
		return Artifact{}, errors.WrapResource("encode", "catalog", strconv.FormatUint(cat.Version, 10), err)
	}
	return s.write(fmt.Sprintf(constants.CatalogFileFormat, cat.Version), data)
}

// SaveChangeLog writes the change log of a catalog version.
func (s *Store) SaveChangeLog(version uint64, content string) (Artifact, error) {
	return s.SaveText(fmt.Sprintf(constants.ChangeLogFileFormat, version), content)
}

// SaveOverrides writes the combined override snapshot for a catalog version.
func (s *Store) SaveOverrides(version uint64, content string) (Artifact, error) {
	return s.SaveText(fmt.Sprintf(constants.OverridesFileFormat, version), content)
}

// SaveText writes content to a file in the store directory.
func (s *Store) SaveText(name, content string) (Artifact, error) {
	if name == "" || filepath.Base(name) != name {
		return Artifact{}, &errors.ValidationError{Field: "name", Value: name, Message: "must be a plain file name"}
	}
	return s.write(name, []byte(content))
}

func (s *Store) write(name string, data []byte) (Artifact, error) {
	if err := os.MkdirAll(s.dir, constants.DirPermissions); err != nil {
		return Artifact{}, errors.WrapIO("create", s.dir, err)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return Artifact{}, errors.WrapIO("write", path, err)
	}

	artifact := Artifact{Path: path, Digest: Digest(data), Size: len(data)}
	s.logger.Debug().Str("path", path).Str("digest", artifact.Digest).Int("bytes", artifact.Size).Msg("Saved file")
	return artifact, nil
}

// Digest returns the hex BLAKE3-256 digest of data.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
