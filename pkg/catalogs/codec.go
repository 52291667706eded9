package catalogs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/modcatalog/pkg/constants"
	"github.com/agentstation/modcatalog/pkg/errors"
)

// Decode parses a YAML catalog document and rebuilds its indices.
func Decode(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("unmarshaling catalog: %w", err)
	}
	cat.Reindex()
	return &cat, nil
}

// Encode renders the catalog as a YAML document.
func (c *Catalog) Encode() ([]byte, error) {
	data, err := yaml.MarshalWithOptions(c,
		yaml.Indent(2),
		yaml.IndentSequence(true),
	)
	if err != nil {
		return nil, fmt.Errorf("marshaling catalog: %w", err)
	}
	header := fmt.Sprintf("# Mod catalog version %d, structure version %d\n", c.Version, c.StructureVersion)
	return append([]byte(header), data...), nil
}

// Load reads a catalog from a filesystem.
func Load(fsys fs.FS, name string) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errors.WrapIO("read", name, err)
	}
	cat, err := Decode(data)
	if err != nil {
		return nil, errors.WrapParse("yaml", name, err)
	}
	return cat, nil
}

// LoadFile reads a catalog from a path on disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	cat, err := Decode(data)
	if err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return cat, nil
}

// SaveFile writes the catalog to a path on disk, creating parent directories.
func (c *Catalog) SaveFile(path string) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
