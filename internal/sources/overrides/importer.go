// Package overrides imports manually curated override files into a catalog
// update run.
//
// Every *.yaml, *.yml and *.toml file in the overrides directory is read in
// name order and applied through the reconciliation API with the manual
// source, so its facts win over anything the scraper reports.
package overrides

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"

	"github.com/agentstation/modcatalog/pkg/errors"
	"github.com/agentstation/modcatalog/pkg/logging"
	"github.com/agentstation/modcatalog/pkg/reconcile"
	"github.com/agentstation/modcatalog/pkg/sources"
)

// Compile-time interface checks.
var (
	_ sources.Collector   = (*Importer)(nil)
	_ sources.Snapshotter = (*Importer)(nil)
)

// Importer is the manual override collector.
type Importer struct {
	dir      string
	combined File
	loaded   []string
}

// New creates an importer reading override files from dir.
func New(dir string) *Importer {
	return &Importer{dir: dir}
}

// ID implements sources.Collector.
func (im *Importer) ID() sources.ID {
	return sources.ImporterID
}

// Files returns the files read by the last Collect call.
func (im *Importer) Files() []string {
	return slices.Clone(im.loaded)
}

// Collect reads every override file and applies it. A file that cannot be
// parsed is skipped; the parse errors are returned joined after all
// readable files were applied.
func (im *Importer) Collect(ctx context.Context, engine *reconcile.Engine) error {
	logger := logging.FromContext(ctx)
	im.combined = File{}
	im.loaded = nil

	paths, err := im.paths()
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		logger.Info().Str("dir", im.dir).Msg("No override files found")
		return nil
	}

	var errs []error
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		f, err := ReadFile(path)
		if err != nil {
			logger.Warn().Err(err).Str("file", path).Msg("Skipping unreadable override file")
			errs = append(errs, err)
			continue
		}

		applied := Apply(logging.WithField(ctx, "file", filepath.Base(path)), engine, f)
		logger.Info().Str("file", filepath.Base(path)).Int("applied", applied).Msg("Override file imported")
		im.combined.merge(*f)
		im.loaded = append(im.loaded, path)
	}
	return errors.Join(errs...)
}

// Snapshot implements sources.Snapshotter. It returns all overrides read by
// the last Collect call as one YAML document, or "" when there were none.
func (im *Importer) Snapshot() (string, error) {
	if im.combined.IsEmpty() {
		return "", nil
	}
	data, err := yaml.MarshalWithOptions(im.combined, yaml.Indent(2), yaml.IndentSequence(true))
	if err != nil {
		return "", fmt.Errorf("marshaling override snapshot: %w", err)
	}
	return string(data), nil
}

func (im *Importer) paths() ([]string, error) {
	if im.dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(im.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapIO("read", im.dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || formatOf(entry.Name()) == "" {
			continue
		}
		paths = append(paths, filepath.Join(im.dir, entry.Name()))
	}
	slices.Sort(paths)
	return paths, nil
}

func formatOf(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	}
	return ""
}

// ReadFile parses an override file, choosing the format by extension.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	format := formatOf(path)
	if format == "" {
		return nil, &errors.ValidationError{Field: "file", Value: path, Message: "unsupported override format"}
	}
	f, err := Parse(format, data)
	if err != nil {
		return nil, errors.WrapParse(format, path, err)
	}
	return f, nil
}

// Parse decodes an override document in the given format ("yaml" or "toml").
func Parse(format string, data []byte) (*File, error) {
	var f File
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, err
		}
	case "toml":
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			logging.Warn().Str("keys", fmt.Sprint(undecoded)).Msg("Ignoring unknown override keys")
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	return &f, nil
}
