// Package seed provides the built-in dashboard data set and loads seed
// files validated against an embedded CUE schema.
package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"ocmhub/pkg/domain"
)

var (
	//go:embed schema.cue
	schemaSource []byte
	//go:embed default.yaml
	defaultSeed []byte
)

// Format names a seed document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported seed format %q", ext)
	}
}

// Default returns the built-in data set: five home tiles, three workbench
// groups with eight items, four OCM setup steps and one templated project
// per workbench item. Dates in the projects are relative to now.
func Default(now time.Time) domain.Snapshot {
	snap, err := Parse(defaultSeed, FormatYAML, "default.yaml")
	if err != nil {
		panic(fmt.Sprintf("embedded seed is invalid: %v", err))
	}
	return WithTemplateProjects(snap, now)
}

// WithTemplateProjects fills in a templated project for every workbench item
// that has none.
func WithTemplateProjects(snap domain.Snapshot, now time.Time) domain.Snapshot {
	if snap.Projects == nil {
		snap.Projects = map[string]domain.ProjectDetails{}
	}
	for _, g := range snap.Workbench {
		for _, it := range g.Items {
			if it.ID == "" {
				continue
			}
			if _, ok := snap.Projects[it.ID]; !ok {
				snap.Projects[it.ID] = ProjectTemplate(it, now)
			}
		}
	}
	return snap
}

// LoadFile reads, validates and decodes a seed file.
func LoadFile(path string) (domain.Snapshot, error) {
	format, err := FormatFor(path)
	if err != nil {
		return domain.Snapshot{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("read seed: %w", err)
	}
	return Parse(data, format, filepath.Base(path))
}

// ValidateFile reports whether path holds a valid seed document.
func ValidateFile(path string) error {
	_, err := LoadFile(path)
	return err
}

// Parse decodes data, validates it against the seed schema and converts it
// into a snapshot. name labels errors.
func Parse(data []byte, format Format, name string) (domain.Snapshot, error) {
	var doc any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return domain.Snapshot{}, fmt.Errorf("seed %s: %w", name, err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return domain.Snapshot{}, fmt.Errorf("seed %s: %w", name, err)
		}
	default:
		return domain.Snapshot{}, fmt.Errorf("unsupported seed format %q", format)
	}
	if doc == nil {
		return domain.Snapshot{}, fmt.Errorf("seed %s: empty document", name)
	}
	if err := validate(doc); err != nil {
		return domain.Snapshot{}, fmt.Errorf("seed %s: %w", name, err)
	}
	// Round trip through JSON so the domain json tags drive decoding.
	raw, err := json.Marshal(doc)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("seed %s: %w", name, err)
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("seed %s: %w", name, err)
	}
	return snap, nil
}

func validate(doc any) error {
	ctx := cuecontext.New()
	schema := ctx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile seed schema: %w", err)
	}
	value := ctx.Encode(doc)
	if err := value.Err(); err != nil {
		return fmt.Errorf("encode seed: %w", err)
	}
	unified := schema.LookupPath(cue.ParsePath("#Seed")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid seed: %s", strings.TrimSpace(cueerrors.Details(err, nil)))
	}
	return nil
}
