// Package catalog is the document producer side of sdui: a local catalog of
// component specs, capability manifests and interaction examples, ranked
// search over it, and selection of a ready-made page document for a prompt.
package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"sdui-cli/internal/model"
)

// ErrNoDocument is returned when no document can be produced for a prompt.
// Callers never receive a substituted document instead.
var ErrNoDocument = errors.New("no document for prompt")

// Repo is the persistence the catalog needs. store.Store implements it.
type Repo interface {
	PutComponent(ctx context.Context, c model.ComponentSpec) (model.ComponentSpec, error)
	PutCapability(ctx context.Context, c model.CapabilityManifest) (model.CapabilityManifest, error)
	PutExample(ctx context.Context, e model.InteractionExample) (model.InteractionExample, error)
	Components(ctx context.Context) ([]model.ComponentSpec, error)
	Capabilities(ctx context.Context) ([]model.CapabilityManifest, error)
	Examples(ctx context.Context) ([]model.InteractionExample, error)
}

//go:embed seed.json
var seedJSON []byte

type seedFile struct {
	Components   []model.ComponentSpec      `json:"components"`
	Capabilities []model.CapabilityManifest `json:"capabilities"`
	Examples     []model.InteractionExample `json:"examples"`
}

// Builtins returns the built-in records.
func Builtins() (components []model.ComponentSpec, capabilities []model.CapabilityManifest, examples []model.InteractionExample, err error) {
	var f seedFile
	if err := json.Unmarshal(seedJSON, &f); err != nil {
		return nil, nil, nil, fmt.Errorf("decode builtin catalog: %w", err)
	}
	return f.Components, f.Capabilities, f.Examples, nil
}

// SeedResult counts the records written by Seed.
type SeedResult struct {
	Components   int `json:"components"`
	Capabilities int `json:"capabilities"`
	Examples     int `json:"examples"`
}

// Seed writes the built-in records. Records are keyed, so seeding twice
// updates in place.
func Seed(ctx context.Context, repo Repo, log *slog.Logger) (SeedResult, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	comps, caps, exs, err := Builtins()
	if err != nil {
		return SeedResult{}, err
	}
	var res SeedResult
	for _, c := range comps {
		if _, err := repo.PutComponent(ctx, c); err != nil {
			return res, err
		}
		log.Debug("seeded component", "key", c.Key)
		res.Components++
	}
	for _, c := range caps {
		if _, err := repo.PutCapability(ctx, c); err != nil {
			return res, err
		}
		log.Debug("seeded capability", "key", c.Key)
		res.Capabilities++
	}
	for _, e := range exs {
		if _, err := repo.PutExample(ctx, e); err != nil {
			return res, err
		}
		log.Debug("seeded example", "intent", e.Intent)
		res.Examples++
	}
	return res, nil
}
