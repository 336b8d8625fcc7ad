package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"sdui-cli/internal/model"
)

// Generation is the outcome of Generate: the chosen example's document and
// the catalog records retrieved alongside it.
type Generation struct {
	Prompt       string          `json:"prompt"`
	Intent       string          `json:"intent"`
	Summary      string          `json:"summary"`
	Document     json.RawMessage `json:"document"`
	Examples     []Hit           `json:"examples"`
	Components   []Hit           `json:"components"`
	Capabilities []Hit           `json:"capabilities"`
	Problems     []Problem       `json:"problems,omitempty"`

	Page *model.Page `json:"-"`
}

// Generate picks the interaction example that best matches prompt and
// returns its page document. An empty prompt or a prompt matching no
// example fails with ErrNoDocument.
func Generate(ctx context.Context, repo Repo, prompt string, log *slog.Logger) (*Generation, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt is required", ErrNoDocument)
	}

	examples, err := Search(ctx, repo, prompt, Filter{Kind: model.RecordExample, Limit: 3})
	if err != nil {
		return nil, fmt.Errorf("search examples: %w", err)
	}
	if len(examples) == 0 {
		return nil, fmt.Errorf("%w: %q matched no interaction example", ErrNoDocument, prompt)
	}
	best, ok := examples[0].Record.(model.InteractionExample)
	if !ok {
		return nil, fmt.Errorf("unexpected example record %T", examples[0].Record)
	}
	page, err := model.DecodeJSON(best.Document)
	if err != nil {
		return nil, fmt.Errorf("example %q: %w", best.Intent, err)
	}

	components, err := Search(ctx, repo, prompt, Filter{Kind: model.RecordComponent})
	if err != nil {
		return nil, fmt.Errorf("search components: %w", err)
	}
	capabilities, err := Search(ctx, repo, prompt, Filter{Kind: model.RecordCapability})
	if err != nil {
		return nil, fmt.Errorf("search capabilities: %w", err)
	}
	manifests, err := repo.Capabilities(ctx)
	if err != nil {
		return nil, fmt.Errorf("list capabilities: %w", err)
	}

	g := &Generation{
		Prompt:       prompt,
		Intent:       best.Intent,
		Summary:      best.Summary,
		Document:     best.Document,
		Examples:     examples,
		Components:   components,
		Capabilities: capabilities,
		Problems:     Lint(page, manifests),
		Page:         page,
	}
	log.Info("generated document", "prompt", prompt, "intent", best.Intent, "score", examples[0].Score, "problems", len(g.Problems))
	return g, nil
}
