package catalog

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"

	"sdui-cli/internal/model"
)

const defaultLimit = 5

// Filter narrows a search. Zero values mean no restriction.
type Filter struct {
	// Kind is one of the model.Record* kinds.
	Kind  string
	Tags  []string
	Limit int
}

// Hit is one ranked record. Record holds the typed catalog record.
type Hit struct {
	Kind    string   `json:"kind"`
	Key     string   `json:"key"`
	Summary string   `json:"summary,omitempty"`
	Tags    []string `json:"tags"`
	Score   float64  `json:"score"`
	Record  any      `json:"record"`
}

type candidate struct {
	hit  Hit
	text string
}

// Search ranks catalog records against a free-text query. Each query term
// scores 1 for an exact token match in the record's search text, key or
// tags, with a bonus for tags, or a partial score for a near miss by edit
// distance. Records scoring zero are dropped.
func Search(ctx context.Context, repo Repo, query string, f Filter) ([]Hit, error) {
	cands, err := candidates(ctx, repo, f.Kind)
	if err != nil {
		return nil, err
	}
	terms := tokenize(query)
	if len(terms) == 0 {
		return []Hit{}, nil
	}

	out := []Hit{}
	for _, c := range cands {
		if !hasAllTags(c.hit.Tags, f.Tags) {
			continue
		}
		score := scoreRecord(terms, tokenize(c.text+" "+c.hit.Key), c.hit.Tags)
		if score <= 0 {
			continue
		}
		c.hit.Score = score
		out = append(out, c.hit)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Key < out[j].Key
	})
	limit := f.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func candidates(ctx context.Context, repo Repo, kind string) ([]candidate, error) {
	var out []candidate
	if kind == "" || kind == model.RecordComponent {
		comps, err := repo.Components(ctx)
		if err != nil {
			return nil, err
		}
		for _, c := range comps {
			out = append(out, candidate{
				hit:  Hit{Kind: model.RecordComponent, Key: c.Key, Summary: c.Library, Tags: c.Tags, Record: c},
				text: c.EmbeddingText,
			})
		}
	}
	if kind == "" || kind == model.RecordCapability {
		caps, err := repo.Capabilities(ctx)
		if err != nil {
			return nil, err
		}
		for _, c := range caps {
			out = append(out, candidate{
				hit:  Hit{Kind: model.RecordCapability, Key: c.Key, Summary: c.Description, Tags: c.Tags, Record: c},
				text: c.EmbeddingText + " " + c.Description,
			})
		}
	}
	if kind == "" || kind == model.RecordExample {
		exs, err := repo.Examples(ctx)
		if err != nil {
			return nil, err
		}
		for _, e := range exs {
			out = append(out, candidate{
				hit:  Hit{Kind: model.RecordExample, Key: e.Intent, Summary: e.Summary, Tags: e.Tags, Record: e},
				text: e.EmbeddingText + " " + e.Summary,
			})
		}
	}
	return out, nil
}

func scoreRecord(terms, tokens, tags []string) float64 {
	vocab := map[string]bool{}
	for _, t := range tokens {
		vocab[t] = true
	}
	tagSet := map[string]bool{}
	for _, t := range tags {
		tagSet[strings.ToLower(t)] = true
	}

	var score float64
	for _, term := range terms {
		switch {
		case vocab[term] || tagSet[term]:
			score++
			if tagSet[term] {
				score += 0.5
			}
		default:
			score += fuzzy(term, vocab)
		}
	}
	return score / float64(len(terms))
}

// fuzzy scores a near miss: one edit on a term of four or more runes, or two
// edits on six or more.
func fuzzy(term string, vocab map[string]bool) float64 {
	n := len([]rune(term))
	if n < 4 {
		return 0
	}
	best := -1
	for tok := range vocab {
		d := levenshtein.ComputeDistance(term, tok)
		if best < 0 || d < best {
			best = d
		}
	}
	switch {
	case best == 1:
		return 0.5
	case best == 2 && n >= 6:
		return 0.25
	}
	return 0
}

func hasAllTags(have, want []string) bool {
	if len(want) == 0 {
		return true
	}
	set := map[string]bool{}
	for _, t := range have {
		set[strings.ToLower(t)] = true
	}
	for _, t := range want {
		if !set[strings.ToLower(strings.TrimSpace(t))] {
			return false
		}
	}
	return true
}

// tokenize lowercases s and splits it on anything that is not a letter or
// digit. "modal.open" yields "modal" and "open".
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
