package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"sdui-cli/internal/model"
)

var tables = map[string]string{
	model.RecordComponent:  "components",
	model.RecordCapability: "capabilities",
	model.RecordExample:    "examples",
}

// row is the stored shape shared by every record kind. The record body is
// kept as JSON; id, key, tags and embedding text are columns so listings
// and search do not need to decode bodies.
type row struct {
	ID            string
	Key           string
	Tags          []string
	EmbeddingText string
	Body          []byte
}

func (s Store) put(ctx context.Context, kind string, r row) (string, error) {
	table, ok := tables[kind]
	if !ok {
		return "", fmt.Errorf("unknown record kind: %q", kind)
	}
	r.Key = strings.TrimSpace(r.Key)
	if r.Key == "" {
		return "", fmt.Errorf("%s: missing key", kind)
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	tagsJSON, err := json.Marshal(r.Tags)
	if err != nil {
		return "", err
	}

	db, err := s.openSQLite(ctx)
	if err != nil {
		return "", err
	}
	defer db.Close()

	// Re-seeding a key keeps its id.
	var existing string
	err = db.QueryRowContext(ctx, `SELECT id FROM `+table+` WHERE key = ?`, r.Key).Scan(&existing)
	switch {
	case err == nil:
		r.ID = existing
	case errors.Is(err, sql.ErrNoRows):
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
	default:
		return "", err
	}

	_, err = db.ExecContext(ctx, `INSERT INTO `+table+` (id, key, tags_json, embedding_text, body_json, updated_at_unixms)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			tags_json = excluded.tags_json,
			embedding_text = excluded.embedding_text,
			body_json = excluded.body_json,
			updated_at_unixms = excluded.updated_at_unixms`,
		r.ID, r.Key, string(tagsJSON), r.EmbeddingText, string(r.Body), time.Now().UnixMilli())
	if err != nil {
		return "", fmt.Errorf("put %s %q: %w", kind, r.Key, err)
	}
	return r.ID, nil
}

func (s Store) list(ctx context.Context, kind string) ([]row, error) {
	return s.query(ctx, kind, "", "")
}

func (s Store) get(ctx context.Context, kind, key string) (row, error) {
	rows, err := s.query(ctx, kind, "WHERE key = ? OR id = ?", strings.TrimSpace(key))
	if err != nil {
		return row{}, err
	}
	if len(rows) == 0 {
		return row{}, fmt.Errorf("%s %q: %w", kind, key, ErrNotFound)
	}
	return rows[0], nil
}

func (s Store) query(ctx context.Context, kind, where, arg string) ([]row, error) {
	table, ok := tables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown record kind: %q", kind)
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT id, key, tags_json, embedding_text, body_json FROM ` + table + ` ` + where + ` ORDER BY key ASC`
	var rs *sql.Rows
	if where != "" {
		rs, err = db.QueryContext(ctx, q, arg, arg)
	} else {
		rs, err = db.QueryContext(ctx, q)
	}
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	var out []row
	for rs.Next() {
		var r row
		var tagsJSON, body string
		if err := rs.Scan(&r.ID, &r.Key, &tagsJSON, &r.EmbeddingText, &body); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(tagsJSON), &r.Tags)
		r.Body = []byte(body)
		out = append(out, r)
	}
	return out, rs.Err()
}

func (s Store) PutComponent(ctx context.Context, c model.ComponentSpec) (model.ComponentSpec, error) {
	c.Type = model.RecordComponent
	body, err := json.Marshal(c)
	if err != nil {
		return c, err
	}
	id, err := s.put(ctx, model.RecordComponent, row{ID: c.ID, Key: c.Key, Tags: c.Tags, EmbeddingText: c.EmbeddingText, Body: body})
	c.ID = id
	return c, err
}

func (s Store) PutCapability(ctx context.Context, c model.CapabilityManifest) (model.CapabilityManifest, error) {
	c.Type = model.RecordCapability
	body, err := json.Marshal(c)
	if err != nil {
		return c, err
	}
	id, err := s.put(ctx, model.RecordCapability, row{ID: c.ID, Key: c.Key, Tags: c.Tags, EmbeddingText: c.EmbeddingText, Body: body})
	c.ID = id
	return c, err
}

// PutExample stores an interaction example keyed by its intent. The
// document must decode as a page.
func (s Store) PutExample(ctx context.Context, e model.InteractionExample) (model.InteractionExample, error) {
	e.Type = model.RecordExample
	if _, err := model.DecodeJSON(e.Document); err != nil {
		return e, fmt.Errorf("example %q: %w", e.Intent, err)
	}
	body, err := json.Marshal(e)
	if err != nil {
		return e, err
	}
	id, err := s.put(ctx, model.RecordExample, row{ID: e.ID, Key: e.Intent, Tags: e.Tags, EmbeddingText: e.EmbeddingText, Body: body})
	e.ID = id
	return e, err
}

func decodeRows[T any](rows []row, setID func(*T, string)) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		var v T
		if err := json.Unmarshal(r.Body, &v); err != nil {
			return nil, fmt.Errorf("decode %q: %w", r.Key, err)
		}
		setID(&v, r.ID)
		out = append(out, v)
	}
	return out, nil
}

func (s Store) Components(ctx context.Context) ([]model.ComponentSpec, error) {
	rows, err := s.list(ctx, model.RecordComponent)
	if err != nil {
		return nil, err
	}
	return decodeRows(rows, func(c *model.ComponentSpec, id string) { c.ID = id })
}

func (s Store) Capabilities(ctx context.Context) ([]model.CapabilityManifest, error) {
	rows, err := s.list(ctx, model.RecordCapability)
	if err != nil {
		return nil, err
	}
	return decodeRows(rows, func(c *model.CapabilityManifest, id string) { c.ID = id })
}

func (s Store) Examples(ctx context.Context) ([]model.InteractionExample, error) {
	rows, err := s.list(ctx, model.RecordExample)
	if err != nil {
		return nil, err
	}
	return decodeRows(rows, func(e *model.InteractionExample, id string) { e.ID = id })
}

// Component looks up a component spec by key or id.
func (s Store) Component(ctx context.Context, key string) (model.ComponentSpec, error) {
	r, err := s.get(ctx, model.RecordComponent, key)
	if err != nil {
		return model.ComponentSpec{}, err
	}
	out, err := decodeRows([]row{r}, func(c *model.ComponentSpec, id string) { c.ID = id })
	if err != nil {
		return model.ComponentSpec{}, err
	}
	return out[0], nil
}

func (s Store) Capability(ctx context.Context, key string) (model.CapabilityManifest, error) {
	r, err := s.get(ctx, model.RecordCapability, key)
	if err != nil {
		return model.CapabilityManifest{}, err
	}
	out, err := decodeRows([]row{r}, func(c *model.CapabilityManifest, id string) { c.ID = id })
	if err != nil {
		return model.CapabilityManifest{}, err
	}
	return out[0], nil
}

// Example looks up an interaction example by intent or id.
func (s Store) Example(ctx context.Context, intent string) (model.InteractionExample, error) {
	r, err := s.get(ctx, model.RecordExample, intent)
	if err != nil {
		return model.InteractionExample{}, err
	}
	out, err := decodeRows([]row{r}, func(e *model.InteractionExample, id string) { e.ID = id })
	if err != nil {
		return model.InteractionExample{}, err
	}
	return out[0], nil
}
