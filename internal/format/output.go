package format

import (
        "encoding/json"
        "errors"
        "fmt"
        "io"

        "gopkg.in/yaml.v3"
)

// TextWriter is implemented by values with a human-readable form (for
// example a rendered tree outline).
type TextWriter interface {
        WriteText(w io.Writer) error
}

var ErrNoTextForm = errors.New("value has no text form")

// Write writes output in the requested format.
//
// Supported formats:
// - json (default)
// - edn
// - yaml
// - text (only for values implementing TextWriter)
func Write(w io.Writer, v any, format string, pretty bool) error {
        switch format {
        case "", "json":
                return WriteJSON(w, v, pretty)
        case "edn":
                return WriteEDN(w, v, pretty)
        case "yaml", "yml":
                return WriteYAML(w, v)
        case "text":
                tw, ok := v.(TextWriter)
                if !ok {
                        return fmt.Errorf("%w: %T", ErrNoTextForm, v)
                }
                return tw.WriteText(w)
        default:
                return fmt.Errorf("unknown format: %s", format)
        }
}

// Valid reports whether name is a format Write understands.
func Valid(name string) bool {
        switch name {
        case "", "json", "edn", "yaml", "yml", "text":
                return true
        }
        return false
}

// WriteJSON writes strict JSON. Documents and snapshots are plain JSON
// trees, so keep the output strict JSON only.
func WriteJSON(w io.Writer, v any, pretty bool) error {
        var b []byte
        var err error
        if pretty {
                b, err = json.MarshalIndent(v, "", "  ")
        } else {
                b, err = json.Marshal(v)
        }
        if err != nil {
                return err
        }

        _, err = fmt.Fprintln(w, string(b))
        return err
}

// WriteYAML writes v as YAML. Like EDN, structs go through JSON first so
// json tags decide field names.
func WriteYAML(w io.Writer, v any) error {
        x, err := jsonShape(v)
        if err != nil {
                return err
        }
        enc := yaml.NewEncoder(w)
        enc.SetIndent(2)
        if err := enc.Encode(x); err != nil {
                return err
        }
        return enc.Close()
}

func jsonShape(v any) (any, error) {
        b, err := json.Marshal(v)
        if err != nil {
                return nil, err
        }
        var x any
        if err := json.Unmarshal(b, &x); err != nil {
                return nil, err
        }
        return x, nil
}
