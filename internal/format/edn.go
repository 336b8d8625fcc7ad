package format

import (
        "bytes"
        "fmt"
        "io"
        "sort"
        "strconv"
        "strings"
)

// WriteEDN writes a strict EDN representation.
//
// Only the JSON subset is needed (maps, vectors, strings, numbers, booleans,
// nil); structs are converted through their json tags first. Map keys become
// keywords when they are valid keyword names and strings otherwise, so keys
// like "$ref" or "a.b" survive but "root/0/1" stays a string.
func WriteEDN(w io.Writer, v any, pretty bool) error {
        x, err := jsonShape(v)
        if err != nil {
                return err
        }

        var buf bytes.Buffer
        enc := ednEncoder{pretty: pretty, indent: 2}
        enc.writeAny(&buf, x, 0)
        buf.WriteByte('\n')
        _, err = w.Write(buf.Bytes())
        return err
}

type ednEncoder struct {
        pretty bool
        indent int
}

func (e ednEncoder) writeAny(buf *bytes.Buffer, v any, level int) {
        switch t := v.(type) {
        case nil:
                buf.WriteString("nil")
        case bool:
                buf.WriteString(strconv.FormatBool(t))
        case string:
                buf.WriteString(strconv.Quote(t))
        case float64:
                // Integral values print without a decimal point.
                if t == float64(int64(t)) {
                        buf.WriteString(strconv.FormatInt(int64(t), 10))
                        return
                }
                buf.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
        case []any:
                e.writeSeq(buf, '[', ']', len(t), level, func(i int) {
                        e.writeAny(buf, t[i], level+1)
                })
        case map[string]any:
                keys := make([]string, 0, len(t))
                for k := range t {
                        keys = append(keys, k)
                }
                sort.Strings(keys)
                e.writeSeq(buf, '{', '}', len(keys), level, func(i int) {
                        buf.WriteString(ednKey(keys[i]))
                        buf.WriteByte(' ')
                        e.writeAny(buf, t[keys[i]], level+1)
                })
        default:
                buf.WriteString(strconv.Quote(fmt.Sprintf("%v", v)))
        }
}

// writeSeq writes n entries between open and close, one per line when
// pretty.
func (e ednEncoder) writeSeq(buf *bytes.Buffer, open, close byte, n, level int, entry func(i int)) {
        buf.WriteByte(open)
        if n == 0 {
                buf.WriteByte(close)
                return
        }
        if e.pretty {
                buf.WriteByte('\n')
        }
        for i := 0; i < n; i++ {
                if e.pretty {
                        buf.WriteString(strings.Repeat(" ", (level+1)*e.indent))
                }
                entry(i)
                if i != n-1 {
                        if e.pretty {
                                buf.WriteByte('\n')
                        } else {
                                buf.WriteByte(' ')
                        }
                }
        }
        if e.pretty {
                buf.WriteByte('\n')
                buf.WriteString(strings.Repeat(" ", level*e.indent))
        }
        buf.WriteByte(close)
}

func ednKey(k string) string {
        if isKeywordName(k) {
                return ":" + k
        }
        return strconv.Quote(k)
}

func isKeywordName(s string) bool {
        if s == "" {
                return false
        }
        for i, r := range s {
                switch {
                case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
                case r >= '0' && r <= '9':
                        if i == 0 {
                                return false
                        }
                case strings.ContainsRune(".*+!-_?$%&=<>", r):
                default:
                        return false
                }
        }
        return true
}
