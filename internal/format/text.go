package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// WriteText writes a human-readable rendering. Payloads implementing Texter render
// themselves; anything else is shown as an indented key/value outline built from its
// JSON form, so json tags decide the field names.
func WriteText(w io.Writer, v any) error {
	if t, ok := v.(Texter); ok {
		s := t.Text()
		if !strings.HasSuffix(s, "\n") {
			s += "\n"
		}
		_, err := io.WriteString(w, s)
		return err
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var x any
	if err := json.Unmarshal(b, &x); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := textEncoder{indent: 2}
	enc.writeAny(&buf, x, 0)
	if buf.Len() == 0 || buf.Bytes()[buf.Len()-1] != '\n' {
		buf.WriteByte('\n')
	}
	_, err = w.Write(buf.Bytes())
	return err
}

type textEncoder struct {
	indent int
}

func (e textEncoder) pad(level int) string { return strings.Repeat(" ", level*e.indent) }

func (e textEncoder) writeAny(buf *bytes.Buffer, v any, level int) {
	switch t := v.(type) {
	case []any:
		e.writeList(buf, t, level)
	case map[string]any:
		e.writeMap(buf, t, level)
	default:
		buf.WriteString(e.pad(level))
		buf.WriteString(scalar(t))
		buf.WriteByte('\n')
	}
}

func (e textEncoder) writeList(buf *bytes.Buffer, xs []any, level int) {
	if len(xs) == 0 {
		buf.WriteString(e.pad(level) + "(none)\n")
		return
	}
	for _, it := range xs {
		switch it.(type) {
		case map[string]any, []any:
			buf.WriteString(e.pad(level) + "-\n")
			e.writeAny(buf, it, level+1)
		default:
			buf.WriteString(e.pad(level) + "- " + scalar(it) + "\n")
		}
	}
}

func (e textEncoder) writeMap(buf *bytes.Buffer, m map[string]any, level int) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch val := m[k].(type) {
		case map[string]any:
			buf.WriteString(e.pad(level) + k + ":\n")
			e.writeMap(buf, val, level+1)
		case []any:
			if len(val) == 0 {
				buf.WriteString(e.pad(level) + k + ": (none)\n")
				continue
			}
			buf.WriteString(e.pad(level) + k + ":\n")
			e.writeList(buf, val, level+1)
		default:
			buf.WriteString(e.pad(level) + k + ": " + scalar(val) + "\n")
		}
	}
}

func scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return "-"
	case bool:
		return strconv.FormatBool(t)
	case string:
		return t
	case float64:
		// JSON numbers decode as float64; print integral values without a fraction.
		if float64(int64(t)) == t {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
