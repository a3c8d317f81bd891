package markdown

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"todomap/internal/model"
)

// Serialize renders doc as canonical document text. It is deterministic and is a fixed
// point of Parse: Serialize(Parse(Serialize(d))) == Serialize(d).
func Serialize(doc *model.Document) string {
	var buf bytes.Buffer
	writeDocument(&buf, doc)
	return buf.String()
}

// Write streams the serialized document to w. Write errors are returned as-is.
func Write(w io.Writer, doc *model.Document) error {
	var buf bytes.Buffer
	writeDocument(&buf, doc)
	_, err := w.Write(buf.Bytes())
	return err
}

func writeDocument(buf *bytes.Buffer, doc *model.Document) {
	if doc == nil {
		doc = &model.Document{}
	}
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}
	heading := func(prefix string, m string) {
		writeLn("")
		writeLn(prefix + m)
	}

	writeLn(documentTitle)

	if goals := strings.Trim(doc.Goals, "\n"); strings.TrimSpace(goals) != "" {
		heading(level2Prefix, markerGoals.Heading)
		for _, ln := range strings.Split(goals, "\n") {
			// Blank lines are dropped on parse; dropping them here keeps the output a fixed point.
			if strings.TrimSpace(ln) == "" {
				continue
			}
			writeLn(escapeGoalsLine(strings.TrimRight(ln, " \t\r")))
		}
	}

	if len(doc.TopPriority) > 0 {
		heading(level3Prefix, markerTopPriority.Heading)
		for _, t := range doc.TopPriority {
			writeLn(CheckboxLine(t))
		}
	}

	if things := nonEmpty(doc.BigThings); len(things) > 0 {
		heading(level2Prefix, markerBigThings.Heading)
		for i, thing := range things {
			writeLn(strconv.Itoa(i+1) + ". " + thing)
		}
	}

	for _, p := range model.Priorities {
		var lines []string
		for _, t := range doc.Tasks {
			if t.Completed || t.Priority != p {
				continue
			}
			lines = append(lines, CheckboxLine(t))
		}
		if len(lines) == 0 {
			continue
		}
		heading(level3Prefix, bucketHeading(p))
		for _, ln := range lines {
			writeLn(ln)
		}
	}

	heading(level3Prefix, markerCompleted.Heading)
	for _, t := range doc.Tasks {
		if t.Completed {
			writeLn(CheckboxLine(t))
		}
	}

	if len(doc.Deleted) > 0 {
		heading(level3Prefix, markerDeleted.Heading)
		for _, t := range doc.Deleted {
			writeLn(CheckboxLine(t))
		}
	}
}

// CheckboxLine renders one task as `- [x] Title #tag`.
func CheckboxLine(t model.Task) string {
	var b strings.Builder
	if t.Completed {
		b.WriteString("- [x] ")
	} else {
		b.WriteString("- [ ] ")
	}
	b.WriteString(strings.TrimSpace(t.Title))
	for _, tag := range t.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		b.WriteString(" #")
		b.WriteString(tag)
	}
	return b.String()
}

// escapeGoalsLine keeps goal prose that looks like a level-2/3 heading from ending the
// goals section on the next load.
func escapeGoalsLine(ln string) string {
	trimmed := strings.TrimSpace(ln)
	if strings.HasPrefix(trimmed, level2Prefix) || strings.HasPrefix(trimmed, level3Prefix) {
		return `\` + trimmed
	}
	return ln
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
