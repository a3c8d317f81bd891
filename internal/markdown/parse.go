package markdown

import (
	"regexp"
	"strings"
	"time"

	"todomap/internal/model"
)

// ParseOptions controls identity and timestamps assigned to parsed tasks.
// The document format carries neither, so they are minted on every load.
type ParseOptions struct {
	NewID func() model.TaskID
	Now   func() time.Time
}

// Stats summarizes one parse for diagnostics. Skipped lines are not errors.
type Stats struct {
	Lines   int `json:"lines"`
	Tasks   int `json:"tasks"`
	Skipped int `json:"skipped"`
}

var bigThingLine = regexp.MustCompile(`^\d+\.`)

// Parse reads a whole todo document. It never fails: lines that match no recognized
// pattern are skipped.
func Parse(text string) *model.Document {
	doc, _ := ParseWithStats(text, ParseOptions{})
	return doc
}

// ParseWith is Parse with injected id and clock sources.
func ParseWith(text string, opt ParseOptions) *model.Document {
	doc, _ := ParseWithStats(text, opt)
	return doc
}

// ParseWithStats parses text and also reports how many lines were read, turned into
// tasks, or skipped.
func ParseWithStats(text string, opt ParseOptions) (*model.Document, Stats) {
	if opt.NewID == nil {
		opt.NewID = model.NewTaskID
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}
	p := parser{opt: opt, doc: &model.Document{}}
	for _, raw := range strings.Split(normalizeNewlines(text), "\n") {
		p.line(raw)
	}
	p.doc.Goals = strings.Join(p.goals, "\n")
	return p.doc, p.stats
}

type parser struct {
	opt   ParseOptions
	doc   *model.Document
	stats Stats

	cur    section
	bucket model.Priority
	goals  []string
}

func (p *parser) line(raw string) {
	p.stats.Lines++
	line := strings.TrimSpace(raw)
	if line == "" || (line == documentTitle && p.cur == sectionNone) {
		return
	}

	switch {
	case strings.HasPrefix(line, level3Prefix):
		p.cur = sectionNone
		p.bucket = model.PriorityNormal
		if m, ok := lookupMarker(level3Markers, strings.TrimPrefix(line, level3Prefix)); ok {
			p.cur = m.Section
			p.bucket = m.Priority
		}
		return
	case strings.HasPrefix(line, level2Prefix):
		p.cur = sectionNone
		if m, ok := lookupMarker(level2Markers, strings.TrimPrefix(line, level2Prefix)); ok {
			p.cur = m.Section
		}
		return
	}

	switch p.cur {
	case sectionGoals:
		// Goals are kept verbatim (including indentation); the extractor parses them.
		p.goals = append(p.goals, unescapeGoalsLine(strings.TrimRight(raw, " \t\r")))
		return
	case sectionBigThings:
		if bigThingLine.MatchString(line) {
			_, rest, _ := strings.Cut(line, ".")
			if rest = strings.TrimSpace(rest); rest != "" {
				p.doc.BigThings = append(p.doc.BigThings, rest)
				return
			}
		}
		p.stats.Skipped++
		return
	}

	task, ok := p.checkbox(line)
	if !ok {
		p.stats.Skipped++
		return
	}
	switch p.cur {
	case sectionDeleted:
		p.doc.Deleted = append(p.doc.Deleted, task)
	case sectionTopPriority:
		p.doc.TopPriority = append(p.doc.TopPriority, task)
	case sectionTasks:
		task.Priority = p.bucket
		p.doc.Tasks = append(p.doc.Tasks, task)
	default:
		p.stats.Skipped++
		return
	}
	p.stats.Tasks++
}

// unescapeGoalsLine undoes escapeGoalsLine for goal prose that looks like a heading.
func unescapeGoalsLine(ln string) string {
	trimmed := strings.TrimSpace(ln)
	if rest, ok := strings.CutPrefix(trimmed, `\`); ok &&
		(strings.HasPrefix(rest, level2Prefix) || strings.HasPrefix(rest, level3Prefix)) {
		return rest
	}
	return ln
}

// checkbox parses `- [ ] Title #tag1 #tag2` / `- [x] ...`.
func (p *parser) checkbox(line string) (model.Task, bool) {
	if !strings.HasPrefix(line, "- [") {
		return model.Task{}, false
	}
	box, rest, ok := strings.Cut(line, "] ")
	if !ok {
		return model.Task{}, false
	}
	box = strings.TrimPrefix(box, "- [")
	completed := strings.ContainsAny(box, "xX")

	parts := strings.Split(rest, " #")
	title := strings.TrimSpace(parts[0])
	if title == "" {
		return model.Task{}, false
	}
	return model.Task{
		ID:        p.opt.NewID(),
		Title:     title,
		Completed: completed,
		CreatedAt: p.opt.Now(),
		Tags:      model.NormalizeTags(parts[1:]),
		Priority:  model.PriorityNormal,
	}, true
}

func normalizeNewlines(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.ReplaceAll(s, "\r\n", "\n")
}
