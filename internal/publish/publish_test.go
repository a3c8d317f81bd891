package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"todomap/internal/mindmap"
	"todomap/internal/model"
)

func sampleDoc() *model.Document {
	return &model.Document{
		Goals: "**People** #people\n- Hire dev",
		Tasks: []model.Task{
			{ID: "1", Title: "Hire dev", Priority: model.PriorityUrgent, Tags: []string{"people"}},
			{ID: "2", Title: "Onboard", Completed: true, Tags: []string{"people"}},
			{ID: "3", Title: "Read", Tags: []string{"books"}},
		},
	}
}

func TestRenderMindMapMarkdown(t *testing.T) {
	t.Parallel()

	md := RenderMindMapMarkdown(mindmap.BuildFromDocument(sampleDoc()), RenderOptions{})
	want := strings.Join([]string{
		"# Mind Map",
		"",
		"## People (#people)",
		"",
		"> Hire dev",
		"",
		"- [ ] Hire dev (Urgent)",
		"",
		"## #books",
		"",
		"- [ ] Read",
		"",
	}, "\n")
	if md != want {
		t.Fatalf("got:\n%s\nwant:\n%s", md, want)
	}

	withDone := RenderMindMapMarkdown(mindmap.BuildFromDocument(sampleDoc()), RenderOptions{IncludeCompleted: true, Title: "Map"})
	if !strings.HasPrefix(withDone, "# Map\n") || !strings.Contains(withDone, "- [x] Onboard") {
		t.Fatalf("include completed:\n%s", withDone)
	}
}

func TestRenderMindMapMarkdown_Empty(t *testing.T) {
	t.Parallel()

	if md := RenderMindMapMarkdown(nil, RenderOptions{}); !strings.Contains(md, "No tagged tasks") {
		t.Fatalf("empty render = %q", md)
	}
}

func TestWriteMindMap_RefusesOverwrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	res, err := WriteMindMap(sampleDoc(), dir, WriteOptions{})
	if err != nil {
		t.Fatalf("WriteMindMap: %v", err)
	}
	if len(res.Written) != 1 || res.Nodes != 2 {
		t.Fatalf("result = %+v", res)
	}
	if _, err := os.Stat(filepath.Join(dir, MindMapFileName)); err != nil {
		t.Fatalf("expected file: %v", err)
	}
	if _, err := WriteMindMap(sampleDoc(), dir, WriteOptions{}); err == nil {
		t.Fatalf("expected overwrite refusal")
	}
	if _, err := WriteMindMap(sampleDoc(), dir, WriteOptions{Overwrite: true}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if _, err := WriteMindMap(sampleDoc(), " ", WriteOptions{}); err == nil {
		t.Fatalf("expected missing --to error")
	}
}
