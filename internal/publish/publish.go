package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"todomap/internal/mindmap"
	"todomap/internal/model"
)

const MindMapFileName = "mindmap.md"

type WriteOptions struct {
	Title            string
	IncludeCompleted bool
	Overwrite        bool
}

type WriteResult struct {
	Written []string `json:"written"`
	Nodes   int      `json:"nodes"`
}

// WriteMindMap builds the mind map for doc and writes it to toDir/mindmap.md.
func WriteMindMap(doc *model.Document, toDir string, opt WriteOptions) (WriteResult, error) {
	if doc == nil {
		return WriteResult{}, errors.New("missing document")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	nodes := mindmap.BuildFromDocument(doc)
	md := RenderMindMapMarkdown(nodes, RenderOptions{Title: opt.Title, IncludeCompleted: opt.IncludeCompleted})

	if err := os.MkdirAll(toDir, 0o755); err != nil {
		return WriteResult{}, err
	}
	outPath := filepath.Join(toDir, MindMapFileName)
	if err := writeFile(outPath, []byte(md), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{outPath}, Nodes: len(nodes)}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
