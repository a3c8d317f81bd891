package format

import (
	"bytes"
	"strings"
	"testing"
)

type greeting struct{ name string }

func (g greeting) Text() string { return "hello " + g.name }

func TestWrite_JSONAndPretty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, map[string]any{"a": 1}, "", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if buf.String() != "{\"a\":1}\n" {
		t.Fatalf("json = %q", buf.String())
	}
	buf.Reset()
	if err := Write(&buf, map[string]any{"a": 1}, "json", true); err != nil {
		t.Fatalf("Write pretty: %v", err)
	}
	if buf.String() != "{\n  \"a\": 1\n}\n" {
		t.Fatalf("pretty = %q", buf.String())
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, 1, "edn", false); err == nil {
		t.Fatalf("expected error")
	}
}

func TestWriteText_UsesTexter(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, greeting{name: "world"}, "TEXT", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if buf.String() != "hello world\n" {
		t.Fatalf("text = %q", buf.String())
	}
}

func TestWriteText_GenericOutline(t *testing.T) {
	v := struct {
		Name  string   `json:"name"`
		Count int      `json:"count"`
		Tags  []string `json:"tags"`
		Empty []string `json:"empty"`
		Inner struct {
			OK bool `json:"ok"`
		} `json:"inner"`
	}{Name: "x", Count: 2, Tags: []string{"a", "b"}, Empty: []string{}}
	var buf bytes.Buffer
	if err := WriteText(&buf, v); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	want := strings.Join([]string{
		"count: 2",
		"empty: (none)",
		"inner:",
		"  ok: false",
		"name: x",
		"tags:",
		"  - a",
		"  - b",
		"",
	}, "\n")
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}
