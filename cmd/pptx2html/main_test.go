package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/VantageDataChat/pptxhtml/internal/pptxtest"
)

// helper: write a one-slide deck to dir/name
func writeDeck(t *testing.T, dir, name, title string) string {
	t.Helper()
	d := &pptxtest.Deck{
		Title:  title,
		Slides: []pptxtest.Slide{{Shapes: []string{pptxtest.Title(title + " opening")}}},
	}
	b, err := d.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// helper: run the command with args
func execute(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCmd(io.Discard)
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.Execute()
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

func TestConvertSingleFile(t *testing.T) {
	dir := t.TempDir()
	in := writeDeck(t, dir, "deck.pptx", "Kickoff")
	out := filepath.Join(dir, "site", "index.html")
	if err := os.MkdirAll(filepath.Dir(out), 0o750); err != nil {
		t.Fatal(err)
	}

	err := execute(t, in, "-o", out, "--embed", "--allowed-origin", "https://portal.example.com",
		"--outline", "--profile", "simple", "--title", "Custom")
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	doc := readFile(t, out)
	if !strings.Contains(doc, "<title>Custom</title>") || !strings.Contains(doc, "Kickoff opening") {
		t.Error("standalone document missing title or slide text")
	}
	if strings.Contains(doc, `id="thumbnails"`) {
		t.Error("simple profile should not emit thumbnails")
	}
	embed := readFile(t, filepath.Join(dir, "site", "index-embed.html"))
	if !strings.Contains(embed, `"https://portal.example.com"`) {
		t.Error("embed document does not post to the allowed origin")
	}
	snippet := readFile(t, filepath.Join(dir, "site", "index-embed.snippet.html"))
	if !strings.Contains(snippet, `src="index-embed.html"`) {
		t.Errorf("snippet does not point at the embed file:\n%s", snippet)
	}
	md := readFile(t, filepath.Join(dir, "site", "index.md"))
	if !strings.HasPrefix(md, "# Custom\n") {
		t.Errorf("outline = %q", md)
	}
}

func TestConvertDirectoryWithPattern(t *testing.T) {
	src := t.TempDir()
	writeDeck(t, src, "a.pptx", "Alpha")
	if err := os.MkdirAll(filepath.Join(src, "nested"), 0o750); err != nil {
		t.Fatal(err)
	}
	writeDeck(t, filepath.Join(src, "nested"), "b.pptx", "Beta")
	writeDeck(t, src, "draft-c.pptx", "Draft")
	if err := os.WriteFile(filepath.Join(src, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "html")
	if err := execute(t, src, "-o", out, "--pattern", "{a,b}.pptx"); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	for _, name := range []string{"a.html", "b.html"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "draft-c.html")); !os.IsNotExist(err) {
		t.Error("draft-c.pptx should not match the pattern")
	}
}

func TestConfigFileAndFlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	in := writeDeck(t, dir, "deck.pptx", "Plan")
	cfgPath := filepath.Join(dir, "pptxhtml.yaml")
	cfg := "render:\n  profile: simple\n  language: fr\n  direction: rtl\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := execute(t, in, "--config", cfgPath, "--lang", "de"); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	doc := readFile(t, filepath.Join(dir, "deck.html"))
	if !strings.Contains(doc, `lang="de"`) {
		t.Error("--lang should override the config file")
	}
	if !strings.Contains(doc, `dir="rtl"`) {
		t.Error("config direction should apply when the flag is not set")
	}
}

func TestCommandErrors(t *testing.T) {
	dir := t.TempDir()
	if err := execute(t, filepath.Join(dir, "missing.pptx")); err == nil {
		t.Error("expected an error for a missing input")
	}
	bad := filepath.Join(dir, "bad.pptx")
	if err := os.WriteFile(bad, []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, bad); err == nil {
		t.Error("expected an error for a corrupt input")
	}
	good := writeDeck(t, dir, "good.pptx", "Good")
	if err := execute(t, good, "--profile", "fancy"); err == nil {
		t.Error("expected an error for an unknown profile")
	}
	if err := execute(t, good, "--allowed-origin", "portal.example.com"); err == nil {
		t.Error("expected an error for an invalid origin")
	}
	if err := execute(t, dir, "--pattern", "*.key"); err == nil {
		t.Error("expected an error when nothing matches")
	}
	if err := execute(t); err == nil {
		t.Error("expected an error without arguments")
	}
}
