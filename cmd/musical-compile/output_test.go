package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestOutputPath(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name, target, expected string
	}{
		{"existing directory", dir, filepath.Join(dir, "song.wav")},
		{"new file", filepath.Join(dir, "out", "tune.txt"), filepath.Join(dir, "out", "tune.wav")},
		{"trailing slash", filepath.Join(dir, "new") + string(filepath.Separator), filepath.Join(dir, "new", "song.wav")},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var w writer
			w.setTarget(c.target)
			got, err := w.path(filepath.Join("songs", "song.musical"), ".wav")
			if err != nil {
				t.Fatalf("path failed: %v", err)
			}
			if got != c.expected {
				t.Fatalf("got %v, expected %v", got, c.expected)
			}
		})
	}
}

func TestSafeWrite(t *testing.T) {
	dir := t.TempDir()
	w := writer{dir: dir, safe: true}
	if err := w.write("song.musical", ".raw", []byte{1, 2}); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	if err := w.write("song.musical", ".raw", []byte{1, 2}); err != nil {
		t.Fatalf("rewriting the same contents should be allowed: %v", err)
	}
	if err := w.write("song.musical", ".raw", []byte{3}); err == nil {
		t.Fatalf("expected an error when overwriting")
	}
	b, err := os.ReadFile(filepath.Join(dir, "song.raw"))
	if err != nil || !bytes.Equal(b, []byte{1, 2}) {
		t.Fatalf("file should be unchanged, got %v (%v)", b, err)
	}
}

func TestListOnly(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	w := writer{dir: dir, list: true, out: &out}
	if err := w.write("song.musical", ".wav", []byte{1}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if got, expected := out.String(), filepath.Join(dir, "song.wav")+"\n"; got != expected {
		t.Fatalf("got %q, expected %q", got, expected)
	}
	if _, err := os.Stat(filepath.Join(dir, "song.wav")); !os.IsNotExist(err) {
		t.Fatalf("listing should not create files: %v", err)
	}
}
