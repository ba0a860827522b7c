package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// writer places the files generated from a source script. Every output
// shares the base name of its script and differs by extension.
type writer struct {
	dir  string // empty means the working directory
	name string // overrides the name of the script when set
	// stdout and list both send to out instead of writing files
	stdout, list bool
	safe         bool
	verbose      bool
	out          io.Writer
}

// setTarget interprets the -o flag: an existing directory, or a directory
// and a base name whose extension is ignored.
func (w *writer) setTarget(target string) {
	if target == "" {
		return
	}
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		w.dir = target
		return
	}
	w.dir, w.name = filepath.Split(target)
}

func (w *writer) path(source, extension string) (string, error) {
	_, name := filepath.Split(source)
	if w.name != "" {
		name = w.name
	}
	dir := w.dir
	if dir == "" {
		var err error
		if dir, err = os.Getwd(); err != nil {
			return "", fmt.Errorf("could not get working directory, specify the output directory explicitly: %v", err)
		}
	}
	return filepath.Join(dir, strings.TrimSuffix(name, filepath.Ext(name))+extension), nil
}

// write stores contents next to the other outputs of source. Files that
// already hold the same contents are left alone.
func (w *writer) write(source, extension string, contents []byte) error {
	if w.stdout {
		_, err := w.out.Write(contents)
		return err
	}
	f, err := w.path(source, extension)
	if err != nil {
		return err
	}
	if original, err := os.ReadFile(f); err == nil {
		if bytes.Equal(original, contents) {
			return nil
		}
		if !w.list && w.safe {
			return fmt.Errorf("file %v would be overwritten by compiler", f)
		}
	}
	if w.list {
		fmt.Fprintln(w.out, f)
		return nil
	}
	dir := filepath.Dir(f)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("could not create output directory %v: %v", dir, err)
	}
	if err := os.WriteFile(f, contents, 0644); err != nil {
		return fmt.Errorf("could not write file %v: %v", f, err)
	}
	if w.verbose {
		log.Printf("wrote %v (%v bytes)", f, len(contents))
	}
	return nil
}
