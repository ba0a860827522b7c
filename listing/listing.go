// Package listing produces human readable listings of parsed scripts and
// compiled programs using text/template.
package listing

import (
	"bytes"
	"embed"
	"fmt"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/vsariola/musical"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type (
	Lister struct {
		Template *template.Template
	}

	ProgramMacros struct {
		Program  musical.Program
		Plays    int
		Advances int
		Length   float64
	}

	ScriptMacros struct {
		Tokens []musical.Token
		Labels []string
	}
)

const (
	ProgramTemplate = "program.txt"
	ScriptTemplate  = "script.txt"
)

//go:embed templates/*
var templateFS embed.FS

// New returns a lister using the default templates.
func New() (*Lister, error) {
	tmpl, err := template.New("base").Funcs(funcMap()).ParseFS(templateFS, "templates/*.*")
	if err != nil {
		return nil, fmt.Errorf(`could not create templates: %v`, err)
	}
	return &Lister{Template: tmpl}, nil
}

// NewFromTemplates returns a lister using the program.txt and script.txt
// templates found in the directory.
func NewFromTemplates(templateDirectory string) (*Lister, error) {
	globPtrn := filepath.Join(templateDirectory, "*.*")
	tmpl, err := template.New("base").Funcs(funcMap()).ParseGlob(globPtrn)
	if err != nil {
		return nil, fmt.Errorf(`could not create template based on directory "%v": %v`, templateDirectory, err)
	}
	return &Lister{Template: tmpl}, nil
}

func NewProgramMacros(p musical.Program) *ProgramMacros {
	ret := ProgramMacros{Program: p, Length: p.Length()}
	for i := range p.Len() {
		switch p.At(i).Kind {
		case musical.Play:
			ret.Plays++
		case musical.Advance:
			ret.Advances++
		}
	}
	return &ret
}

func NewScriptMacros(s musical.Script) *ScriptMacros {
	ret := ScriptMacros{Tokens: s.Tokens, Labels: []string{}}
	for _, t := range s.Tokens {
		if l, ok := t.(musical.Label); ok {
			ret.Labels = append(ret.Labels, l.Name)
		}
	}
	return &ret
}

func (l *Lister) Program(p musical.Program) (string, error) {
	return l.execute(ProgramTemplate, NewProgramMacros(p))
}

func (l *Lister) Script(s musical.Script) (string, error) {
	return l.execute(ScriptTemplate, NewScriptMacros(s))
}

func (l *Lister) execute(templateName string, data interface{}) (string, error) {
	result := bytes.NewBufferString("")
	if err := l.Template.ExecuteTemplate(result, templateName, data); err != nil {
		return "", fmt.Errorf(`could not execute template "%v": %v`, templateName, err)
	}
	return result.String(), nil
}

func funcMap() template.FuncMap {
	caser := cases.Title(language.English)
	m := sprig.TxtFuncMap()
	m["title"] = caser.String
	m["tokenKind"] = tokenKind
	return m
}

func tokenKind(t musical.Token) string {
	switch t.(type) {
	case musical.Label:
		return "label"
	case musical.Property:
		return "property"
	case musical.Command:
		return "command"
	}
	return "unknown"
}
