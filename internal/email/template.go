package email

import (
	"bytes"
	"html/template"
	"path/filepath"
)

// Template renders the HTML email bodies found in a directory
type Template struct {
	*template.Template
}

// NewTemplate loads every *.html file in dir
func NewTemplate(dir string) (*Template, error) {
	tpl, err := template.ParseGlob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, err
	}

	return &Template{tpl}, nil
}

// RenderTemplate renders the named template to a string
func (t *Template) RenderTemplate(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
