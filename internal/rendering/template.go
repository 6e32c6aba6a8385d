package rendering

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"text/template"

	"github.com/jonathan/resume-forge/internal/dates"
	"github.com/jonathan/resume-forge/internal/localize"
	"github.com/jonathan/resume-forge/internal/types"
)

// MainSource is the workspace file name the rendered template is written to
const MainSource = "main.tex"

// templateSuffixes mark template sources that are not copied into the workspace
var templateSuffixes = []string{".j2", ".tmpl"}

// Template is a parsed LaTeX template
type Template struct {
	path string
	tmpl *template.Template
}

// baseFuncs are replaced per render where they depend on the document
func baseFuncs() template.FuncMap {
	return template.FuncMap{
		"escape":     EscapeLaTeX,
		"tex_escape": TexEscape,
		"fmt_ym":     func(value any) string { return formatLabel(value, nil) },
		"join":       join,
		"default":    defaultValue,
	}
}

// LoadTemplate reads and parses dir/name
func LoadTemplate(dir, name string) (*Template, error) {
	path := filepath.Join(dir, name)
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &TemplateError{
				Message: fmt.Sprintf("template file not found: %s", path),
				Cause:   ErrTemplateNotFound,
			}
		}
		return nil, &TemplateError{
			Message: fmt.Sprintf("failed to read template file: %s", path),
			Cause:   err,
		}
	}

	tmpl, err := template.New(name).Funcs(baseFuncs()).Parse(string(content))
	if err != nil {
		return nil, &TemplateError{
			Message: "failed to parse template",
			Cause:   err,
		}
	}

	return &Template{path: path, tmpl: tmpl}, nil
}

// Path returns the template file path
func (t *Template) Path() string {
	return t.path
}

// Render executes the template against doc. fmt_ym uses the document's
// months_short label for month names.
func (t *Template) Render(doc *types.IntermediateDocument) (string, error) {
	if doc == nil {
		return "", &RenderError{Message: "intermediate document is nil"}
	}

	months, _ := localize.MonthNames(doc.Labels)
	tmpl, err := t.tmpl.Clone()
	if err != nil {
		return "", &TemplateError{Message: "failed to clone template", Cause: err}
	}
	tmpl.Funcs(template.FuncMap{
		"fmt_ym": func(value any) string { return formatLabel(value, months) },
	})

	var result strings.Builder
	if err := tmpl.Execute(&result, doc); err != nil {
		return "", &TemplateError{
			Message: "failed to execute template",
			Cause:   err,
		}
	}
	return result.String(), nil
}

func formatLabel(value any, months []string) string {
	if value == nil {
		return ""
	}
	return dates.FormatLabel(fmt.Sprint(value), months)
}

func join(sep string, items []string) string {
	return strings.Join(items, sep)
}

// defaultValue returns fallback when value is nil or a zero value
func defaultValue(fallback, value any) any {
	if value == nil {
		return fallback
	}
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return fallback
	}
	if v.IsZero() {
		return fallback
	}
	if (v.Kind() == reflect.Slice || v.Kind() == reflect.Map) && v.Len() == 0 {
		return fallback
	}
	return value
}

// SupportFiles collects every file under dir that the build needs next to the
// rendered source: everything except template sources and MainSource.
// Keys are slash-separated paths relative to dir.
func SupportFiles(dir string) (map[string][]byte, error) {
	files := make(map[string][]byte)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == MainSource || isTemplateSource(rel) {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files[rel] = content
		return nil
	})
	if err != nil {
		return nil, &RenderError{
			Message: fmt.Sprintf("failed to collect support files from %s", dir),
			Cause:   err,
		}
	}
	return files, nil
}

func isTemplateSource(name string) bool {
	for _, suffix := range templateSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
