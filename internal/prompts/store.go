// Package prompts manages the instruction templates used by the analysis
// pipeline. Built-in templates are embedded at compile time; a directory of
// .txt files can override any of them at startup. Templates use {name}
// placeholders resolved at render time.
package prompts

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

//go:embed templates/*.txt
var templates embed.FS

var placeholderRegex = regexp.MustCompile(`\{([a-z_]+)\}`)

// Store holds loaded prompt templates keyed by name. Templates are read once
// at construction; Reload re-reads them, which keeps lookups allocation-free
// on the hot path.
type Store struct {
	dir       string
	logger    *slog.Logger
	templates map[string]string
}

// NewStore loads the embedded templates, then applies overrides from dir when
// it is non-empty. Override files are matched by base name without extension.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	s := &Store{
		dir:    dir,
		logger: logger.With("system", "prompts"),
	}

	if err := s.Reload(); err != nil {
		return nil, err
	}

	return s, nil
}

// Reload re-reads the embedded templates and any directory overrides.
func (s *Store) Reload() error {
	loaded, err := loadEmbedded()
	if err != nil {
		return err
	}

	if s.dir != "" {
		overridden, err := s.loadOverrides(loaded)
		if err != nil {
			return err
		}

		if len(overridden) > 0 {
			s.logger.Info(
				"prompt overrides applied",
				"dir", s.dir,
				"templates", strings.Join(overridden, ","),
			)
		}
	}

	s.templates = loaded
	return nil
}

// Get returns the raw template registered under name.
func (s *Store) Get(name string) (string, error) {
	tmpl, ok := s.templates[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	return tmpl, nil
}

// Names lists the registered template names in unspecified order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.templates))
	for name := range s.templates {
		names = append(names, name)
	}

	return names
}

// Render substitutes the template's {placeholder} markers with the supplied
// values. Every placeholder must be resolved; a marker with no matching value
// is an error rather than a silently malformed prompt.
func (s *Store) Render(name string, values map[string]string) (string, error) {
	tmpl, err := s.Get(name)
	if err != nil {
		return "", err
	}

	var missing []string
	rendered := placeholderRegex.ReplaceAllStringFunc(tmpl, func(marker string) string {
		key := marker[1 : len(marker)-1]
		value, ok := values[key]
		if !ok {
			missing = append(missing, key)
			return marker
		}
		return value
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s: %s", ErrUnresolved, name, strings.Join(missing, ","))
	}

	if strings.TrimSpace(rendered) == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyRender, name)
	}

	return rendered, nil
}

func loadEmbedded() (map[string]string, error) {
	loaded := make(map[string]string)

	entries, err := fs.ReadDir(templates, "templates")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	for _, entry := range entries {
		data, err := fs.ReadFile(templates, filepath.Join("templates", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read embedded template %s: %w", entry.Name(), err)
		}

		loaded[templateName(entry.Name())] = string(data)
	}

	return loaded, nil
}

func (s *Store) loadOverrides(loaded map[string]string) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read prompt directory %s: %w", s.dir, err)
	}

	var overridden []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".txt" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read prompt override %s: %w", entry.Name(), err)
		}

		name := templateName(entry.Name())
		loaded[name] = string(data)
		overridden = append(overridden, name)
	}

	return overridden, nil
}

func templateName(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}
