package site

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gerunddev/mdsite/convert"
	"github.com/gerunddev/mdsite/internal/config"
	"github.com/gerunddev/mdsite/internal/logger"
	"github.com/gerunddev/mdsite/internal/state"
)

// Template placeholders
const (
	TitlePlaceholder   = "{{ Title }}"
	ContentPlaceholder = "{{ Content }}"
)

// DefaultTemplate is used when no template file exists
const DefaultTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{ Title }}</title>
</head>
<body>
{{ Content }}
</body>
</html>
`

var errDraft = errors.New("page is a draft")

// Builder renders a content directory into a public directory
type Builder struct {
	config    *config.Config
	state     *state.State
	log       *logger.Logger
	converter *convert.Converter
	templates map[string]string
	record    func(source, output, template string) error
}

// NewBuilder creates a new builder instance
func NewBuilder(cfg *config.Config, st *state.State) *Builder {
	return &Builder{
		config:    cfg,
		state:     st,
		log:       logger.Discard(),
		converter: convert.NewConverter(convert.Options{EscapeText: cfg.EscapeText}),
		record:    st.Update,
	}
}

// SetLogger sets the logger used during builds
func (b *Builder) SetLogger(l *logger.Logger) {
	b.log = l
}

// Result represents the result of a build
type Result struct {
	BuildID   string
	Rendered  int
	Skipped   int
	Removed   []string
	Errors    []error
	StartTime time.Time
	EndTime   time.Time
}

// Build renders every changed page. With force, unchanged pages are rendered too.
// Page errors are collected in the result; only setup failures return an error.
func (b *Builder) Build(force bool) (*Result, error) {
	result := &Result{
		BuildID:   uuid.NewString(),
		StartTime: time.Now(),
	}
	log := b.log.WithBuild(result.BuildID)
	log.BuildStarted(b.config.ContentDir, b.config.PublicDir)

	b.templates = make(map[string]string)
	tmpl, err := b.template(b.config.TemplateFile)
	if err != nil {
		return nil, err
	}

	// A new site template or new options invalidate every page.
	// Front matter templates are tracked per page in the manifest.
	fingerprint := state.HashBytes([]byte(fmt.Sprintf("%s\x00escape=%t", tmpl, b.config.EscapeText)))
	if fingerprint != b.state.Fingerprint {
		force = true
	}

	sources, err := ScanDirectory(b.config.ContentDir, ".md")
	if err != nil {
		return nil, fmt.Errorf("failed to scan content directory: %w", err)
	}

	keep := make(map[string]bool)
	for _, source := range sources {
		rel, err := filepath.Rel(b.config.ContentDir, source)
		if err != nil {
			return nil, err
		}
		if b.excluded(rel) {
			log.PageSkipped(source, "excluded")
			continue
		}
		keep[source] = true

		if !force {
			changed, err := b.state.HasChanged(source)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("%s: %w", rel, err))
				log.StateError("check", err)
				continue
			}
			if !changed {
				result.Skipped++
				log.PageSkipped(source, "unchanged")
				continue
			}
		}

		dest := OutputPath(b.config.PublicDir, rel)
		pageTemplate, err := b.renderPage(source, dest, tmpl)
		if err != nil {
			if errors.Is(err, errDraft) {
				delete(keep, source)
				result.Skipped++
				log.PageSkipped(source, "draft")
				continue
			}
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", rel, err))
			log.PageError(source, err)
			continue
		}

		if err := b.record(source, dest, pageTemplate); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("%s: failed to record build: %w", rel, err))
			log.StateError("update", err)
			continue
		}
		result.Rendered++
		log.PageRendered(source, dest)
	}

	for _, stale := range b.state.Prune(keep) {
		if err := os.Remove(stale); err != nil && !os.IsNotExist(err) {
			result.Errors = append(result.Errors, fmt.Errorf("failed to remove stale page: %w", err))
			continue
		}
		result.Removed = append(result.Removed, stale)
	}

	if b.config.StaticDir != "" {
		if err := CopyStatic(b.config.StaticDir, b.config.PublicDir); err != nil {
			result.Errors = append(result.Errors, err)
		}
	}

	b.state.BuildID = result.BuildID
	b.state.BuiltAt = result.StartTime
	b.state.Fingerprint = fingerprint

	result.EndTime = time.Now()
	log.BuildCompleted(result.Rendered, result.Skipped, len(result.Errors), result.EndTime.Sub(result.StartTime))
	return result, nil
}

// RenderPage converts a single markdown page into a complete HTML document
func (b *Builder) RenderPage(document string, tmpl string, fallbackTitle string) (string, error) {
	page, _, err := b.render(document, tmpl, fallbackTitle)
	return page, err
}

// render is RenderPage that also reports the front matter template file, if any
func (b *Builder) render(document, tmpl, fallbackTitle string) (string, string, error) {
	fm, body, err := convert.ExtractFrontMatter(document)
	if err != nil {
		return "", "", err
	}
	if fm.Draft {
		return "", "", errDraft
	}

	var pageTemplate string
	if fm.Template != "" {
		pageTemplate = b.relativeTemplate(fm.Template)
		if tmpl, err = b.template(pageTemplate); err != nil {
			return "", "", err
		}
	}

	root, err := b.converter.Convert(body)
	if err != nil {
		return "", "", err
	}
	content, err := root.HTML()
	if err != nil {
		return "", "", err
	}

	title := fm.Title
	if title == "" {
		if title, err = convert.ExtractTitle(root); err != nil {
			title = fallbackTitle
		}
	}

	page := strings.ReplaceAll(tmpl, TitlePlaceholder, title)
	page = strings.ReplaceAll(page, ContentPlaceholder, content)
	return page, pageTemplate, nil
}

// renderPage writes source to dest and returns the front matter template it used
func (b *Builder) renderPage(source, dest, tmpl string) (string, error) {
	data, err := os.ReadFile(source)
	if err != nil {
		return "", fmt.Errorf("failed to read page: %w", err)
	}

	fallback := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	page, pageTemplate, err := b.render(string(data), tmpl, fallback)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(dest, []byte(page), 0644); err != nil {
		return "", fmt.Errorf("failed to write page: %w", err)
	}
	return pageTemplate, nil
}

// template loads and caches a template file. A missing file falls back to DefaultTemplate.
func (b *Builder) template(path string) (string, error) {
	if path == "" {
		return DefaultTemplate, nil
	}
	if b.templates == nil {
		b.templates = make(map[string]string)
	}
	if tmpl, ok := b.templates[path]; ok {
		return tmpl, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to read template: %w", err)
		}
		data = []byte(DefaultTemplate)
	}
	b.templates[path] = string(data)
	return string(data), nil
}

// relativeTemplate resolves a front matter template name next to the main template
func (b *Builder) relativeTemplate(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	dir := b.config.ContentDir
	if b.config.TemplateFile != "" {
		dir = filepath.Dir(b.config.TemplateFile)
	}
	return filepath.Join(dir, name)
}

// excluded matches a content-relative path and its base name against the exclude patterns
func (b *Builder) excluded(rel string) bool {
	for _, pattern := range b.config.ExcludePatterns {
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, filepath.Base(rel)); ok {
			return true
		}
	}
	return false
}

// OutputPath maps a content-relative markdown path to its page in publicDir
func OutputPath(publicDir, rel string) string {
	return filepath.Join(publicDir, strings.TrimSuffix(rel, filepath.Ext(rel))+".html")
}

// ScanDirectory scans a directory for files with given extension
func ScanDirectory(dir string, ext string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && filepath.Ext(path) == ext {
			files = append(files, path)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}

// CopyStatic copies every file below src into dst, keeping the directory layout.
// A missing src is not an error.
func CopyStatic(src, dst string) error {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		if err := copyFile(path, target); err != nil {
			return fmt.Errorf("failed to copy static file %s: %w", rel, err)
		}
		return nil
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// String returns a human-readable summary of the build result
func (r *Result) String() string {
	duration := r.EndTime.Sub(r.StartTime)
	return fmt.Sprintf(
		"Build complete: %d pages rendered, %d skipped, %d removed, %d errors (took %v)",
		r.Rendered,
		r.Skipped,
		len(r.Removed),
		len(r.Errors),
		duration.Round(time.Millisecond),
	)
}
