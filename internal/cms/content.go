package cms

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	nethtml "golang.org/x/net/html"
	"gopkg.in/yaml.v3"
)

//go:embed content/services/*.md
var contentFS embed.FS

const serviceContentDir = "content/services"

// ServicePage is a long-form service body shipped with the binary.
type ServicePage struct {
	Slug    string
	Title   string
	Summary string
	Body    string
}

type serviceFrontMatter struct {
	Title   string `yaml:"title"`
	Summary string `yaml:"summary"`
}

var (
	servicePagesOnce sync.Once
	servicePages     map[string]ServicePage
	servicePagesErr  error
)

// servicePage returns the embedded page for slug, or ErrNotFound.
func servicePage(slug string) (ServicePage, error) {
	servicePagesOnce.Do(func() {
		servicePages, servicePagesErr = loadServicePages(contentFS, serviceContentDir)
	})
	if servicePagesErr != nil {
		return ServicePage{}, servicePagesErr
	}
	slug = sanitizeSlug(slug)
	page, ok := servicePages[slug]
	if !ok {
		return ServicePage{}, ErrNotFound
	}
	return page, nil
}

func loadServicePages(fsys fs.FS, dir string) (map[string]ServicePage, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("cms: read %s: %w", dir, err)
	}
	pages := make(map[string]ServicePage, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".md" {
			continue
		}
		file := path.Join(dir, entry.Name())
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("cms: read %s: %w", file, err)
		}
		slug := strings.TrimSuffix(entry.Name(), ".md")
		page, err := parseServicePage(slug, string(data))
		if err != nil {
			return nil, fmt.Errorf("cms: parse front matter %s: %w", file, err)
		}
		pages[slug] = page
	}
	return pages, nil
}

func parseServicePage(slug, raw string) (ServicePage, error) {
	fm, body := splitFrontMatter(raw)
	front := serviceFrontMatter{}
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return ServicePage{}, err
		}
	}
	page := ServicePage{
		Slug:    slug,
		Title:   strings.TrimSpace(front.Title),
		Summary: strings.TrimSpace(front.Summary),
		Body:    strings.TrimSpace(body),
	}
	if page.Title == "" {
		page.Title = prettifySlug(slug)
	}
	return page, nil
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}

var (
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.Linkify, extension.Typographer),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	contentPolicy = newContentHTMLPolicy()
)

func newContentHTMLPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").OnElements("p", "span", "ul", "ol", "li")
	policy.AllowAttrs("loading").OnElements("img")
	policy.RequireNoFollowOnLinks(true)
	return policy
}

// RenderContent turns a service body into sanitized HTML. Bodies are treated as markdown unless
// they already start with a tag, which is how the CMS rich-text field delivers them.
func RenderContent(body string) template.HTML {
	body = strings.TrimSpace(body)
	if body == "" {
		return ""
	}
	var raw []byte
	if strings.HasPrefix(body, "<") {
		raw = []byte(body)
	} else {
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(body), &buf); err != nil {
			return template.HTML(template.HTMLEscapeString(body))
		}
		raw = buf.Bytes()
	}
	return template.HTML(contentPolicy.SanitizeBytes(raw)) //nolint:gosec // sanitized above
}

// Excerpt returns the first limit runes of the visible text in an HTML fragment, cut at a word
// boundary. It feeds meta descriptions.
func Excerpt(fragment string, limit int) string {
	if limit <= 0 {
		return ""
	}
	var sb strings.Builder
	z := nethtml.NewTokenizer(strings.NewReader(fragment))
	skip := 0
loop:
	for {
		switch z.Next() {
		case nethtml.ErrorToken:
			if !errors.Is(z.Err(), io.EOF) {
				return ""
			}
			break loop
		case nethtml.StartTagToken:
			if name, _ := z.TagName(); isHiddenTag(string(name)) {
				skip++
			}
		case nethtml.EndTagToken:
			if name, _ := z.TagName(); isHiddenTag(string(name)) && skip > 0 {
				skip--
			}
		case nethtml.TextToken:
			if skip > 0 {
				continue
			}
			text := strings.Join(strings.Fields(string(z.Text())), " ")
			if text == "" {
				continue
			}
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(text)
		}
	}
	return truncateWords(sb.String(), limit)
}

func isHiddenTag(name string) bool {
	return name == "script" || name == "style"
}

func truncateWords(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !unicode.IsSpace(runes[cut]) {
		cut--
	}
	if cut == 0 {
		cut = limit
	}
	return strings.TrimRightFunc(string(runes[:cut]), unicode.IsSpace) + "…"
}

func prettifySlug(slug string) string {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return slug
	}
	parts := strings.Split(slug, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}

func sanitizeSlug(slug string) string {
	slug = strings.Trim(strings.TrimSpace(slug), "/")
	if slug == "" || strings.Contains(slug, "..") || strings.ContainsAny(slug, `/\`) {
		return ""
	}
	return slug
}
