// Package html extracts readable text from HTML pages.
package html

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/domain"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

var supportedExtensions = map[string]bool{
	".html":  true,
	".htm":   true,
	".xhtml": true,
}

// skippedElements hold no readable text.
var skippedElements = map[string]bool{
	"head":     true,
	"script":   true,
	"style":    true,
	"noscript": true,
	"svg":      true,
	"template": true,
}

// blockElements break lines around their content.
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "hr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "li": true, "tr": true, "table": true,
	"blockquote": true, "pre": true, "section": true, "article": true,
	"header": true, "footer": true, "nav": true, "main": true,
}

// lineBreaks are plain whitespace outside <pre>.
var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// Extractor handles HTML documents.
type Extractor struct{}

// New creates a new HTML extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns the extractor name.
func (e *Extractor) Name() string {
	return "html"
}

// Supports reports whether the file is HTML.
func (e *Extractor) Supports(name, mimeType string) bool {
	if supportedExtensions[strings.ToLower(filepath.Ext(name))] {
		return true
	}
	return mimeType == "text/html" || mimeType == "application/xhtml+xml"
}

// Extract returns the visible text as a single page 0.
func (e *Extractor) Extract(ctx context.Context, path string) ([]domain.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	text, err := Text(f)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}
	return []domain.Page{{Number: 0, Content: text}}, nil
}

// Text returns the readable text of an HTML document. Block elements
// become paragraph breaks and whitespace inside a line is collapsed.
func Text(r io.Reader) (string, error) {
	var (
		b    strings.Builder
		skip int
		pre  int
	)

	z := html.NewTokenizer(r)
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return collapse(b.String()), nil
			}
			return "", fmt.Errorf("parse html: %w", z.Err())

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if skippedElements[tag] && tt == html.StartTagToken {
				skip++
				continue
			}
			if tag == "pre" && tt == html.StartTagToken {
				pre++
			}
			if blockElements[tag] {
				b.WriteByte('\n')
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if skippedElements[tag] {
				if skip > 0 {
					skip--
				}
				continue
			}
			if tag == "pre" && pre > 0 {
				pre--
			}
			if blockElements[tag] {
				b.WriteByte('\n')
			}

		case html.TextToken:
			if skip > 0 {
				continue
			}
			text := string(z.Text())
			if pre == 0 {
				text = lineBreaks.Replace(text)
			}
			b.WriteString(text)
		}
	}
}

// collapse trims lines, squeezes inner whitespace and keeps at most one
// blank line between paragraphs.
func collapse(s string) string {
	var (
		out   []string
		blank bool
	)
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			blank = len(out) > 0
			continue
		}
		if blank {
			out = append(out, "")
			blank = false
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
