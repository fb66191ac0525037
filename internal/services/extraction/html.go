package extraction

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// extractHTML strips boilerplate from an HTML document and converts the
// remainder to markdown.
func (s *Service) extractHTML(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML %s: %w", filepath.Base(path), err)
	}

	doc.Find("script, style, nav, header, footer, noscript, iframe").Remove()

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}
	html, err := body.Html()
	if err != nil {
		return "", fmt.Errorf("failed to render HTML %s: %w", filepath.Base(path), err)
	}

	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("markdown conversion failed for %s: %w", filepath.Base(path), err)
	}
	return strings.TrimSpace(markdown), nil
}
