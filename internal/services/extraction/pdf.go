package extraction

import (
	"bytes"
	"compress/zlib"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// pdfString matches PDF literal strings, honoring escaped parens.
var pdfString = regexp.MustCompile(`\((?:\\.|[^\\()])*\)`)

// extractPDF extracts text from a PDF. Primary path is pdfcpu content
// extraction; when that yields too little text the raw content streams
// are scanned directly.
func (s *Service) extractPDF(ctx context.Context, path string) (string, int, string, error) {
	pdfCtx, err := api.ReadContextFile(path)
	if err != nil {
		return "", 0, "", fmt.Errorf("failed to read PDF %s: %w", filepath.Base(path), err)
	}
	pageCount := pdfCtx.PageCount

	text, err := s.extractViaContent(path, pageCount)
	if err != nil {
		s.logger.Warn().Err(err).Str("file", path).Msg("Primary PDF extraction failed, trying raw scan")
	}
	if len(text) >= minExtractedChars {
		return text, pageCount, "pdfcpu", nil
	}

	text, err = rawScan(path)
	if err != nil {
		return "", pageCount, "", fmt.Errorf("raw scan of %s failed: %w", filepath.Base(path), err)
	}
	return text, pageCount, "rawscan", nil
}

// extractViaContent runs pdfcpu page content extraction and converts the
// resulting operator streams to plain text, in page order.
func (s *Service) extractViaContent(path string, pageCount int) (string, error) {
	outDir, err := os.MkdirTemp(s.tempDir, "pages_")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractContentFile(path, outDir, nil, conf); err != nil {
		return "", fmt.Errorf("content extraction failed: %w", err)
	}

	pageTexts := make(map[int]string)
	files, _ := os.ReadDir(outDir)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		var pageNum int
		if _, err := fmt.Sscanf(file.Name(), "Content_page_%d", &pageNum); err != nil {
			if _, err := fmt.Sscanf(file.Name(), "page_%d", &pageNum); err != nil {
				continue
			}
		}
		content, err := os.ReadFile(filepath.Join(outDir, file.Name()))
		if err != nil {
			continue
		}
		pageTexts[pageNum] = contentToText(content)
	}

	var builder strings.Builder
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		if text := pageTexts[pageNum]; text != "" {
			if builder.Len() > 0 {
				builder.WriteString("\n\n")
			}
			builder.WriteString(text)
		}
	}
	return builder.String(), nil
}

// rawScan pulls text straight out of the file's content streams, inflating
// FlateDecode streams where possible. Last-resort path for PDFs whose page
// tree pdfcpu cannot walk.
func rawScan(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	rest := data
	for {
		start := bytes.Index(rest, []byte("stream"))
		if start < 0 {
			break
		}
		rest = rest[start+len("stream"):]
		rest = bytes.TrimLeft(rest, "\r\n")
		end := bytes.Index(rest, []byte("endstream"))
		if end < 0 {
			break
		}
		raw := rest[:end]
		rest = rest[end:]

		if inflated, err := inflate(raw); err == nil {
			raw = inflated
		}
		if text := contentToText(raw); text != "" {
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}
	return builder.String(), nil
}

func inflate(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// contentToText collects literal strings from text-showing operators in a
// PDF content stream.
func contentToText(content []byte) string {
	var builder strings.Builder
	for _, line := range bytes.Split(content, []byte("\n")) {
		if !bytes.Contains(line, []byte("Tj")) && !bytes.Contains(line, []byte("TJ")) {
			continue
		}
		for _, match := range pdfString.FindAll(line, -1) {
			s := unescapePDFString(string(match[1 : len(match)-1]))
			if strings.TrimSpace(s) == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString(" ")
			}
			builder.WriteString(s)
		}
	}
	return builder.String()
}

func unescapePDFString(s string) string {
	replacer := strings.NewReplacer(
		`\(`, "(",
		`\)`, ")",
		`\\`, `\`,
		`\n`, "\n",
		`\r`, "",
		`\t`, " ",
	)
	return replacer.Replace(s)
}
