// Package extract turns uploaded files into plain text. PDF content is
// read with pdfcpu; anything else is treated as UTF-8 text.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrEmpty is returned when a source yields no extractable text.
// Per the upload contract this is reported to the caller, not retried.
var ErrEmpty = fmt.Errorf("no extractable text")

// Text extracts plain text from a document by filename extension.
func Text(filename string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return PDF(data)
	default:
		text := strings.TrimSpace(string(data))
		if text == "" {
			return "", ErrEmpty
		}
		return text, nil
	}
}

// PDF extracts the text content of every page, each prefixed with a
// page marker so citations can point at the right page.
func PDF(data []byte) (string, error) {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	var b strings.Builder
	for page := 1; page <= ctx.PageCount; page++ {
		r, err := pdfcpu.ExtractPageContent(ctx, page)
		if err != nil || r == nil {
			continue
		}
		raw, err := io.ReadAll(r)
		if err != nil {
			continue
		}
		pageText := decodeContentText(raw)
		if pageText == "" {
			continue
		}
		fmt.Fprintf(&b, "\n[Página %d]\n%s", page, pageText)
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", ErrEmpty
	}
	return text, nil
}

// decodeContentText pulls the literal strings of text-showing operators
// (Tj, TJ, ') out of a page content stream. Good enough for the
// text-based legal documents this system ingests; scanned PDFs come
// back empty and are reported as extraction failures upstream.
func decodeContentText(content []byte) string {
	var b strings.Builder
	var lit bytes.Buffer
	depth := 0
	escaped := false

	flushOnOperator := func(rest []byte) {
		op := nextOperator(rest)
		switch op {
		case "Tj", "TJ", "'", "\"":
			b.Write(lit.Bytes())
		case "Td", "TD", "T*":
			// positioning operators usually mean a line break
		}
		lit.Reset()
	}

	for i := 0; i < len(content); i++ {
		c := content[i]
		if depth > 0 {
			switch {
			case escaped:
				switch c {
				case 'n':
					lit.WriteByte('\n')
				case 't':
					lit.WriteByte('\t')
				case '(', ')', '\\':
					lit.WriteByte(c)
				}
				escaped = false
			case c == '\\':
				escaped = true
			case c == '(':
				depth++
				lit.WriteByte(c)
			case c == ')':
				depth--
				if depth == 0 {
					flushOnOperator(content[i+1:])
				} else {
					lit.WriteByte(c)
				}
			default:
				lit.WriteByte(c)
			}
			continue
		}
		switch c {
		case '(':
			depth = 1
		case 'T':
			if i+1 < len(content) && (content[i+1] == 'd' || content[i+1] == 'D' || content[i+1] == '*') {
				b.WriteByte('\n')
				i++
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// nextOperator returns the first content-stream token after a literal.
func nextOperator(rest []byte) string {
	i := 0
	for i < len(rest) && (rest[i] == ' ' || rest[i] == ']' || rest[i] == '\n' || rest[i] == '\r') {
		i++
	}
	j := i
	for j < len(rest) && j-i < 2 && rest[j] != ' ' && rest[j] != '\n' && rest[j] != '\r' && rest[j] != '(' {
		j++
	}
	return string(rest[i:j])
}
