package rag

import (
	"regexp"
	"strings"

	"condorag/types"
)

const (
	// DefaultChunkSize and DefaultChunkOverlap bound the generic splitter.
	DefaultChunkSize    = 800
	DefaultChunkOverlap = 200

	// maxSectionSize re-splits structural sections bigger than this.
	maxSectionSize = 1200
)

// Splitter cuts document text into bounded, overlapping chunks.
type Splitter struct {
	Size    int
	Overlap int
}

func NewSplitter(size, overlap int) *Splitter {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultChunkOverlap
		if overlap >= size {
			// keep the invariant for sizes below the default overlap
			overlap = size / 4
		}
	}
	return &Splitter{Size: size, Overlap: overlap}
}

// Split produces character windows of at most Size runes, consecutive
// windows sharing exactly Overlap runes except the final one. Text
// shorter than Size yields a single chunk.
func (s *Splitter) Split(text string) []string {
	runes := []rune(text)
	var chunks []string

	start := 0
	for start < len(runes) {
		end := start + s.Size
		if end > len(runes) {
			end = len(runes)
		}
		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end < len(runes) {
			start = end - s.Overlap
		} else {
			start = end
		}
	}
	return chunks
}

// Legal document structure markers: article headers, chapter and section
// headers, paragraph-symbol markers.
var (
	structureMarker = regexp.MustCompile(`(?mi)^\s*(cap[ií]tulo\s+[ivxlc\d]+|se[çc][ãa]o\s+[ivxlc\d]+|art(?:igo)?\.?\s*\d+[ºo°]?|§\s*\d+[ºo°]?)`)
	digits          = regexp.MustCompile(`\d+`)
)

// SplitStructured cuts legal documents at structural markers. Each
// section becomes one article chunk carrying its detected article
// number; sections over maxSectionSize runes are re-split with the
// generic splitter into paragraph chunks that keep the parent article
// number and a sub-index. Text with no markers falls back to Split.
func (s *Splitter) SplitStructured(text string, docType types.DocType) []types.Chunk {
	if !docType.Legal() {
		return s.mixedChunks(text)
	}

	locs := structureMarker.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return s.mixedChunks(text)
	}

	var chunks []types.Chunk

	// Preamble before the first marker.
	if head := strings.TrimSpace(text[:locs[0][0]]); head != "" {
		chunks = append(chunks, types.Chunk{Text: head, Type: types.ChunkMixed})
	}

	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		section := strings.TrimSpace(text[loc[0]:end])
		if section == "" {
			continue
		}
		artNum := digits.FindString(text[loc[0]:loc[1]])

		if len([]rune(section)) > maxSectionSize {
			for j, sub := range s.Split(section) {
				chunks = append(chunks, types.Chunk{
					Text:       sub,
					Type:       types.ChunkParagraph,
					ArticleNum: artNum,
					SubIndex:   j,
				})
			}
			continue
		}
		chunks = append(chunks, types.Chunk{
			Text:       section,
			Type:       types.ChunkArticle,
			ArticleNum: artNum,
		})
	}

	for i := range chunks {
		chunks[i].Index = i
	}
	return chunks
}

func (s *Splitter) mixedChunks(text string) []types.Chunk {
	parts := s.Split(text)
	chunks := make([]types.Chunk, len(parts))
	for i, p := range parts {
		chunks[i] = types.Chunk{Text: p, Type: types.ChunkMixed, Index: i}
	}
	return chunks
}

// Document-type keyword markers, checked in order against the first
// 1000 characters of text plus the filename. First match wins.
var typeMarkers = []struct {
	docType types.DocType
	terms   []string
}{
	{types.DocConvention, []string{"convenção", "convencao"}},
	{types.DocBylaws, []string{"regimento"}},
	{types.DocMinutes, []string{"ata"}},
	{types.DocStatute, []string{"estatuto"}},
	{types.DocPoolRules, []string{"piscina"}},
	{types.DocGrillRules, []string{"churrasqueira"}},
	{types.DocBikeRack, []string{"bicicletário", "bicicletario"}},
}

// DetectType inspects text and filename for document-category markers.
func DetectType(text, filename string) types.DocType {
	head := []rune(strings.ToLower(text))
	if len(head) > 1000 {
		head = head[:1000]
	}
	sample := string(head)
	fname := strings.ToLower(filename)

	for _, m := range typeMarkers {
		for _, term := range m.terms {
			if strings.Contains(sample, term) || strings.Contains(fname, term) {
				return m.docType
			}
		}
	}
	return types.DocGeneral
}
