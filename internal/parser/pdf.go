package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser handles PDF files. It reads positioned glyph runs with the Go
// library and reconstructs reading order from baseline positions, falling
// back to pdftotext if the library cannot open the file.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty pdf content")
	}

	doc, err := extractPositioned(data)
	if err != nil && p.FallbackPdftotext {
		doc, err = extractPdftotext(data)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	doc.Text = CleanText(doc.Text)
	return doc, nil
}

func extractPositioned(data []byte) (*Document, error) {
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		frags := pageFragments(page.Content().Text)
		pageText := ReconstructPage(frags)
		if pageText == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(pageText)
	}

	return &Document{Text: buf.String(), Pages: numPages}, nil
}

// pageFragments coalesces the library's glyph runs into word-level fragments.
// Runs on the same baseline with no meaningful horizontal gap belong to the
// same word; a gap wider than a font-size-scaled threshold, or a baseline
// change, starts a new fragment. Emission order is preserved throughout.
func pageFragments(texts []pdflib.Text) []TextFragment {
	var frags []TextFragment
	var cur strings.Builder
	var curY, lastEnd float64
	started := false

	flush := func() {
		if cur.Len() > 0 {
			frags = append(frags, TextFragment{Text: cur.String(), Y: curY})
			cur.Reset()
		}
	}

	for _, t := range texts {
		if t.S == "" {
			continue
		}
		if started && (t.Y != curY || t.X-lastEnd > wordGap(t.FontSize)) {
			flush()
		}
		if cur.Len() == 0 {
			curY = t.Y
		}
		cur.WriteString(t.S)
		lastEnd = t.X + t.W
		started = true
	}
	flush()

	return frags
}

// wordGap is the horizontal distance beyond which two runs on the same
// baseline are separate words. Scaled to the font size so large headings
// don't fuse and small footnotes don't shatter.
func wordGap(fontSize float64) float64 {
	if fontSize <= 0 {
		return 1
	}
	return fontSize * 0.25
}

func extractPdftotext(data []byte) (*Document, error) {
	tmp, err := os.CreateTemp("", "docchat-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	cmd := exec.Command("pdftotext", "-layout", tmpPath, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}

	// pdftotext separates pages with form feeds.
	pages := strings.Split(string(out), "\f")
	numPages := 0
	var buf strings.Builder
	for _, page := range pages {
		page = strings.TrimSpace(page)
		if page == "" {
			continue
		}
		numPages++
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(page)
	}
	if numPages == 0 {
		numPages = 1
	}

	return &Document{Text: buf.String(), Pages: numPages}, nil
}
