package extract

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Fragment is a positioned run of text on a page, in PDF points.
type Fragment struct {
	Text     string  `json:"text"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	FontSize float64 `json:"font_size"`
}

// Page holds the positioned text of a single page.
type Page struct {
	Number    int        `json:"number"`
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
	Fragments []Fragment `json:"fragments"`
	Images    int        `json:"images"`
}

// Reader extracts text content from PDF files.
type Reader struct {
	maxFileSize int64
	maxTextSize int
}

// NewReader creates a reader with the given file size constraint.
func NewReader(maxFileSize int64) *Reader {
	return &Reader{
		maxFileSize: maxFileSize,
		maxTextSize: 10 * 1024 * 1024, // text cap per document
	}
}

// ReadText extracts the plain text of a document and returns it together with
// the page count.
func (r *Reader) ReadText(path string) (string, int, error) {
	if path == "" {
		return "", 0, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if err != nil {
		return "", 0, fmt.Errorf("cannot access file: %w", err)
	}
	if fileInfo.Size() > r.maxFileSize {
		return "", 0, fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), r.maxFileSize)
	}

	f, pdfReader, err := pdf.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var builder strings.Builder
	total := 0
	pageCount := pdfReader.NumPage()

	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			continue // keep going; a single bad page should not abort
		}

		if total+len(content) > r.maxTextSize {
			remaining := r.maxTextSize - total
			if remaining > 0 {
				builder.WriteString(content[:remaining])
			}
			break
		}

		builder.WriteString(content)
		total += len(content)

		if pageNum < pageCount {
			builder.WriteString("\n\f\n")
		}
	}

	return builder.String(), pageCount, nil
}

// ReadPages extracts positioned text fragments for the requested pages. An
// empty page list means all pages. The returned slice is ordered by page
// number; the second return value is the document page count.
func (r *Reader) ReadPages(path string, pages []int) ([]Page, int, error) {
	f, pdfReader, err := pdf.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	pageCount := pdfReader.NumPage()
	wanted := pageSet(pages, pageCount)

	result := make([]Page, 0, len(wanted))
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		if !wanted[pageNum] {
			continue
		}
		result = append(result, r.readPage(pdfReader, pageNum))
	}

	return result, pageCount, nil
}

// readPage pulls fragments, dimensions and image count off one page. Any
// panic inside the PDF library is contained to the page.
func (r *Reader) readPage(pdfReader *pdf.Reader, pageNum int) (out Page) {
	out = Page{Number: pageNum}

	defer func() {
		if recover() != nil {
			out.Fragments = nil
		}
	}()

	page := pdfReader.Page(pageNum)
	if page.V.IsNull() {
		return out
	}

	out.Width, out.Height = mediaBoxSize(page)
	out.Images = countPageImages(page)

	content := page.Content()
	fragments := make([]Fragment, 0, len(content.Text))
	for _, txt := range content.Text {
		if strings.TrimSpace(txt.S) == "" {
			continue
		}
		fragments = append(fragments, Fragment{
			Text:     txt.S,
			X:        txt.X,
			Y:        txt.Y,
			Width:    txt.W,
			FontSize: txt.FontSize,
		})
	}

	// Reading order: top of page first, then left to right. PDF Y grows
	// upward, so sort by descending Y.
	sort.SliceStable(fragments, func(i, j int) bool {
		if fragments[i].Y != fragments[j].Y {
			return fragments[i].Y > fragments[j].Y
		}
		return fragments[i].X < fragments[j].X
	})

	out.Fragments = fragments
	return out
}

// mediaBoxSize resolves the page dimensions, walking up the page tree when
// the MediaBox is inherited.
func mediaBoxSize(page pdf.Page) (width, height float64) {
	node := page.V
	for !node.IsNull() {
		box := node.Key("MediaBox")
		if !box.IsNull() && box.Len() == 4 {
			x0 := box.Index(0).Float64()
			y0 := box.Index(1).Float64()
			x1 := box.Index(2).Float64()
			y1 := box.Index(3).Float64()
			return x1 - x0, y1 - y0
		}
		node = node.Key("Parent")
	}
	// US Letter fallback
	return 612, 792
}

// countPageImages counts image XObjects in the page resources.
func countPageImages(page pdf.Page) int {
	resources := page.V.Key("Resources")
	if resources.IsNull() {
		return 0
	}

	xObjects := resources.Key("XObject")
	if xObjects.IsNull() || xObjects.Kind() != pdf.Dict {
		return 0
	}

	count := 0
	for _, key := range xObjects.Keys() {
		obj := xObjects.Key(key)
		if obj.IsNull() {
			continue
		}
		if subtype := obj.Key("Subtype"); !subtype.IsNull() && subtype.Name() == "Image" {
			count++
		}
	}
	return count
}

// pageSet expands a page selection into a lookup table. Out-of-range entries
// are dropped.
func pageSet(pages []int, pageCount int) map[int]bool {
	wanted := make(map[int]bool, pageCount)
	if len(pages) == 0 {
		for i := 1; i <= pageCount; i++ {
			wanted[i] = true
		}
		return wanted
	}
	for _, p := range pages {
		if p >= 1 && p <= pageCount {
			wanted[p] = true
		}
	}
	return wanted
}
