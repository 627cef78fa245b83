// Package ocr recognizes text in scanned documents by rasterized page images.
//
// The recognition backend wraps the Tesseract engine via gosseract and is
// compiled in only with the "ocr" build tag. Without the tag every operation
// fails with ErrNotEnabled, so servers built without Tesseract installed keep
// working minus OCR.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	// Register decoders for the image formats pdfcpu extracts.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrNotEnabled is returned when recognition is requested but no backend was
// compiled in. Rebuild with -tags ocr to enable it.
var ErrNotEnabled = errors.New("ocr support not enabled; rebuild with -tags ocr")

// EngineName identifies the recognition backend in results.
const EngineName = "tesseract"

// DefaultLanguage is used when no language is configured.
const DefaultLanguage = "eng"

// Result is the outcome of recognizing one document.
type Result struct {
	Text           string
	Language       string
	Engine         string
	Words          []Word
	MeanConfidence float64
}

// Word is one recognized word with its position on the source image, in
// pixels, origin top-left.
type Word struct {
	Text       string
	PageNumber int
	X          float64
	Y          float64
	Width      float64
	Height     float64
	Confidence float64
}

// Engine extracts page images from a PDF and runs text recognition on them.
type Engine struct {
	language string
}

// NewEngine creates an engine for the given language. Multiple languages can
// be joined with "+", e.g. "eng+deu".
func NewEngine(language string) *Engine {
	if language == "" {
		language = DefaultLanguage
	}
	return &Engine{language: language}
}

// Enabled reports whether a recognition backend was compiled in.
func (e *Engine) Enabled() bool {
	return backendEnabled
}

// pdfcpu names extracted images <base>_<page>_<resource>.<ext>.
var imagePagePattern = regexp.MustCompile(`_(\d+)_[^_.]+\.\w+$`)

// Run extracts the images of the selected pages (nil means all) and
// recognizes text in each of them. The per-image results are concatenated in
// page order.
func (e *Engine) Run(ctx context.Context, pdfPath string, pages []int) (*Result, error) {
	if !backendEnabled {
		return nil, ErrNotEnabled
	}

	tmpDir, err := os.MkdirTemp("", "ocr-images-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.ExtractImagesFile(pdfPath, tmpDir, pageSelection(pages), conf); err != nil {
		return nil, fmt.Errorf("failed to extract page images: %w", err)
	}

	images, err := listImages(tmpDir)
	if err != nil {
		return nil, err
	}

	result := &Result{Language: e.language, Engine: EngineName}
	var confidenceSum float64

	for _, img := range images {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, words, err := recognizeFile(img, e.language)
		if err != nil {
			return nil, fmt.Errorf("recognition failed for %s: %w", filepath.Base(img), err)
		}

		pageNum := imagePage(img)
		for i := range words {
			words[i].PageNumber = pageNum
			confidenceSum += words[i].Confidence
		}
		result.Words = append(result.Words, words...)

		if text != "" {
			if result.Text != "" {
				result.Text += "\n\f\n"
			}
			result.Text += text
		}
	}

	if len(result.Words) > 0 {
		result.MeanConfidence = confidenceSum / float64(len(result.Words))
	}
	return result, nil
}

// listImages returns the decodable images under dir, sorted by name so page
// order is stable.
func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read image directory: %w", err)
	}

	var images []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if decodableImage(path) {
			images = append(images, path)
		}
	}
	return images, nil
}

// decodableImage probes the file header against the registered image formats.
func decodableImage(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	_, _, err = image.DecodeConfig(f)
	return err == nil
}

func imagePage(path string) int {
	if m := imagePagePattern.FindStringSubmatch(filepath.Base(path)); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	return 0
}

func pageSelection(pages []int) []string {
	if len(pages) == 0 {
		return nil
	}
	selection := make([]string, 0, len(pages))
	for _, p := range pages {
		selection = append(selection, strconv.Itoa(p))
	}
	return []string{strings.Join(selection, ",")}
}
