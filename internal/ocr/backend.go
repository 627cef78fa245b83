//go:build ocr

package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

const backendEnabled = true

// recognizeFile runs Tesseract over one image file and returns the plain text
// plus the recognized words with pixel positions.
func recognizeFile(path, language string) (string, []Word, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(strings.Split(language, "+")...); err != nil {
		return "", nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImage(path); err != nil {
		return "", nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", nil, fmt.Errorf("text recognition failed: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return "", nil, fmt.Errorf("bounding box extraction failed: %w", err)
	}

	words := make([]Word, 0, len(boxes))
	for _, box := range boxes {
		word := strings.TrimSpace(box.Word)
		if word == "" {
			continue
		}
		words = append(words, Word{
			Text:   word,
			X:      float64(box.Box.Min.X),
			Y:      float64(box.Box.Min.Y),
			Width:  float64(box.Box.Dx()),
			Height: float64(box.Box.Dy()),
			// Tesseract reports confidence on a 0-100 scale.
			Confidence: box.Confidence / 100,
		})
	}

	return strings.TrimSpace(text), words, nil
}
