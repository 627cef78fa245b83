// Package annotation manages labeled page regions: detected boxes promoted
// from extraction output and boxes drawn by a reviewer. Geometry is
// normalized to the 0..1 range with the origin at the top-left of the page,
// so boxes survive page re-rendering at any scale.
package annotation

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/docsift/pdf-extract-server/internal/extract"
)

// Source records where a box came from.
type Source string

const (
	SourceManual   Source = "manual"
	SourceDetected Source = "detected"
)

// IsValid reports whether the source is one of the known values.
func (s Source) IsValid() bool {
	return s == SourceManual || s == SourceDetected
}

// Rect is a normalized rectangle, origin top-left, all fields in 0..1.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// minExtent is the smallest normalized width or height a box may have.
const minExtent = 0.001

// Clamp constrains the rectangle to the page, shrinking it if it overflows.
func (r Rect) Clamp() Rect {
	if r.Width < minExtent {
		r.Width = minExtent
	}
	if r.Height < minExtent {
		r.Height = minExtent
	}
	if r.Width > 1 {
		r.Width = 1
	}
	if r.Height > 1 {
		r.Height = 1
	}
	if r.X < 0 {
		r.X = 0
	}
	if r.Y < 0 {
		r.Y = 0
	}
	if r.X+r.Width > 1 {
		r.X = 1 - r.Width
	}
	if r.Y+r.Height > 1 {
		r.Y = 1 - r.Height
	}
	return r
}

// Valid reports whether the rectangle lies inside the page.
func (r Rect) Valid() bool {
	return r.Width >= minExtent && r.Height >= minExtent &&
		r.X >= 0 && r.Y >= 0 &&
		r.X+r.Width <= 1+1e-9 && r.Y+r.Height <= 1+1e-9
}

// Box is one annotated region on a page.
type Box struct {
	ID         string             `json:"id"`
	PageNumber int                `json:"page_number"`
	Rect       Rect               `json:"rect"`
	Role       extract.RegionRole `json:"role"`
	Label      string             `json:"label,omitempty"`
	Confidence float64            `json:"confidence"`
	Source     Source             `json:"source"`
	Selected   bool               `json:"selected"`
	Editing    bool               `json:"editing"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// NewBox creates a manual box with the rectangle clamped to the page.
func NewBox(pageNumber int, rect Rect, role extract.RegionRole) (*Box, error) {
	if pageNumber < 1 {
		return nil, fmt.Errorf("page number must be positive, got %d", pageNumber)
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("unknown region role: %s", role)
	}

	now := time.Now().UTC()
	return &Box{
		ID:         uuid.NewString(),
		PageNumber: pageNumber,
		Rect:       rect.Clamp(),
		Role:       role,
		Confidence: 1, // manual boxes are ground truth
		Source:     SourceManual,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// FromRegion converts a detected layout region into a box. The region's
// bounding box is in PDF points with a bottom-left origin; pageWidth and
// pageHeight are used to normalize and flip it.
func FromRegion(region extract.LayoutRegion, pageWidth, pageHeight float64) (*Box, error) {
	if pageWidth <= 0 || pageHeight <= 0 {
		return nil, fmt.Errorf("page dimensions must be positive")
	}

	bb := region.BoundingBox
	rect := Rect{
		X:      bb.X / pageWidth,
		Y:      (pageHeight - bb.Y - bb.Height) / pageHeight,
		Width:  bb.Width / pageWidth,
		Height: bb.Height / pageHeight,
	}

	now := time.Now().UTC()
	return &Box{
		ID:         region.ID,
		PageNumber: region.PageNumber,
		Rect:       rect.Clamp(),
		Role:       region.Role,
		Label:      region.TextSample,
		Confidence: region.Confidence,
		Source:     SourceDetected,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (b *Box) touch() {
	b.UpdatedAt = time.Now().UTC()
}

// clone returns a copy safe to hand out.
func (b *Box) clone() *Box {
	out := *b
	return &out
}
