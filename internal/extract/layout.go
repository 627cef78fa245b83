package extract

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Vertical bands, as a fraction of page height, used for header and footer
// classification.
const (
	headerBand = 0.92
	footerBand = 0.08
)

// blockGapFactor is the multiple of the dominant font size treated as a
// paragraph break between lines.
const blockGapFactor = 1.8

var captionPattern = regexp.MustCompile(`(?i)^(figure|fig\.?|table|chart|diagram)\s*\d`)

// LayoutAnalyzer segments a page into labeled regions.
type LayoutAnalyzer struct{}

// NewLayoutAnalyzer creates a layout analyzer.
func NewLayoutAnalyzer() *LayoutAnalyzer {
	return &LayoutAnalyzer{}
}

// Analyze splits a page into regions and assigns each one a role.
func (a *LayoutAnalyzer) Analyze(page Page) []LayoutRegion {
	lines := groupLines(page.Fragments)
	if len(lines) == 0 {
		if page.Images > 0 {
			// A page with graphics and no text layer is a figure page.
			return []LayoutRegion{{
				ID:          uuid.NewString(),
				PageNumber:  page.Number,
				BoundingBox: Rectangle{Width: page.Width, Height: page.Height},
				Role:        RoleFigure,
				Confidence:  0.6,
			}}
		}
		return nil
	}

	blocks := groupBlocks(lines)
	regions := make([]LayoutRegion, 0, len(blocks))
	for _, block := range blocks {
		regions = append(regions, a.classify(page, block))
	}
	return regions
}

// groupBlocks merges consecutive lines into blocks, splitting where the
// vertical gap exceeds the paragraph threshold.
func groupBlocks(lines []line) [][]line {
	fontSize := dominantFontSize(lines)
	gap := fontSize * blockGapFactor

	var blocks [][]line
	current := []line{lines[0]}
	for i := 1; i < len(lines); i++ {
		if current[len(current)-1].y-lines[i].y > gap {
			blocks = append(blocks, current)
			current = nil
		}
		current = append(current, lines[i])
	}
	return append(blocks, current)
}

func (a *LayoutAnalyzer) classify(page Page, block []line) LayoutRegion {
	bounds := runBounds(block)
	region := LayoutRegion{
		ID:          uuid.NewString(),
		PageNumber:  page.Number,
		BoundingBox: bounds,
		Role:        RoleText,
		Confidence:  0.5,
		TextSample:  blockSample(block),
	}

	switch {
	case page.Height > 0 && bounds.Y >= page.Height*headerBand && len(block) <= 2:
		region.Role = RoleHeader
		region.Confidence = 0.8

	case page.Height > 0 && bounds.Y+bounds.Height <= page.Height*footerBand && len(block) <= 2:
		region.Role = RoleFooter
		region.Confidence = 0.8

	case captionPattern.MatchString(region.TextSample):
		region.Role = RoleCaption
		region.Confidence = 0.85

	case gridLike(block):
		region.Role = RoleTable
		region.Confidence = 0.7

	case parameterLike(block):
		region.Role = RoleParameter
		region.Confidence = 0.7
	}

	return region
}

// gridLike reports whether most lines of the block hold several aligned
// fragments, the shape tables take in the text layer.
func gridLike(block []line) bool {
	if len(block) < minTableRows {
		return false
	}
	multi := 0
	for _, ln := range block {
		if len(ln.fragments) >= minTableCols {
			multi++
		}
	}
	return multi*2 >= len(block) && len(clusterColumns(block)) >= minTableCols
}

// parameterLike reports whether most lines of the block read as "Name: Value"
// pairs.
func parameterLike(block []line) bool {
	hits := 0
	for _, ln := range block {
		if paramPattern.MatchString(lineText(ln)) {
			hits++
		}
	}
	return hits*2 > len(block)
}

func lineText(ln line) string {
	parts := make([]string, 0, len(ln.fragments))
	for _, frag := range ln.fragments {
		parts = append(parts, strings.TrimSpace(frag.Text))
	}
	return strings.Join(parts, " ")
}

// blockSample returns the first line of the block, truncated for transport.
func blockSample(block []line) string {
	sample := lineText(block[0])
	if len(sample) > 120 {
		sample = sample[:120]
	}
	return sample
}

func dominantFontSize(lines []line) float64 {
	counts := make(map[float64]int)
	for _, ln := range lines {
		for _, frag := range ln.fragments {
			counts[frag.FontSize]++
		}
	}

	best, bestCount := 12.0, 0
	for size, count := range counts {
		if count > bestCount && size > 0 {
			best, bestCount = size, count
		}
	}
	return best
}
