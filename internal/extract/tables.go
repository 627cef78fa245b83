package extract

import (
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Alignment tolerances in PDF points.
const (
	lineTolerance   = 3.0
	columnTolerance = 6.0

	// minTableRows and minTableCols are the smallest grid worth reporting.
	minTableRows = 2
	minTableCols = 2
)

// TableDetector finds tabular structures in the positioned text of a page.
// Detection is geometric: consecutive lines whose fragments align on shared
// column positions form a grid.
type TableDetector struct{}

// NewTableDetector creates a table detector.
func NewTableDetector() *TableDetector {
	return &TableDetector{}
}

// line is a horizontal band of fragments sharing a baseline.
type line struct {
	y         float64
	fragments []Fragment
}

// Detect returns the tables found on a page, ordered top to bottom.
func (d *TableDetector) Detect(page Page) []ExtractedTable {
	lines := groupLines(page.Fragments)

	var tables []ExtractedTable
	run := make([]line, 0, len(lines))

	flush := func() {
		if len(run) >= minTableRows {
			if table, ok := d.buildTable(page, run); ok {
				tables = append(tables, table)
			}
		}
		run = run[:0]
	}

	for _, ln := range lines {
		if len(ln.fragments) >= minTableCols {
			run = append(run, ln)
			continue
		}
		flush()
	}
	flush()

	return tables
}

// buildTable turns a run of multi-fragment lines into a table, if enough of
// the lines align on shared columns.
func (d *TableDetector) buildTable(page Page, run []line) (ExtractedTable, bool) {
	columns := clusterColumns(run)
	if len(columns) < minTableCols {
		return ExtractedTable{}, false
	}

	rows := make([][]string, 0, len(run))
	filled := 0
	for _, ln := range run {
		row := make([]string, len(columns))
		for _, frag := range ln.fragments {
			col := nearestColumn(columns, frag.X)
			if row[col] != "" {
				row[col] += " "
			}
			row[col] += strings.TrimSpace(frag.Text)
		}
		for _, cell := range row {
			if cell != "" {
				filled++
			}
		}
		rows = append(rows, row)
	}

	cellCount := len(rows) * len(columns)
	confidence := float64(filled) / float64(cellCount)
	if confidence < 0.4 {
		return ExtractedTable{}, false
	}

	table := ExtractedTable{
		ID:          uuid.NewString(),
		PageNumber:  page.Number,
		BoundingBox: runBounds(run),
		Rows:        rows,
		Confidence:  confidence,
		Validation:  confidenceStatus(confidence),
		Method:      MethodTextLayer,
	}

	if headerRow(rows) {
		table.Headers = rows[0]
		table.Rows = rows[1:]
	}

	return table, true
}

// groupLines buckets fragments into baselines, top of page first.
func groupLines(fragments []Fragment) []line {
	var lines []line
	for _, frag := range fragments {
		placed := false
		for i := range lines {
			if abs(lines[i].y-frag.Y) <= lineTolerance {
				lines[i].fragments = append(lines[i].fragments, frag)
				placed = true
				break
			}
		}
		if !placed {
			lines = append(lines, line{y: frag.Y, fragments: []Fragment{frag}})
		}
	}

	sort.SliceStable(lines, func(i, j int) bool { return lines[i].y > lines[j].y })
	for i := range lines {
		frags := lines[i].fragments
		sort.SliceStable(frags, func(a, b int) bool { return frags[a].X < frags[b].X })
	}
	return lines
}

// clusterColumns derives column start positions shared by most lines of the
// run. A position must recur on at least 60% of the lines to count.
func clusterColumns(run []line) []float64 {
	type cluster struct {
		x     float64
		count int
	}

	var clusters []cluster
	for _, ln := range run {
		for _, frag := range ln.fragments {
			placed := false
			for i := range clusters {
				if abs(clusters[i].x-frag.X) <= columnTolerance {
					// Keep a running mean so drifting starts stay merged.
					clusters[i].x = (clusters[i].x*float64(clusters[i].count) + frag.X) /
						float64(clusters[i].count+1)
					clusters[i].count++
					placed = true
					break
				}
			}
			if !placed {
				clusters = append(clusters, cluster{x: frag.X, count: 1})
			}
		}
	}

	required := (len(run)*3 + 4) / 5 // ceil(0.6 * rows)
	if required < minTableRows {
		required = minTableRows
	}

	var columns []float64
	for _, c := range clusters {
		if c.count >= required {
			columns = append(columns, c.x)
		}
	}
	sort.Float64s(columns)
	return columns
}

func nearestColumn(columns []float64, x float64) int {
	best := 0
	bestDist := abs(columns[0] - x)
	for i := 1; i < len(columns); i++ {
		if d := abs(columns[i] - x); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// headerRow reports whether the first row looks like a header: no numeric
// cells while the body rows contain some.
func headerRow(rows [][]string) bool {
	if len(rows) < 2 {
		return false
	}
	for _, cell := range rows[0] {
		if cell != "" && isNumericCell(cell) {
			return false
		}
	}
	for _, row := range rows[1:] {
		for _, cell := range row {
			if isNumericCell(cell) {
				return true
			}
		}
	}
	return false
}

func isNumericCell(cell string) bool {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ',', '$', '%', '€', ' ':
			return -1
		}
		return r
	}, cell)
	if cleaned == "" {
		return false
	}
	_, err := strconv.ParseFloat(cleaned, 64)
	return err == nil
}

func runBounds(run []line) Rectangle {
	first := run[0].fragments[0]
	minX, maxX := first.X, first.X+first.Width
	minY, maxY := first.Y, first.Y

	for _, ln := range run {
		for _, frag := range ln.fragments {
			minX = min(minX, frag.X)
			maxX = max(maxX, frag.X+frag.Width)
			minY = min(minY, frag.Y)
			maxY = max(maxY, frag.Y+frag.FontSize)
		}
	}

	return Rectangle{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// confidenceStatus maps a confidence score to a validation status.
func confidenceStatus(confidence float64) ValidationStatus {
	switch {
	case confidence >= 0.75:
		return ValidationValid
	case confidence >= 0.4:
		return ValidationSuspect
	default:
		return ValidationInvalid
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
