package extract

import (
	"context"

	perrors "github.com/docsift/pdf-extract-server/internal/extract/errors"
)

// ProcessRegionRequest asks for extraction confined to one annotated page
// region. The rectangle is normalized to 0..1 with the origin at the
// top-left of the page.
type ProcessRegionRequest struct {
	Path       string     `json:"path"`
	PageNumber int        `json:"page_number"`
	Rect       Rectangle  `json:"rect"`
	Role       RegionRole `json:"role"`
}

// ProcessRegionResult carries the content extracted from one region. Which
// sections are filled depends on the region role.
type ProcessRegionResult struct {
	Role       RegionRole           `json:"role"`
	PageNumber int                  `json:"page_number"`
	Text       string               `json:"text,omitempty"`
	Tables     []ExtractedTable     `json:"tables,omitempty"`
	Parameters []ExtractedParameter `json:"parameters,omitempty"`
	OCR        *OCRResult           `json:"ocr,omitempty"`
	Method     Method               `json:"method"`
}

// ProcessRegion extracts the content of one annotated region: tables for
// role=table, parameters for role=parameter, plain text otherwise. A region
// with no text layer falls back to OCR of its page when a backend is
// compiled in.
func (s *Service) ProcessRegion(ctx context.Context, req ProcessRegionRequest) (*ProcessRegionResult, error) {
	if req.PageNumber < 1 {
		return nil, perrors.New(perrors.CodeValidation, "page number must be positive")
	}
	if !req.Role.IsValid() {
		return nil, perrors.New(perrors.CodeValidation, "unknown region role: "+string(req.Role))
	}

	pages, err := s.readValidated(ctx, req.Path, []int{req.PageNumber})
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, perrors.New(perrors.CodeValidation, "page is out of range").
			WithFile(req.Path).WithPage(req.PageNumber)
	}

	region := cropPage(pages[0], req.Rect)
	result := &ProcessRegionResult{
		Role:       req.Role,
		PageNumber: req.PageNumber,
		Method:     MethodTextLayer,
	}

	if len(region.Fragments) == 0 {
		// No text layer under the box. Fall back to recognizing the
		// page when a backend is available.
		if !s.ocrEngine.Enabled() {
			result.Method = MethodHeuristic
			return result, nil
		}
		ocrResult, err := s.runOCR(ctx, mustResolve(s, req.Path), []int{req.PageNumber})
		if err != nil {
			return nil, perrors.Wrap(perrors.CodeParsingError, err).
				WithFile(req.Path).WithPage(req.PageNumber)
		}
		result.OCR = ocrResult
		result.Text = ocrResult.Text
		result.Method = MethodOCR
		return result, nil
	}

	switch req.Role {
	case RoleTable:
		result.Tables = s.tables.Detect(region)
	case RoleParameter:
		result.Parameters = NewParameterExtractor(DefaultMinConfidence).
			Extract(pageText(region), req.PageNumber)
	default:
		result.Text = pageText(region)
	}
	return result, nil
}

// cropPage keeps the fragments whose center falls inside a normalized
// top-left rectangle. The page keeps its dimensions so downstream geometry
// stays meaningful.
func cropPage(page Page, rect Rectangle) Page {
	out := page
	out.Fragments = nil

	if page.Width <= 0 || page.Height <= 0 {
		return out
	}

	// Convert to PDF points, origin bottom-left.
	x0 := rect.X * page.Width
	x1 := (rect.X + rect.Width) * page.Width
	yTop := page.Height - rect.Y*page.Height
	yBottom := page.Height - (rect.Y+rect.Height)*page.Height

	for _, frag := range page.Fragments {
		cx := frag.X + frag.Width/2
		cy := frag.Y + frag.FontSize/2
		if cx >= x0 && cx <= x1 && cy >= yBottom && cy <= yTop {
			out.Fragments = append(out.Fragments, frag)
		}
	}
	return out
}

// mustResolve re-resolves a path already validated by readValidated.
func mustResolve(s *Service, path string) string {
	resolved, perr := s.resolve(path)
	if perr != nil {
		return path
	}
	return resolved
}
