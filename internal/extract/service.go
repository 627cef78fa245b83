package extract

import (
	"context"
	"runtime"
	"time"

	perrors "github.com/docsift/pdf-extract-server/internal/extract/errors"
	"github.com/docsift/pdf-extract-server/internal/ocr"
	"github.com/docsift/pdf-extract-server/internal/security"
)

// DefaultMinConfidence is the floor applied to parameter extraction when a
// request does not set one.
const DefaultMinConfidence = 0.3

// ServiceConfig holds the construction parameters for a Service.
type ServiceConfig struct {
	// RootDir confines all file access to a directory tree. Empty means
	// unrestricted, for one-shot command line use.
	RootDir     string
	MaxFileSize int64
	OCRLanguage string
}

// Service provides the PDF extraction operations. It composes the reader,
// validator and detector components and owns path containment.
type Service struct {
	sandbox     *security.Sandbox
	reader      *Reader
	validator   *Validator
	metadata    *MetadataReader
	tables      *TableDetector
	layout      *LayoutAnalyzer
	search      *Search
	stats       *Stats
	ocrEngine   *ocr.Engine
	maxFileSize int64
}

// NewService creates a service with the given configuration.
func NewService(cfg ServiceConfig) (*Service, error) {
	var sandbox *security.Sandbox
	if cfg.RootDir != "" {
		var err error
		sandbox, err = security.NewSandbox(cfg.RootDir)
		if err != nil {
			return nil, err
		}
	}

	return &Service{
		sandbox:     sandbox,
		reader:      NewReader(cfg.MaxFileSize),
		validator:   NewValidator(cfg.MaxFileSize),
		metadata:    NewMetadataReader(),
		tables:      NewTableDetector(),
		layout:      NewLayoutAnalyzer(),
		search:      NewSearch(cfg.MaxFileSize),
		stats:       NewStats(cfg.MaxFileSize),
		ocrEngine:   ocr.NewEngine(cfg.OCRLanguage),
		maxFileSize: cfg.MaxFileSize,
	}, nil
}

// OCREnabled reports whether a recognition backend was compiled in.
func (s *Service) OCREnabled() bool {
	return s.ocrEngine.Enabled()
}

// resolve applies sandbox containment to a request path.
func (s *Service) resolve(path string) (string, *perrors.ProcessingError) {
	if s.sandbox == nil {
		return path, nil
	}
	resolved, err := s.sandbox.Resolve(path)
	if err != nil {
		return "", perrors.Wrap(perrors.CodeValidation, err).WithFile(path)
	}
	return resolved, nil
}

// ProcessFile runs the full extraction pipeline over one document. Fatal
// failures are reported in the result's Error field, not as an error return;
// recoverable per-section failures become Warnings and the rest of the result
// is still produced.
func (s *Service) ProcessFile(ctx context.Context, req ProcessFileRequest) (*ProcessingResult, error) {
	result := &ProcessingResult{FilePath: req.Path}
	started := time.Now()
	var memBefore runtime.MemStats
	runtime.ReadMemStats(&memBefore)

	fail := func(perr *perrors.ProcessingError) (*ProcessingResult, error) {
		result.Error = perr
		result.Stats = s.runStats(started, memBefore, 0)
		return result, nil
	}

	path, perr := s.resolve(req.Path)
	if perr != nil {
		return fail(perr)
	}
	if perr := s.validator.Validate(path); perr != nil {
		return fail(perr)
	}

	text, pageCount, err := s.reader.ReadText(path)
	if err != nil {
		return fail(perrors.Classify(err).WithFile(path))
	}
	result.Text = text
	result.PageCount = pageCount

	if meta, err := s.metadata.Read(path); err != nil {
		result.Warnings = append(result.Warnings,
			perrors.Wrap(perrors.CodeParsingError, err).WithFile(path).
				WithDetail("metadata extraction failed"))
	} else {
		result.Metadata = meta
	}

	pages, _, err := s.reader.ReadPages(path, req.Config.Pages)
	if err != nil {
		result.Warnings = append(result.Warnings,
			perrors.Classify(err).WithFile(path).
				WithDetail("positioned text extraction failed"))
	}

	minConfidence := req.Config.MinConfidence
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}
	params := NewParameterExtractor(minConfidence)

	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return fail(perrors.Classify(err).WithFile(path).WithPage(page.Number))
		}

		if !req.Config.SkipTables {
			result.Tables = append(result.Tables, s.tables.Detect(page)...)
		}
		if !req.Config.SkipParameters {
			result.Parameters = append(result.Parameters,
				params.Extract(pageText(page), page.Number)...)
		}
		if !req.Config.SkipLayout {
			result.Layout = append(result.Layout, s.layout.Analyze(page)...)
		}
	}

	if req.Config.RunOCR {
		if ocrResult, err := s.runOCR(ctx, path, req.Config.Pages); err != nil {
			result.Warnings = append(result.Warnings,
				perrors.Wrap(perrors.CodeParsingError, err).WithFile(path).
					WithDetail("ocr failed"))
		} else {
			result.OCR = ocrResult
		}
	}

	result.Success = true
	result.Stats = s.runStats(started, memBefore, len(pages))
	return result, nil
}

// ValidateFile reports whether a file is a processable PDF.
func (s *Service) ValidateFile(req ValidateFileRequest) (*ValidateFileResult, error) {
	path, perr := s.resolve(req.Path)
	if perr != nil {
		return &ValidateFileResult{Path: req.Path, Message: perr.Error()}, nil
	}
	result, err := s.validator.ValidateFile(ValidateFileRequest{Path: path})
	if err != nil {
		return nil, err
	}
	result.Path = req.Path
	return result, nil
}

// ExtractTables runs table detection only.
func (s *Service) ExtractTables(ctx context.Context, req ExtractTablesRequest) ([]ExtractedTable, error) {
	pages, err := s.readValidated(ctx, req.Path, req.Pages)
	if err != nil {
		return nil, err
	}

	var tables []ExtractedTable
	for _, page := range pages {
		for _, table := range s.tables.Detect(page) {
			if table.Confidence >= req.MinConfidence {
				tables = append(tables, table)
			}
		}
	}
	return tables, nil
}

// ExtractParameters runs parameter detection only.
func (s *Service) ExtractParameters(ctx context.Context, req ExtractParametersRequest) ([]ExtractedParameter, error) {
	pages, err := s.readValidated(ctx, req.Path, req.Pages)
	if err != nil {
		return nil, err
	}

	minConfidence := req.MinConfidence
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}
	extractor := NewParameterExtractor(minConfidence)

	var params []ExtractedParameter
	for _, page := range pages {
		params = append(params, extractor.Extract(pageText(page), page.Number)...)
	}
	return params, nil
}

// SearchDirectory finds PDF files under a directory.
func (s *Service) SearchDirectory(req SearchDirectoryRequest) (*SearchDirectoryResult, error) {
	dir := req.Directory
	if s.sandbox != nil {
		resolved, err := s.sandbox.Resolve(dir)
		if err != nil {
			return nil, err
		}
		dir = resolved
	}
	return s.search.SearchDirectory(SearchDirectoryRequest{Directory: dir, Query: req.Query})
}

// DirectoryStats aggregates statistics over the PDFs in a directory.
func (s *Service) DirectoryStats(req DirectoryStatsRequest) (*DirectoryStatsResult, error) {
	dir := req.Directory
	if s.sandbox != nil {
		resolved, err := s.sandbox.Resolve(dir)
		if err != nil {
			return nil, err
		}
		dir = resolved
	}
	return s.stats.GetDirectoryStats(DirectoryStatsRequest{Directory: dir})
}

// readValidated validates a path and returns its positioned pages.
func (s *Service) readValidated(ctx context.Context, reqPath string, pageNums []int) ([]Page, error) {
	path, perr := s.resolve(reqPath)
	if perr != nil {
		return nil, perr
	}
	if perr := s.validator.Validate(path); perr != nil {
		return nil, perr
	}
	if err := ctx.Err(); err != nil {
		return nil, perrors.Classify(err).WithFile(path)
	}

	pages, _, err := s.reader.ReadPages(path, pageNums)
	if err != nil {
		return nil, perrors.Classify(err).WithFile(path)
	}
	return pages, nil
}

// runOCR executes the recognition engine and converts its output to the
// transport types. Word coordinates are normalized to the 0..1 range against
// the source image size recorded per word, origin top-left.
func (s *Service) runOCR(ctx context.Context, path string, pages []int) (*OCRResult, error) {
	raw, err := s.ocrEngine.Run(ctx, path, pages)
	if err != nil {
		return nil, err
	}

	result := &OCRResult{
		Text:           raw.Text,
		Language:       raw.Language,
		Engine:         raw.Engine,
		MeanConfidence: raw.MeanConfidence,
	}
	for _, w := range raw.Words {
		result.Words = append(result.Words, OCRWord{
			Text:       w.Text,
			PageNumber: w.PageNumber,
			BoundingBox: Rectangle{
				X: w.X, Y: w.Y, Width: w.Width, Height: w.Height,
			},
			Confidence: w.Confidence,
		})
	}
	return result, nil
}

func (s *Service) runStats(started time.Time, before runtime.MemStats, pages int) *ProcessingStats {
	var after runtime.MemStats
	runtime.ReadMemStats(&after)

	peak := int64(after.TotalAlloc - before.TotalAlloc)
	if peak < 0 {
		peak = 0
	}
	return &ProcessingStats{
		DurationMS:      time.Since(started).Milliseconds(),
		PeakMemoryBytes: peak,
		PagesProcessed:  pages,
	}
}

// pageText flattens a page's fragments into line-oriented text for the
// parameter scanner.
func pageText(page Page) string {
	lines := groupLines(page.Fragments)
	var out string
	for i, ln := range lines {
		if i > 0 {
			out += "\n"
		}
		out += lineText(ln)
	}
	return out
}
