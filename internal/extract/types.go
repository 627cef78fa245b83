package extract

import (
	perrors "github.com/docsift/pdf-extract-server/internal/extract/errors"
)

// Rectangle is a rectangular area on a page. Extraction results use PDF
// points with the origin at the bottom-left of the page.
type Rectangle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ValidationStatus describes how trustworthy an extracted finding is.
type ValidationStatus string

const (
	ValidationUnchecked ValidationStatus = "unchecked"
	ValidationValid     ValidationStatus = "valid"
	ValidationSuspect   ValidationStatus = "suspect"
	ValidationInvalid   ValidationStatus = "invalid"
)

// Method records how a finding was produced.
type Method string

const (
	MethodTextLayer Method = "text_layer"
	MethodOCR       Method = "ocr"
	MethodHeuristic Method = "heuristic"
	MethodManual    Method = "manual"
)

// FileInfo describes a PDF file on disk.
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Request types

// ProcessFileRequest asks for full processing of one document.
type ProcessFileRequest struct {
	Path   string        `json:"path"`
	Config ProcessConfig `json:"config,omitempty"`
}

// ProcessConfig selects which optional sections of a ProcessingResult to fill.
// The zero value enables everything.
type ProcessConfig struct {
	SkipTables     bool    `json:"skip_tables,omitempty"`
	SkipParameters bool    `json:"skip_parameters,omitempty"`
	SkipLayout     bool    `json:"skip_layout,omitempty"`
	RunOCR         bool    `json:"run_ocr,omitempty"`
	Pages          []int   `json:"pages,omitempty"`
	MinConfidence  float64 `json:"min_confidence,omitempty"`
}

// ValidateFileRequest asks whether a file is a readable PDF.
type ValidateFileRequest struct {
	Path string `json:"path"`
}

// ExtractTablesRequest asks for table extraction only.
type ExtractTablesRequest struct {
	Path          string  `json:"path"`
	Pages         []int   `json:"pages,omitempty"`
	MinConfidence float64 `json:"min_confidence,omitempty"`
}

// ExtractParametersRequest asks for parameter extraction only.
type ExtractParametersRequest struct {
	Path          string  `json:"path"`
	Pages         []int   `json:"pages,omitempty"`
	MinConfidence float64 `json:"min_confidence,omitempty"`
}

// SearchDirectoryRequest asks for PDF files in a directory, with optional
// fuzzy filename matching.
type SearchDirectoryRequest struct {
	Directory string `json:"directory"`
	Query     string `json:"query"`
}

// DirectoryStatsRequest asks for aggregate statistics over a directory.
type DirectoryStatsRequest struct {
	Directory string `json:"directory"`
}

// Result types

// ProcessingResult is the aggregate outcome of processing one document. When
// Success is false, Error carries the failure; the optional sections may still
// be partially populated. Recoverable per-section failures end up in Warnings
// instead of failing the whole run.
type ProcessingResult struct {
	Success    bool                       `json:"success"`
	FilePath   string                     `json:"file_path"`
	Text       string                     `json:"text,omitempty"`
	PageCount  int                        `json:"page_count"`
	Metadata   *DocumentMetadata          `json:"metadata,omitempty"`
	Tables     []ExtractedTable           `json:"tables,omitempty"`
	Parameters []ExtractedParameter       `json:"parameters,omitempty"`
	OCR        *OCRResult                 `json:"ocr,omitempty"`
	Layout     []LayoutRegion             `json:"layout,omitempty"`
	Error      *perrors.ProcessingError   `json:"error,omitempty"`
	Warnings   []*perrors.ProcessingError `json:"warnings,omitempty"`
	Stats      *ProcessingStats           `json:"stats,omitempty"`
}

// ProcessingStats records timing and memory usage for one processing run.
type ProcessingStats struct {
	DurationMS      int64 `json:"duration_ms"`
	PeakMemoryBytes int64 `json:"peak_memory_bytes"`
	PagesProcessed  int   `json:"pages_processed"`
}

// DocumentMetadata is the document information dictionary.
type DocumentMetadata struct {
	Title            string   `json:"title,omitempty"`
	Author           string   `json:"author,omitempty"`
	Subject          string   `json:"subject,omitempty"`
	Creator          string   `json:"creator,omitempty"`
	Producer         string   `json:"producer,omitempty"`
	CreationDate     string   `json:"creation_date,omitempty"`
	ModificationDate string   `json:"modification_date,omitempty"`
	Keywords         []string `json:"keywords,omitempty"`
	Version          string   `json:"version,omitempty"`
	Encrypted        bool     `json:"encrypted"`
}

// ExtractedTable is one detected table with its cell contents and provenance.
type ExtractedTable struct {
	ID          string           `json:"id"`
	PageNumber  int              `json:"page_number"`
	BoundingBox Rectangle        `json:"bounding_box"`
	Headers     []string         `json:"headers,omitempty"`
	Rows        [][]string       `json:"rows"`
	Confidence  float64          `json:"confidence"`
	Validation  ValidationStatus `json:"validation"`
	Method      Method           `json:"method"`
}

// ExtractedParameter is one detected name/value pair with provenance.
type ExtractedParameter struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Value      string           `json:"value"`
	Unit       string           `json:"unit,omitempty"`
	PageNumber int              `json:"page_number"`
	Confidence float64          `json:"confidence"`
	Validation ValidationStatus `json:"validation"`
	Method     Method           `json:"method"`
}

// OCRResult is the output of running OCR over a document or region.
type OCRResult struct {
	Text           string    `json:"text"`
	Language       string    `json:"language"`
	Engine         string    `json:"engine"`
	Words          []OCRWord `json:"words,omitempty"`
	MeanConfidence float64   `json:"mean_confidence"`
}

// OCRWord is a single recognized word with its position.
type OCRWord struct {
	Text        string    `json:"text"`
	PageNumber  int       `json:"page_number"`
	BoundingBox Rectangle `json:"bounding_box"`
	Confidence  float64   `json:"confidence"`
}

// RegionRole is the semantic role assigned to a layout region.
type RegionRole string

const (
	RoleText      RegionRole = "text"
	RoleTable     RegionRole = "table"
	RoleGraph     RegionRole = "graph"
	RoleFigure    RegionRole = "figure"
	RoleHeader    RegionRole = "header"
	RoleFooter    RegionRole = "footer"
	RoleCaption   RegionRole = "caption"
	RoleParameter RegionRole = "parameter"
)

// IsValid reports whether the role is one of the known roles.
func (r RegionRole) IsValid() bool {
	switch r {
	case RoleText, RoleTable, RoleGraph, RoleFigure, RoleHeader, RoleFooter,
		RoleCaption, RoleParameter:
		return true
	default:
		return false
	}
}

// LayoutRegion is an automatically detected page region.
type LayoutRegion struct {
	ID          string     `json:"id"`
	PageNumber  int        `json:"page_number"`
	BoundingBox Rectangle  `json:"bounding_box"`
	Role        RegionRole `json:"role"`
	Confidence  float64    `json:"confidence"`
	TextSample  string     `json:"text_sample,omitempty"`
}

// ValidateFileResult reports the outcome of validating one file.
type ValidateFileResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Message string `json:"message,omitempty"`
}

// SearchDirectoryResult lists the PDF files matching a directory search.
type SearchDirectoryResult struct {
	Files       []FileInfo `json:"files"`
	TotalCount  int        `json:"total_count"`
	Directory   string     `json:"directory"`
	SearchQuery string     `json:"search_query,omitempty"`
}

// DirectoryStatsResult aggregates file statistics for a directory.
type DirectoryStatsResult struct {
	Directory        string `json:"directory"`
	TotalFiles       int    `json:"total_files"`
	TotalSize        int64  `json:"total_size"`
	LargestFileSize  int64  `json:"largest_file_size"`
	LargestFileName  string `json:"largest_file_name"`
	SmallestFileSize int64  `json:"smallest_file_size"`
	SmallestFileName string `json:"smallest_file_name"`
	AverageFileSize  int64  `json:"average_file_size"`
}
