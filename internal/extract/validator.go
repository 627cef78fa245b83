package extract

import (
	"fmt"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	perrors "github.com/docsift/pdf-extract-server/internal/extract/errors"
)

// Validator checks that a file is a processable PDF before any extraction
// work is scheduled for it.
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a validator with the given file size constraint.
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{maxFileSize: maxFileSize}
}

// ValidateFile performs full validation on a PDF file. Validation failures
// are reported in the result, not as an error return.
func (v *Validator) ValidateFile(req ValidateFileRequest) (*ValidateFileResult, error) {
	result := &ValidateFileResult{
		Path:  req.Path,
		Valid: false,
	}

	if err := v.validate(req.Path); err != nil {
		result.Message = err.Error()
		return result, nil
	}

	result.Valid = true
	return result, nil
}

// Validate returns a typed ProcessingError when the file cannot be processed.
func (v *Validator) Validate(path string) *perrors.ProcessingError {
	if err := v.validate(path); err != nil {
		return perrors.Classify(err).WithFile(path)
	}
	return nil
}

func (v *Validator) validate(path string) error {
	if path == "" {
		return perrors.New(perrors.CodeValidation, "path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return perrors.New(perrors.CodeFileReadError, "file does not exist").WithFile(path)
	}
	if err != nil {
		return perrors.Wrap(perrors.CodeFileReadError, err).WithFile(path)
	}

	if err := v.CheckFileInfo(path, fileInfo); err != nil {
		return err
	}

	// Structural validation through pdfcpu in relaxed mode; encrypted
	// documents are reported as such rather than as parse failures.
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	f, err := os.Open(path)
	if err != nil {
		return perrors.Wrap(perrors.CodeFileReadError, err).WithFile(path)
	}
	defer f.Close()

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		return perrors.Classify(err).WithFile(path)
	}
	if ctx.Encrypt != nil {
		return perrors.New(perrors.CodeEncryptedPDF, "document is encrypted").WithFile(path)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return perrors.Wrap(perrors.CodeParsingError, err).WithFile(path)
	}

	return nil
}

// CheckFileInfo validates a file using only its stat info, without opening it.
func (v *Validator) CheckFileInfo(path string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return perrors.New(perrors.CodeValidation,
			fmt.Sprintf("path is a directory, not a file: %s", path))
	}

	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return perrors.New(perrors.CodeInvalidPDF,
			fmt.Sprintf("file is not a PDF: %s", path))
	}

	if fileInfo.Size() == 0 {
		return perrors.New(perrors.CodeInvalidPDF,
			fmt.Sprintf("file is empty: %s", path))
	}

	if fileInfo.Size() > v.maxFileSize {
		return perrors.New(perrors.CodeMemoryError,
			fmt.Sprintf("file too large: %d bytes (max: %d bytes)",
				fileInfo.Size(), v.maxFileSize))
	}

	return nil
}

// IsValidPDF performs a quick validity check.
func (v *Validator) IsValidPDF(path string) bool {
	return v.validate(path) == nil
}
