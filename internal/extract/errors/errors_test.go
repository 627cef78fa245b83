package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestCodeIsValid(t *testing.T) {
	for _, code := range AllCodes() {
		if !code.IsValid() {
			t.Errorf("expected %s to be valid", code)
		}
	}

	if Code("NOT_A_CODE").IsValid() {
		t.Error("expected unknown code to be invalid")
	}
}

func TestCodeRecoverability(t *testing.T) {
	tests := []struct {
		code        Code
		recoverable bool
	}{
		{CodeInvalidPDF, false},
		{CodeEncryptedPDF, false},
		{CodeFileReadError, true},
		{CodeMemoryError, true},
		{CodeParsingError, true},
		{CodeValidation, true},
		{CodeTimeout, true},
		{CodeUnknown, false},
	}

	for _, tt := range tests {
		if got := tt.code.IsRecoverable(); got != tt.recoverable {
			t.Errorf("%s: IsRecoverable() = %v, want %v", tt.code, got, tt.recoverable)
		}
	}
}

func TestNewCarriesCodeDefaults(t *testing.T) {
	pe := New(CodeEncryptedPDF, "document requires a password")

	if pe.Code != CodeEncryptedPDF {
		t.Errorf("unexpected code: %s", pe.Code)
	}
	if pe.Recoverable {
		t.Error("encrypted PDF errors should not be recoverable")
	}
	if len(pe.Suggestions) == 0 {
		t.Error("expected default suggestions to be populated")
	}
	if pe.Timestamp.IsZero() {
		t.Error("timestamp should be set")
	}
}

func TestErrorFormatting(t *testing.T) {
	pe := New(CodeParsingError, "broken xref table")
	if got := pe.Error(); got != "[PARSING_ERROR] broken xref table" {
		t.Errorf("unexpected error string: %q", got)
	}

	pe = pe.WithDetail("object 42 0")
	if got := pe.Error(); !strings.Contains(got, "object 42 0") {
		t.Errorf("expected detail in error string, got %q", got)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("underlying failure")
	pe := Wrap(CodeFileReadError, cause)

	if !stderrors.Is(pe, cause) {
		t.Error("wrapped error should match its cause via errors.Is")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"nil error", nil, ""},
		{"deadline exceeded", context.DeadlineExceeded, CodeTimeout},
		{"file missing", fmt.Errorf("open: %w", fs.ErrNotExist), CodeFileReadError},
		{"permission denied", fs.ErrPermission, CodeFileReadError},
		{"encrypted", stderrors.New("file is encrypted with AES-256"), CodeEncryptedPDF},
		{"password", stderrors.New("password required"), CodeEncryptedPDF},
		{"not a pdf", stderrors.New("file is not a PDF"), CodeInvalidPDF},
		{"xref damage", stderrors.New("could not locate xref table"), CodeParsingError},
		{"memory", stderrors.New("out of memory"), CodeMemoryError},
		{"timeout text", stderrors.New("operation timeout"), CodeTimeout},
		{"anything else", stderrors.New("weird failure"), CodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pe := Classify(tt.err)
			if tt.err == nil {
				if pe != nil {
					t.Fatal("classify(nil) should return nil")
				}
				return
			}
			if pe.Code != tt.want {
				t.Errorf("Classify(%v) = %s, want %s", tt.err, pe.Code, tt.want)
			}
		})
	}
}

func TestClassifyPassesThroughProcessingErrors(t *testing.T) {
	original := New(CodeValidation, "bad request").WithFile("/tmp/a.pdf")
	wrapped := fmt.Errorf("handler: %w", original)

	got := Classify(wrapped)
	if got != original {
		t.Error("existing ProcessingError should pass through Classify unchanged")
	}
}
