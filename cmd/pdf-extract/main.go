package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docsift/pdf-extract-server/internal/extract"
)

var (
	outputFormat = flag.String("format", "text", "Output format: text, json")
	runOCR       = flag.Bool("ocr", false, "Also run OCR over the document (requires an ocr build)")
	skipTables   = flag.Bool("no-tables", false, "Skip table detection")
	skipParams   = flag.Bool("no-parameters", false, "Skip parameter extraction")
	skipLayout   = flag.Bool("no-layout", false, "Skip layout analysis")
	maxFileSize  = flag.Int64("max-file-size", 100*1024*1024, "Maximum PDF file size in bytes")
	ocrLanguage  = flag.String("ocr-language", "eng", "OCR language(s), '+'-separated")
	timeout      = flag.Duration("timeout", 5*time.Minute, "Processing timeout")
	help         = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *help {
		printHelp()
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: PDF file path required\n\n")
		printUsage()
		os.Exit(1)
	}

	pdfPath := flag.Arg(0)
	if _, err := os.Stat(pdfPath); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: File not found: %s\n", pdfPath)
		os.Exit(1)
	}

	result, err := processFile(pdfPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error processing file: %v\n", err)
		os.Exit(1)
	}

	if err := outputResult(result); err != nil {
		fmt.Fprintf(os.Stderr, "Error outputting results: %v\n", err)
		os.Exit(1)
	}

	if !result.Success {
		os.Exit(1)
	}
}

func processFile(pdfPath string) (*extract.ProcessingResult, error) {
	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	// Empty RootDir: a one-shot CLI run is not sandboxed to a document root.
	service, err := extract.NewService(extract.ServiceConfig{
		MaxFileSize: *maxFileSize,
		OCRLanguage: *ocrLanguage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create extraction service: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	return service.ProcessFile(ctx, extract.ProcessFileRequest{
		Path: absPath,
		Config: extract.ProcessConfig{
			RunOCR:         *runOCR,
			SkipTables:     *skipTables,
			SkipParameters: *skipParams,
			SkipLayout:     *skipLayout,
		},
	})
}

func outputResult(result *extract.ProcessingResult) error {
	switch *outputFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	case "text":
		return outputText(result)
	default:
		return fmt.Errorf("unsupported output format: %s", *outputFormat)
	}
}

func outputText(result *extract.ProcessingResult) error {
	if !result.Success {
		fmt.Printf("Processing failed: %s\n", result.FilePath)
		if result.Error != nil {
			fmt.Printf("Error [%s]: %s\n", result.Error.Code, result.Error.Message)
		}
		return nil
	}

	fmt.Printf("File: %s\n", result.FilePath)
	fmt.Printf("Pages: %d\n", result.PageCount)
	if result.Metadata != nil {
		if result.Metadata.Title != "" {
			fmt.Printf("Title: %s\n", result.Metadata.Title)
		}
		if result.Metadata.Author != "" {
			fmt.Printf("Author: %s\n", result.Metadata.Author)
		}
	}
	if result.Stats != nil {
		fmt.Printf("Duration: %d ms\n", result.Stats.DurationMS)
	}

	if len(result.Warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, w := range result.Warnings {
			fmt.Printf("  [%s] %s\n", w.Code, w.Message)
		}
	}

	if len(result.Tables) > 0 {
		fmt.Printf("\nTables (%d):\n", len(result.Tables))
		for i, table := range result.Tables {
			fmt.Printf("[%d] Page %d, %d row(s), confidence %.2f\n",
				i+1, table.PageNumber, len(table.Rows), table.Confidence)
			if len(table.Headers) > 0 {
				fmt.Printf("    %s\n", strings.Join(table.Headers, " | "))
			}
			for _, row := range table.Rows {
				fmt.Printf("    %s\n", strings.Join(row, " | "))
			}
		}
	}

	if len(result.Parameters) > 0 {
		fmt.Printf("\nParameters (%d):\n", len(result.Parameters))
		for _, p := range result.Parameters {
			fmt.Printf("  %s = %s", p.Name, p.Value)
			if p.Unit != "" {
				fmt.Printf(" %s", p.Unit)
			}
			fmt.Printf(" (page %d, confidence %.2f)\n", p.PageNumber, p.Confidence)
		}
	}

	if result.OCR != nil {
		fmt.Printf("\nOCR (%s, mean confidence %.2f):\n%s\n",
			result.OCR.Engine, result.OCR.MeanConfidence, result.OCR.Text)
	}

	fmt.Println("\nText:")
	fmt.Println(result.Text)

	return nil
}

func printHelp() {
	fmt.Println("pdf-extract - one-shot extraction of text, tables and parameters from a PDF")
	fmt.Println()
	printUsage()
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -format          Output format: text (default), json")
	fmt.Println("  -ocr             Also run OCR (requires a build with the ocr tag)")
	fmt.Println("  -no-tables       Skip table detection")
	fmt.Println("  -no-parameters   Skip parameter extraction")
	fmt.Println("  -no-layout       Skip layout analysis")
	fmt.Println("  -max-file-size   Maximum PDF file size in bytes")
	fmt.Println("  -ocr-language    OCR language(s), '+'-separated")
	fmt.Println("  -timeout         Processing timeout")
	fmt.Println("  -help            Show this help message")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  pdf-extract datasheet.pdf")
	fmt.Println("  pdf-extract -format json datasheet.pdf > result.json")
	fmt.Println("  pdf-extract -ocr -no-layout scanned-report.pdf")
}

func printUsage() {
	fmt.Println("USAGE:")
	fmt.Println("  pdf-extract [OPTIONS] <pdf_file>")
}

func init() {
	flag.Usage = func() {
		printHelp()
	}
}
