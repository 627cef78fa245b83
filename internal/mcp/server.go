package mcp

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/docsift/pdf-extract-server/internal/annotation"
	"github.com/docsift/pdf-extract-server/internal/config"
	"github.com/docsift/pdf-extract-server/internal/descriptions"
	"github.com/docsift/pdf-extract-server/internal/extract"
	"github.com/docsift/pdf-extract-server/internal/queue"
	"github.com/docsift/pdf-extract-server/internal/webui"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	service   *extract.Service
	queue     *queue.Queue
	store     *annotation.Store
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, service *extract.Service, q *queue.Queue, store *annotation.Store) (*Server, error) {
	if service == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}
	if q == nil {
		return nil, fmt.Errorf("queue cannot be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:    cfg,
		service:   service,
		queue:     q,
		store:     store,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	s.registerExtractionTools()
	s.registerDirectoryTools()
	s.registerQueueTools()
	s.registerAnnotationTools()

	serverInfoTool := mcp.NewTool(
		"server_info",
		mcp.WithDescription(descriptions.GetToolDescription("server_info")),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)
}

func (s *Server) registerExtractionTools() {
	processFileTool := mcp.NewTool(
		"pdf_process_file",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_process_file")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file, relative to the document directory or absolute"),
		),
		mcp.WithBoolean("run_ocr",
			mcp.Description("Also run OCR over the document (requires an ocr build)"),
		),
		mcp.WithBoolean("skip_tables",
			mcp.Description("Skip table detection"),
		),
		mcp.WithBoolean("skip_parameters",
			mcp.Description("Skip parameter extraction"),
		),
		mcp.WithBoolean("skip_layout",
			mcp.Description("Skip layout analysis"),
		),
	)
	s.mcpServer.AddTool(processFileTool, s.handleProcessFile)

	validateFileTool := mcp.NewTool(
		"pdf_validate_file",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_validate_file")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(validateFileTool, s.handleValidateFile)

	extractTablesTool := mcp.NewTool(
		"pdf_extract_tables",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_extract_tables")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file"),
		),
		mcp.WithNumber("min_confidence",
			mcp.Description("Minimum confidence (0..1) for reported tables"),
		),
	)
	s.mcpServer.AddTool(extractTablesTool, s.handleExtractTables)

	extractParametersTool := mcp.NewTool(
		"pdf_extract_parameters",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_extract_parameters")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file"),
		),
		mcp.WithNumber("min_confidence",
			mcp.Description("Minimum confidence (0..1) for reported parameters"),
		),
	)
	s.mcpServer.AddTool(extractParametersTool, s.handleExtractParameters)
}

func (s *Server) registerDirectoryTools() {
	searchDirectoryTool := mcp.NewTool(
		"pdf_search_directory",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_search_directory")),
		mcp.WithString("directory",
			mcp.Description("Directory to search (uses the document directory if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Optional search query for fuzzy matching"),
		),
	)
	s.mcpServer.AddTool(searchDirectoryTool, s.handleSearchDirectory)

	statsDirectoryTool := mcp.NewTool(
		"pdf_stats_directory",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_stats_directory")),
		mcp.WithString("directory",
			mcp.Description("Directory to analyze (uses the document directory if empty)"),
		),
	)
	s.mcpServer.AddTool(statsDirectoryTool, s.handleStatsDirectory)
}

func (s *Server) registerQueueTools() {
	queueSubmitTool := mcp.NewTool(
		"queue_submit",
		mcp.WithDescription(descriptions.GetToolDescription("queue_submit")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file"),
		),
		mcp.WithNumber("priority",
			mcp.Description("Job priority: 0 low, 10 normal, 20 high"),
		),
		mcp.WithBoolean("run_ocr",
			mcp.Description("Also run OCR during processing"),
		),
	)
	s.mcpServer.AddTool(queueSubmitTool, s.handleQueueSubmit)

	queueStatusTool := mcp.NewTool(
		"queue_status",
		mcp.WithDescription(descriptions.GetToolDescription("queue_status")),
	)
	s.mcpServer.AddTool(queueStatusTool, s.handleQueueStatus)

	queueCancelTool := mcp.NewTool(
		"queue_cancel",
		mcp.WithDescription(descriptions.GetToolDescription("queue_cancel")),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Identifier of the queued job"),
		),
	)
	s.mcpServer.AddTool(queueCancelTool, s.handleQueueCancel)
}

func (s *Server) registerAnnotationTools() {
	annotationListTool := mcp.NewTool(
		"annotation_list",
		mcp.WithDescription(descriptions.GetToolDescription("annotation_list")),
		mcp.WithString("document",
			mcp.Required(),
			mcp.Description("Path of the annotated document"),
		),
	)
	s.mcpServer.AddTool(annotationListTool, s.handleAnnotationList)

	annotationAddTool := mcp.NewTool(
		"annotation_add",
		mcp.WithDescription(descriptions.GetToolDescription("annotation_add")),
		mcp.WithString("document",
			mcp.Required(),
			mcp.Description("Path of the annotated document"),
		),
		mcp.WithNumber("page_number",
			mcp.Required(),
			mcp.Description("1-based page number"),
		),
		mcp.WithNumber("x",
			mcp.Required(),
			mcp.Description("Left edge, normalized 0..1 from the left of the page"),
		),
		mcp.WithNumber("y",
			mcp.Required(),
			mcp.Description("Top edge, normalized 0..1 from the top of the page"),
		),
		mcp.WithNumber("width",
			mcp.Required(),
			mcp.Description("Width, normalized 0..1"),
		),
		mcp.WithNumber("height",
			mcp.Required(),
			mcp.Description("Height, normalized 0..1"),
		),
		mcp.WithString("role",
			mcp.Required(),
			mcp.Description("Region role: text, table, graph, figure, header, footer, caption or parameter"),
		),
		mcp.WithString("label",
			mcp.Description("Optional free-form label"),
		),
	)
	s.mcpServer.AddTool(annotationAddTool, s.handleAnnotationAdd)

	annotationDeleteTool := mcp.NewTool(
		"annotation_delete",
		mcp.WithDescription(descriptions.GetToolDescription("annotation_delete")),
		mcp.WithString("document",
			mcp.Required(),
			mcp.Description("Path of the annotated document"),
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Identifier of the annotation box"),
		),
	)
	s.mcpServer.AddTool(annotationDeleteTool, s.handleAnnotationDelete)
}

// Handler functions

func (s *Server) handleProcessFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	cfg := extract.ProcessConfig{
		RunOCR:         boolArg(args, "run_ocr"),
		SkipTables:     boolArg(args, "skip_tables"),
		SkipParameters: boolArg(args, "skip_parameters"),
		SkipLayout:     boolArg(args, "skip_layout"),
	}

	result, err := s.service.ProcessFile(ctx, extract.ProcessFileRequest{Path: path, Config: cfg})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatProcessingResult(result)), nil
}

func (s *Server) handleValidateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.ValidateFile(extract.ValidateFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable", result.Path)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleExtractTables(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := extract.ExtractTablesRequest{
		Path:          path,
		MinConfidence: floatArg(request.GetArguments(), "min_confidence"),
	}
	tables, err := s.service.ExtractTables(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatTables(path, tables)), nil
}

func (s *Server) handleExtractParameters(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := extract.ExtractParametersRequest{
		Path:          path,
		MinConfidence: floatArg(request.GetArguments(), "min_confidence"),
	}
	params, err := s.service.ExtractParameters(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatParameters(path, params)), nil
}

func (s *Server) handleSearchDirectory(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()

	directory := s.config.DocumentDirectory // default
	if dir, ok := args["directory"].(string); ok && dir != "" {
		directory = dir
	}

	query := ""
	if q, ok := args["query"].(string); ok {
		query = q
	}

	result, err := s.service.SearchDirectory(extract.SearchDirectoryRequest{
		Directory: directory,
		Query:     query,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.TotalCount == 0 {
		responseText = fmt.Sprintf("No PDF files found in directory: %s", result.Directory)
		if result.SearchQuery != "" {
			responseText += fmt.Sprintf(" (searched for: %s)", result.SearchQuery)
		}
	} else {
		responseText = s.formatSearchDirectoryResult(result)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleStatsDirectory(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()

	directory := s.config.DocumentDirectory // default
	if dir, ok := args["directory"].(string); ok && dir != "" {
		directory = dir
	}

	result, err := s.service.DirectoryStats(extract.DirectoryStatsRequest{Directory: directory})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatDirectoryStatsResult(result)), nil
}

func (s *Server) handleQueueSubmit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	priority := queue.PriorityNormal
	if p, ok := args["priority"].(float64); ok {
		priority = int(p)
	}

	item, err := s.queue.Submit(path, priority, extract.ProcessConfig{RunOCR: boolArg(args, "run_ocr")})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Queued %s\nJob ID: %s\nPriority: %d\nStatus: %s\n",
		item.Path, item.ID, item.Priority, item.Status)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleQueueStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.formatQueueStatus()), nil
}

func (s *Server) handleQueueCancel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.queue.Cancel(id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Cancelled job %s", id)), nil
}

func (s *Server) handleAnnotationList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := request.RequireString("document")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	tool, err := s.store.Tool(doc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatBoxes(doc, tool.List())), nil
}

func (s *Server) handleAnnotationAdd(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := request.RequireString("document")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	role, err := request.RequireString("role")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	pageNumber := int(floatArg(args, "page_number"))
	rect := annotation.Rect{
		X:      floatArg(args, "x"),
		Y:      floatArg(args, "y"),
		Width:  floatArg(args, "width"),
		Height: floatArg(args, "height"),
	}

	tool, err := s.store.Tool(doc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	box, err := tool.Draw(pageNumber, rect, extract.RegionRole(role))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if label, ok := args["label"].(string); ok && label != "" {
		if _, err := tool.SetLabel(box.ID, label); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	if err := s.store.Save(doc); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Added %s box %s on page %d of %s\n", box.Role, box.ID, box.PageNumber, doc)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleAnnotationDelete(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := request.RequireString("document")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	tool, err := s.store.Tool(doc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := tool.Delete(id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.store.Save(doc); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Deleted annotation %s from %s", id, doc)), nil
}

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.formatServerInfo()), nil
}

// Argument helpers

func boolArg(args map[string]any, name string) bool {
	v, ok := args[name].(bool)
	return ok && v
}

func floatArg(args map[string]any, name string) float64 {
	v, _ := args[name].(float64)
	return v
}

// Formatting methods

func (s *Server) formatProcessingResult(result *extract.ProcessingResult) string {
	if !result.Success {
		text := fmt.Sprintf("Processing failed for %s\n", result.FilePath)
		if result.Error != nil {
			text += fmt.Sprintf("Error [%s]: %s\n", result.Error.Code, result.Error.Message)
			text += fmt.Sprintf("Recoverable: %t\n", result.Error.Recoverable)
		}
		return text
	}

	text := fmt.Sprintf("Successfully processed: %s\n", result.FilePath)
	text += fmt.Sprintf("Pages: %d\n", result.PageCount)
	if result.Metadata != nil {
		if result.Metadata.Title != "" {
			text += fmt.Sprintf("Title: %s\n", result.Metadata.Title)
		}
		if result.Metadata.Author != "" {
			text += fmt.Sprintf("Author: %s\n", result.Metadata.Author)
		}
		if result.Metadata.Version != "" {
			text += fmt.Sprintf("PDF Version: %s\n", result.Metadata.Version)
		}
	}
	text += fmt.Sprintf("Tables: %d\n", len(result.Tables))
	text += fmt.Sprintf("Parameters: %d\n", len(result.Parameters))
	text += fmt.Sprintf("Layout regions: %d\n", len(result.Layout))
	if result.OCR != nil {
		text += fmt.Sprintf("OCR: %s, mean confidence %.2f\n", result.OCR.Engine, result.OCR.MeanConfidence)
	}
	if result.Stats != nil {
		text += fmt.Sprintf("Duration: %d ms\n", result.Stats.DurationMS)
	}

	if len(result.Warnings) > 0 {
		text += "\nWarnings:\n"
		for _, w := range result.Warnings {
			text += fmt.Sprintf("  [%s] %s\n", w.Code, w.Message)
		}
	}

	text += "\nContent:\n"
	text += result.Text

	return text
}

func (s *Server) formatTables(path string, tables []extract.ExtractedTable) string {
	if len(tables) == 0 {
		return fmt.Sprintf("No tables detected in %s", path)
	}

	text := fmt.Sprintf("Found %d table(s) in %s\n", len(tables), path)
	for i, table := range tables {
		text += fmt.Sprintf("\n%d. Page %d, %d row(s), confidence %.2f (%s)\n",
			i+1, table.PageNumber, len(table.Rows), table.Confidence, table.Validation)
		if len(table.Headers) > 0 {
			text += "   " + strings.Join(table.Headers, " | ") + "\n"
		}
		for _, row := range table.Rows {
			text += "   " + strings.Join(row, " | ") + "\n"
		}
	}

	return text
}

func (s *Server) formatParameters(path string, params []extract.ExtractedParameter) string {
	if len(params) == 0 {
		return fmt.Sprintf("No parameters detected in %s", path)
	}

	text := fmt.Sprintf("Found %d parameter(s) in %s\n\n", len(params), path)
	for _, p := range params {
		text += fmt.Sprintf("Page %d: %s = %s", p.PageNumber, p.Name, p.Value)
		if p.Unit != "" {
			text += " " + p.Unit
		}
		text += fmt.Sprintf(" (confidence %.2f)\n", p.Confidence)
	}

	return text
}

func (s *Server) formatSearchDirectoryResult(result *extract.SearchDirectoryResult) string {
	text := fmt.Sprintf("Found %d PDF file(s) in directory: %s\n", result.TotalCount, result.Directory)
	if result.SearchQuery != "" {
		text += fmt.Sprintf("Search query: %s\n", result.SearchQuery)
	}
	text += "\nFiles:\n"

	for i, file := range result.Files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
		if i < len(result.Files)-1 {
			text += "\n"
		}
	}

	return text
}

func (s *Server) formatDirectoryStatsResult(result *extract.DirectoryStatsResult) string {
	text := "PDF Directory Statistics\n"
	text += fmt.Sprintf("Directory: %s\n", result.Directory)
	text += fmt.Sprintf("Total PDF files: %d\n", result.TotalFiles)
	text += fmt.Sprintf("Total size: %d bytes\n", result.TotalSize)

	if result.TotalFiles > 0 {
		text += fmt.Sprintf("Average file size: %d bytes\n", result.AverageFileSize)
		if result.LargestFileName != "" {
			text += fmt.Sprintf("Largest file: %s (%d bytes)\n", result.LargestFileName, result.LargestFileSize)
		}
		if result.SmallestFileName != "" {
			text += fmt.Sprintf("Smallest file: %s (%d bytes)\n", result.SmallestFileName, result.SmallestFileSize)
		}
	}

	return text
}

func (s *Server) formatQueueStatus() string {
	status := s.queue.Status()

	text := "Extraction Queue Status\n"
	text += fmt.Sprintf("Workers busy: %d of %d\n", status.CurrentProcessing, status.MaxConcurrent)
	text += fmt.Sprintf("Pending: %d\n", status.Pending)
	text += fmt.Sprintf("Completed: %d\n", status.Completed)
	text += fmt.Sprintf("Failed: %d\n", status.Failed)

	items := s.queue.List()
	if len(items) > 0 {
		text += "\nJobs (newest first):\n"
		for i, item := range items {
			text += fmt.Sprintf("%d. %s [%s] priority %d attempts %d\n",
				i+1, item.Path, item.Status, item.Priority, item.Attempts)
			text += fmt.Sprintf("   ID: %s\n", item.ID)
			if item.Error != nil {
				text += fmt.Sprintf("   Error [%s]: %s\n", item.Error.Code, item.Error.Message)
			}
		}
	}

	return text
}

func (s *Server) formatBoxes(doc string, boxes []*annotation.Box) string {
	if len(boxes) == 0 {
		return fmt.Sprintf("No annotations for %s", doc)
	}

	text := fmt.Sprintf("%d annotation(s) for %s\n\n", len(boxes), doc)
	for i, box := range boxes {
		text += fmt.Sprintf("%d. %s on page %d (%s, confidence %.2f)\n",
			i+1, box.Role, box.PageNumber, box.Source, box.Confidence)
		text += fmt.Sprintf("   ID: %s\n", box.ID)
		text += fmt.Sprintf("   Rect: x=%.3f y=%.3f w=%.3f h=%.3f\n",
			box.Rect.X, box.Rect.Y, box.Rect.Width, box.Rect.Height)
		if box.Label != "" {
			text += fmt.Sprintf("   Label: %s\n", box.Label)
		}
	}

	return text
}

func (s *Server) formatServerInfo() string {
	text := fmt.Sprintf("%s v%s - Server Information\n", s.config.ServerName, s.config.Version)
	text += fmt.Sprintf("Document directory: %s\n", s.config.DocumentDirectory)
	if s.config.InboxDirectory != "" {
		text += fmt.Sprintf("Watched inbox: %s\n", s.config.InboxDirectory)
	}
	text += fmt.Sprintf("Annotation directory: %s\n", s.config.AnnotationDirectory)
	text += fmt.Sprintf("Max file size: %d MB\n", s.config.MaxFileSize/(1024*1024))
	text += fmt.Sprintf("OCR enabled: %t\n", s.service.OCREnabled())
	if s.service.OCREnabled() {
		text += fmt.Sprintf("OCR language: %s\n", s.config.OCRLanguage)
	}

	status := s.queue.Status()
	text += fmt.Sprintf("\nQueue: %d workers, %d busy, %d pending, %d completed, %d failed\n",
		status.MaxConcurrent, status.CurrentProcessing, status.Pending, status.Completed, status.Failed)

	text += "\nAvailable Tools:\n"
	for _, name := range []string{
		"pdf_process_file", "pdf_validate_file", "pdf_extract_tables", "pdf_extract_parameters",
		"pdf_search_directory", "pdf_stats_directory",
		"queue_submit", "queue_status", "queue_cancel",
		"annotation_list", "annotation_add", "annotation_delete", "server_info",
	} {
		text += fmt.Sprintf("  • %s\n", name)
	}

	return text
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting PDF extraction server in stdio mode")
		log.Printf("Document directory: %s", s.config.DocumentDirectory)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode runs the HTTP review server
func (s *Server) runServerMode(ctx context.Context) error {
	log.Printf("Starting review server on %s", s.config.Address())
	log.Printf("Document directory: %s", s.config.DocumentDirectory)

	web := webui.New(s.config.Address(), s.service, s.queue, s.store, nil)
	return web.ListenAndServe(ctx)
}
