package descriptions

// Comprehensive tool descriptions with practical examples and use cases

const (
	// Extraction Tools
	PDFProcessFileDescription = `Run the full extraction pipeline on a PDF document: text, metadata, tables, parameters and layout regions.

**When to use:** Need a complete structured view of a document in one pass, including detected tables and name/value parameters.

**Why it's useful:** Combines validation, text extraction, table detection, parameter extraction and layout analysis into a single result with per-stage warnings instead of hard failures.

**Examples:**
• Datasheet ingestion: "Process sensor-datasheet.pdf and list all electrical parameters"
• Report analysis: "Process quarterly-report.pdf to get text plus every detected table"
• Triage: "Process unknown.pdf to see what kinds of content it contains"

**Common workflows:**
1. Ingestion: Process file → Review detected regions → Import into annotation review
2. Analysis: Process file → Use tables and parameters directly → Skip manual transcription
3. Quality Control: Process file → Check warnings → Decide whether OCR is needed

**Best practices:** Check the warnings list in the result; a successful run can still carry per-stage degradations (missing metadata, failed OCR).`

	PDFValidateFileDescription = `Verify PDF file integrity and readability before processing.

**When to use:** Before attempting to read or process any PDF file, especially in automated workflows or when handling user uploads.

**Why it's useful:** Prevents processing errors, identifies corrupted or encrypted files early, and reports a stable error code for each failure class.

**Examples:**
• Batch processing safety: "Validate all PDFs in /invoices/ before bulk extraction"
• Upload verification: "Check user-uploaded contract.pdf is valid before queueing"
• Quality control: "Verify exported-report.pdf is readable before sending to client"

**Common workflows:**
1. Automated Processing: Validate → Queue if valid → Handle errors gracefully
2. File Quality Check: Validate → Report error code → Fix or reject bad files

**Best practices:** Validation failures are reported in the result, not as tool errors; check the valid flag and the error code.`

	PDFExtractTablesDescription = `Extract tabular data with preserved row/column structure and relationships.

**When to use:** PDFs contain tables, spreadsheet data, or structured information that needs to maintain relationships.

**Why it's useful:** Preserves table structure that general text extraction would flatten, and scores each table with a confidence value so low-quality detections can be filtered.

**Examples:**
• Financial reports: "Extract budget tables from annual-report.pdf for spreadsheet analysis"
• Datasheets: "Get the pin assignment table from controller-datasheet.pdf"
• Comparison analysis: "Extract performance tables from multiple quarterly reports"

**Common workflows:**
1. Data Analysis: Extract tables → Import to spreadsheet → Perform analysis
2. Review: Extract tables → Check confidence → Confirm or correct as annotations

**Best practices:** Tables below the confidence threshold are dropped; suspect tables are kept but flagged for review.`

	PDFExtractParametersDescription = `Extract name/value/unit parameters such as specifications and ratings from document text.

**When to use:** Technical documents carry key figures as "Name: value unit" lines (supply voltage, operating temperature, dimensions) that need to become structured data.

**Why it's useful:** Finds parameter lines across all pages, splits numeric values from their units, and scores each hit so noise can be filtered.

**Examples:**
• Component data: "Extract all ratings from regulator-datasheet.pdf"
• Spec comparison: "Get parameters from both datasheets and compare operating ranges"
• Cataloging: "Pull model numbers and dimensions from product-sheet.pdf"

**Common workflows:**
1. Specification Mining: Extract parameters → Filter by confidence → Load into catalog
2. Verification: Extract parameters → Compare against requirements → Flag deviations

**Best practices:** Values keep their unit separately; purely textual values are kept with lower confidence.`

	// Search and Discovery Tools
	PDFSearchDirectoryDescription = `Discover and filter PDF files across directories with fuzzy search.

**When to use:** Need to find specific PDFs by name patterns, explore unknown directories, or build file inventories.

**Why it's useful:** Quickly locates relevant documents without manual browsing, supports fuzzy matching for partial names.

**Examples:**
• Find invoices: "Search /documents/ for files containing 'invoice' or '2024'"
• Locate reports: "Find all PDF files with 'quarterly' in /reports/ directory"
• Inventory building: "List all PDFs in /archive/ to understand content scope"

**Common workflows:**
1. Targeted Processing: Search for specific patterns → Queue matching files → Review results
2. Content Discovery: Explore directory → Identify document types → Plan extraction strategy

**Best practices:** Directories are resolved against the configured document root; hidden directories are skipped.`

	PDFStatsDirectoryDescription = `Analyze PDF collections and get comprehensive directory statistics.

**When to use:** Need overview of PDF collection size, total file count, storage usage, or to assess processing requirements.

**Why it's useful:** Provides high-level insights for capacity planning, identifies largest files, and helps prioritize processing efforts.

**Examples:**
• Capacity planning: "Analyze /archive/ to understand storage usage and processing load"
• Collection overview: "Get statistics on /contracts/ to plan migration strategy"

**Common workflows:**
1. Migration Planning: Get directory stats → Estimate resources → Plan batch sizes
2. Storage Management: Analyze usage → Identify large files → Optimize storage

**Best practices:** Essential for understanding large document collections before bulk queue submissions.`

	// Queue Tools
	QueueSubmitDescription = `Submit a document to the background extraction queue.

**When to use:** Processing large files or many files where a synchronous pdf_process_file call would block too long.

**Why it's useful:** Jobs run on a bounded worker pool with priority ordering and automatic retry of recoverable failures.

**Examples:**
• Bulk ingestion: "Queue every PDF found in /incoming/ at normal priority"
• Urgent document: "Submit rush-contract.pdf with high priority"

**Common workflows:**
1. Batch Processing: Search directory → Submit each file → Poll queue_status → Collect results
2. Priority Handling: Submit urgent jobs at priority 20 → Background jobs at priority 0

**Best practices:** Priorities are 0 (low), 10 (normal) and 20 (high); jobs of equal priority run in submission order.`

	QueueStatusDescription = `Get the current state of the extraction queue and its jobs.

**When to use:** Monitoring background processing, checking whether submitted jobs have finished, or inspecting failures.

**Why it's useful:** Reports worker utilization plus pending, completed and failed counts, and lists every job with its status.

**Examples:**
• Progress check: "How many of the queued datasheets are done?"
• Failure triage: "List failed jobs so I can see their error codes"

**Common workflows:**
1. Polling: Submit jobs → Check status until pending reaches zero → Fetch results
2. Debugging: Check status → Inspect failed jobs → Resubmit after fixing inputs

**Best practices:** Jobs are listed newest first; terminal jobs carry either a result or a classified error.`

	QueueCancelDescription = `Cancel a pending job in the extraction queue.

**When to use:** A queued document is no longer needed, or was submitted by mistake.

**Why it's useful:** Frees backlog capacity without waiting for the job to run.

**Examples:**
• Mistaken submit: "Cancel job 4f9c... , that was the wrong file"
• Re-prioritization: "Cancel the low-priority batch, we need the workers for urgent documents"

**Best practices:** Only pending jobs can be cancelled; jobs already processing run to completion.`

	// Annotation Tools
	AnnotationListDescription = `List the annotation boxes recorded for a document.

**When to use:** Reviewing detected regions, checking manual corrections, or exporting ground-truth data.

**Why it's useful:** Shows every box with its page, geometry, role, confidence and source (manual or detected).

**Examples:**
• Review: "List annotations for datasheet.pdf to see what was detected"
• Audit: "Check which boxes on page 3 were manually corrected"

**Best practices:** Boxes are ordered by page and creation time; geometry is normalized to the page (0..1, origin top-left).`

	AnnotationAddDescription = `Add a manual annotation box to a document page.

**When to use:** Marking a region the detector missed, or recording ground truth for a table, figure or parameter block.

**Why it's useful:** Manual boxes carry full confidence and survive later re-detection runs.

**Examples:**
• Missed table: "Add a table box on page 2 covering the lower half of the page"
• Ground truth: "Mark the header region on page 1"

**Best practices:** Coordinates are normalized to the page (0..1, origin top-left); boxes are clamped to the page and must name a valid role.`

	AnnotationDeleteDescription = `Delete an annotation box from a document.

**When to use:** Removing false detections or obsolete manual boxes.

**Examples:**
• Cleanup: "Delete box b7e2... , it marks whitespace"

**Best practices:** Deletion is permanent once the document is saved; re-running detection will not resurrect a deleted detected box under the same identifier.`

	// Utility Tools
	ServerInfoDescription = `Get real-time server status, available tools, and system capabilities.

**When to use:** Starting work with the extraction server, troubleshooting issues, or checking available functionality.

**Why it's useful:** Provides complete overview of server capabilities, current configuration, queue state and OCR availability.

**Examples:**
• System check: "Verify server is ready and all tools are available before batch processing"
• Capability discovery: "Is OCR enabled in this build?"

**Common workflows:**
1. Session Startup: Check server info → Verify capabilities → Plan processing approach
2. Debugging: Review server status → Check directory paths → Verify tool availability

**Best practices:** Run at start of sessions; reports the configured document directory and file size limits.`
)

// ToolDescriptions maps tool names to their comprehensive descriptions
var ToolDescriptions = map[string]string{
	"pdf_process_file":       PDFProcessFileDescription,
	"pdf_validate_file":      PDFValidateFileDescription,
	"pdf_extract_tables":     PDFExtractTablesDescription,
	"pdf_extract_parameters": PDFExtractParametersDescription,
	"pdf_search_directory":   PDFSearchDirectoryDescription,
	"pdf_stats_directory":    PDFStatsDirectoryDescription,
	"queue_submit":           QueueSubmitDescription,
	"queue_status":           QueueStatusDescription,
	"queue_cancel":           QueueCancelDescription,
	"annotation_list":        AnnotationListDescription,
	"annotation_add":         AnnotationAddDescription,
	"annotation_delete":      AnnotationDeleteDescription,
	"server_info":            ServerInfoDescription,
}

// GetToolDescription returns the comprehensive description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns a list of all available tool names
func GetAllToolNames() []string {
	var names []string
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	return names
}
