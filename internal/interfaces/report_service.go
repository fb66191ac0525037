package interfaces

// ReportService renders markdown reports (answers, tracking summaries)
// to PDF byte slices.
type ReportService interface {
	ConvertMarkdownToPDF(markdown, title string) ([]byte, error)
}
