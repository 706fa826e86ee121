package domain

// RecordError represents a per-record error during import.
type RecordError struct {
	Row    int    `json:"row"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ImportResult represents the final result of an import operation.
type ImportResult struct {
	ID           string        `json:"id"`
	Format       string        `json:"format"`
	TotalRecords int           `json:"total_records"`
	SuccessCount int           `json:"success_count"`
	FailureCount int           `json:"failure_count"`
	Errors       []RecordError `json:"errors,omitempty"`
}

const (
	FormatCSV    = "csv"
	FormatNDJSON = "ndjson"
	FormatJSON   = "json"
)

// ImportFormats contains the formats accepted by the importer.
var ImportFormats = []string{FormatCSV, FormatNDJSON}

// ExportFormats contains the formats the exporter can produce.
var ExportFormats = []string{FormatJSON, FormatNDJSON, FormatCSV}

// IsValidImportFormat checks if an import format is valid.
func IsValidImportFormat(format string) bool {
	return contains(ImportFormats, format)
}

// IsValidExportFormat checks if an export format is valid.
func IsValidExportFormat(format string) bool {
	return contains(ExportFormats, format)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
