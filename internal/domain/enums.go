package domain

// SourceType identifies the collaborator that produced a document's raw text.
type SourceType string

const (
	SourceImage SourceType = "image"
	SourcePDF   SourceType = "pdf"
	SourceText  SourceType = "text"
)

// Strategy identifies which extractor produced the flight tickets of a run.
type Strategy string

const (
	StrategyLLM           Strategy = "llm"
	StrategyDeterministic Strategy = "deterministic"
)

// AllowedExtensions maps lower-case file extensions (with dot) to the source that reads them.
var AllowedExtensions = map[string]SourceType{
	".jpg":  SourceImage,
	".jpeg": SourceImage,
	".png":  SourceImage,
	".bmp":  SourceImage,
	".tiff": SourceImage,
	".webp": SourceImage,
	".pdf":  SourcePDF,
}

// ExportFormat is an alternative rendering of the flight tickets of a run.
type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)
