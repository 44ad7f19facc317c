package domain

import "errors"

var (
	ErrUnsupportedFileType   = errors.New("unsupported file type")
	ErrFileTooLarge          = errors.New("file exceeds maximum allowed size")
	ErrMissingFile           = errors.New("no file uploaded")
	ErrUploadFailed          = errors.New("file upload failed")
	ErrOCRFailed             = errors.New("text recognition failed")
	ErrPDFExtractionFailed   = errors.New("pdf text extraction failed")
	ErrSourceNotConfigured   = errors.New("document source not configured")
	ErrDocumentNotFound      = errors.New("document not found")
	ErrUnsupportedExport     = errors.New("unsupported export format")
	ErrModelNotConfigured    = errors.New("model identifier not configured")
	ErrUnknownParserProvider = errors.New("unknown parser provider")
)
