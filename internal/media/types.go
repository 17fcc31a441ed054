package media

import "errors"

const (
	MaxDocuments     = 10
	MaxDocumentBytes = 15 << 20 // per decoded attachment

	// largest data URI kept alongside a stored report
	MaxStoredDataURIBytes = 1048487

	MaxImageWidth  = 800
	MaxImagePixels = 40_000_000
	JPEGQuality    = 40

	MIMETypePDF  = "application/pdf"
	MIMETypeJPEG = "image/jpeg"
)

var (
	ErrInvalidDataURI      = errors.New("invalid data uri")
	ErrUnsupportedType     = errors.New("unsupported attachment type")
	ErrTooLarge            = errors.New("attachment exceeds size limit")
	ErrTooManyDocuments    = errors.New("too many attachments")
	ErrContentTypeMismatch = errors.New("attachment content does not match its declared type")
)

// a decoded attachment
type Document struct {
	MIMEType string
	Data     []byte
}

func (d Document) IsPDF() bool {
	return d.MIMEType == MIMETypePDF
}

// how a report was captured
type ReportKind string

const (
	KindManual ReportKind = "manual"
	KindScan   ReportKind = "scan"
	KindBatch  ReportKind = "batch"
	KindPDF    ReportKind = "pdf"
)
