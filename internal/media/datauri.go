package media

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// decodes "data:<mime>;base64,<payload>"
func ParseDataURI(uri string) (Document, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return Document{}, fmt.Errorf("%w: missing data: prefix", ErrInvalidDataURI)
	}

	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Document{}, fmt.Errorf("%w: missing payload", ErrInvalidDataURI)
	}

	mimeType, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return Document{}, fmt.Errorf("%w: only base64 payloads are supported", ErrInvalidDataURI)
	}

	// drop parameters such as ;name=scan.jpg
	mimeType, _, _ = strings.Cut(mimeType, ";")
	if mimeType == "" {
		return Document{}, fmt.Errorf("%w: missing mime type", ErrInvalidDataURI)
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxDocumentBytes+3 {
		return Document{}, ErrTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrInvalidDataURI, err)
	}

	if len(data) == 0 {
		return Document{}, fmt.Errorf("%w: empty payload", ErrInvalidDataURI)
	}

	return Document{MIMEType: strings.ToLower(mimeType), Data: data}, nil
}

func (d Document) DataURI() string {
	return "data:" + d.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(d.Data)
}

// checks size and type, and replaces the declared type with the sniffed one
func Inspect(doc Document) (Document, error) {
	if len(doc.Data) > MaxDocumentBytes {
		return Document{}, ErrTooLarge
	}

	detected := mimetype.Detect(doc.Data)
	sniffed := detected.String()
	if i := strings.IndexByte(sniffed, ';'); i >= 0 {
		sniffed = sniffed[:i]
	}

	switch {
	case detected.Is(MIMETypePDF):
		if doc.MIMEType != MIMETypePDF {
			return Document{}, ErrContentTypeMismatch
		}
	case strings.HasPrefix(sniffed, "image/"):
		if !strings.HasPrefix(doc.MIMEType, "image/") {
			return Document{}, ErrContentTypeMismatch
		}
	default:
		return Document{}, fmt.Errorf("%w: %s", ErrUnsupportedType, sniffed)
	}

	return Document{MIMEType: sniffed, Data: doc.Data}, nil
}

// parses and inspects a batch of data URIs
func ParseAll(uris []string) ([]Document, error) {
	if len(uris) > MaxDocuments {
		return nil, ErrTooManyDocuments
	}

	docs := make([]Document, 0, len(uris))

	for i, uri := range uris {
		doc, err := ParseDataURI(uri)
		if err != nil {
			return nil, fmt.Errorf("attachment %d: %w", i+1, err)
		}

		doc, err = Inspect(doc)
		if err != nil {
			return nil, fmt.Errorf("attachment %d: %w", i+1, err)
		}

		docs = append(docs, doc)
	}

	return docs, nil
}

// classifies a submission by its attachments
func KindOf(docs []Document) ReportKind {
	if len(docs) == 0 {
		return KindManual
	}

	for _, d := range docs {
		if d.IsPDF() {
			return KindPDF
		}
	}

	if len(docs) > 1 {
		return KindBatch
	}

	return KindScan
}
