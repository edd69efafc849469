package qr

import (
	"encoding/json"
	"net/url"
	"path"
	"strconv"
	"strings"

	pkgerrors "github.com/thesisvault/backend/pkg/errors"
)

// Kind classifies what a scanned QR code encodes.
type Kind string

const (
	// KindBorrow is a borrow ticket: JSON carrying thesis and user ids.
	KindBorrow Kind = "borrow"
	// KindThesisID is a bare numeric thesis id.
	KindThesisID Kind = "thesis_id"
	// KindFile is a storage URL or filename pointing at a thesis PDF.
	KindFile Kind = "file"
)

// Payload is the interpreted content of a scanned QR code. Exactly the
// fields implied by Kind are set.
type Payload struct {
	Kind     Kind
	ThesisID int64
	UserID   int64
	Filename string
}

type borrowTicket struct {
	ThesisID int64 `json:"thesis_id"`
	UserID   int64 `json:"user_id"`
}

// Interpret decodes raw QR content. Recognized shapes, tried in order:
// a JSON borrow ticket, a URL or path whose last segment is a PDF filename,
// and a bare numeric thesis id.
func Interpret(raw string) (*Payload, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "empty qr content")
	}

	if strings.HasPrefix(trimmed, "{") {
		var ticket borrowTicket
		if err := json.Unmarshal([]byte(trimmed), &ticket); err == nil && ticket.ThesisID > 0 {
			return &Payload{
				Kind:     KindBorrow,
				ThesisID: ticket.ThesisID,
				UserID:   ticket.UserID,
			}, nil
		}
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unrecognized qr payload")
	}

	if filename, ok := extractPDFFilename(trimmed); ok {
		return &Payload{
			Kind:     KindFile,
			Filename: filename,
		}, nil
	}

	if id, err := strconv.ParseInt(trimmed, 10, 64); err == nil && id > 0 {
		return &Payload{
			Kind:     KindThesisID,
			ThesisID: id,
		}, nil
	}

	return nil, pkgerrors.New(pkgerrors.CodeValidation, "unrecognized qr payload")
}

// EncodeBorrowTicket serializes a borrow ticket the way Interpret expects it.
func EncodeBorrowTicket(thesisID, userID int64) (string, error) {
	raw, err := json.Marshal(borrowTicket{ThesisID: thesisID, UserID: userID})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode borrow ticket")
	}
	return string(raw), nil
}

// extractPDFFilename pulls the last path segment of a URL or path when it
// names a PDF. Query strings and fragments are stripped off first.
func extractPDFFilename(value string) (string, bool) {
	candidate := value
	if parsed, err := url.Parse(value); err == nil && parsed.Path != "" {
		candidate = parsed.Path
	}
	if idx := strings.IndexAny(candidate, "?#"); idx >= 0 {
		candidate = candidate[:idx]
	}

	base := path.Base(candidate)
	if base == "." || base == "/" {
		return "", false
	}
	if !strings.HasSuffix(strings.ToLower(base), ".pdf") {
		return "", false
	}

	decoded, err := url.PathUnescape(base)
	if err != nil {
		decoded = base
	}
	return decoded, true
}
