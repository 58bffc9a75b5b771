package eml

import (
	"bytes"
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clausewise/clausewise-cli/internal/core/domain"
	"github.com/clausewise/clausewise-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles EML (email) documents. Plain-text body parts
// are preferred; multipart messages concatenate all plain-text parts
// in document order.
type Normaliser struct{}

// New creates a new EML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"message/rfc822"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser
}

// Normalise converts an EML document to a normalised document.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	msg, err := mail.ReadMessage(bytes.NewReader(raw.Content))
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	subject := decodeHeader(msg.Header.Get("Subject"))
	body := extractBody(msg)

	var content strings.Builder
	if subject != "" {
		content.WriteString("Subject: ")
		content.WriteString(subject)
		content.WriteString("\n\n")
	}
	content.WriteString(body)

	title := subject
	if title == "" {
		title = titleFromURI(raw.URI)
	}

	doc := domain.Document{
		ID:      uuid.New().String(),
		URI:     raw.URI,
		Title:   title,
		Content: strings.TrimSpace(content.String()),
		Metadata: map[string]any{
			"mime_type": raw.MIMEType,
			"format":    "eml",
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	return &driven.NormaliseResult{Document: doc}, nil
}

// decodeHeader decodes RFC 2047 encoded headers.
func decodeHeader(header string) string {
	if header == "" {
		return ""
	}
	dec := new(mime.WordDecoder)
	decoded, err := dec.DecodeHeader(header)
	if err != nil {
		return header
	}
	return decoded
}

// extractBody extracts the text content from an email message.
// Undecodable payloads degrade to a lossy decode of the raw bytes
// rather than failing the file.
func extractBody(msg *mail.Message) string {
	contentType := msg.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/plain"
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return lossyRead(msg.Body)
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		return extractMultipartBody(msg.Body, params["boundary"])
	}

	return lossyRead(msg.Body)
}

// extractMultipartBody concatenates text parts in document order.
func extractMultipartBody(r io.Reader, boundary string) string {
	if boundary == "" {
		return ""
	}

	mr := multipart.NewReader(r, boundary)
	var textParts []string

	for {
		part, err := mr.NextPart()
		if err != nil {
			break
		}

		mediaType, params, parseErr := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if parseErr != nil {
			mediaType = "application/octet-stream"
		}

		content, readErr := io.ReadAll(part)
		part.Close()
		if readErr != nil {
			continue
		}

		switch {
		case mediaType == "text/plain" || mediaType == "":
			textParts = append(textParts, lossyDecode(content))
		case strings.HasPrefix(mediaType, "multipart/"):
			nested := extractMultipartBody(bytes.NewReader(content), params["boundary"])
			if nested != "" {
				textParts = append(textParts, nested)
			}
		}
	}

	return strings.Join(textParts, "\n")
}

// lossyRead reads everything from r with lossy UTF-8 decoding.
func lossyRead(r io.Reader) string {
	content, err := io.ReadAll(r)
	if err != nil {
		return ""
	}
	return lossyDecode(content)
}

// lossyDecode replaces undecodable byte sequences instead of failing.
func lossyDecode(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}

// titleFromURI extracts a title from the file path.
func titleFromURI(uri string) string {
	filename := filepath.Base(uri)
	if ext := filepath.Ext(filename); ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}
