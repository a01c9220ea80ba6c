package usecase

import (
	"bytes"
	"fmt"
	"net/mail"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func minLength(errs []ValidationError, field, value string, n int) []ValidationError {
	value = strings.TrimSpace(value)
	if value == "" {
		return append(errs, ValidationError{field, "is required"})
	}
	if utf8.RuneCountInString(value) < n {
		return append(errs, ValidationError{field, fmt.Sprintf("must have at least %d characters", n)})
	}
	return errs
}

func ValidateClientInput(in AddClientInput) []ValidationError {
	var errs []ValidationError

	errs = minLength(errs, "name", in.Name, 2)

	if strings.TrimSpace(in.Email) == "" {
		errs = append(errs, ValidationError{"email", "is required"})
	} else if addr, err := mail.ParseAddress(strings.TrimSpace(in.Email)); err != nil || addr.Address != strings.TrimSpace(in.Email) {
		errs = append(errs, ValidationError{"email", "is invalid"})
	}

	errs = minLength(errs, "company", in.Company, 2)

	if strings.TrimSpace(in.ListID) == "" {
		errs = append(errs, ValidationError{"list_id", "is required"})
	}
	return errs
}

// Accepted candidate documents, keyed by extension.
var documentTypes = map[string]struct {
	contentType string
	magic       []byte
}{
	"pdf":  {"application/pdf", []byte("%PDF-")},
	"doc":  {"application/msword", []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}},
	"docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", []byte("PK\x03\x04")},
}

// ValidateDocument checks extension, declared content type and leading bytes
// of an upload. A name without extension is typed by its declared content
// type, then by its leading bytes. It returns the normalized extension.
func ValidateDocument(filename, declaredType string, head []byte) (string, []ValidationError) {
	declared := strings.ToLower(strings.TrimSpace(strings.Split(declaredType, ";")[0]))

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		ext = sniffExtension(declared, head)
	}
	dt, ok := documentTypes[ext]
	if !ok {
		return "", []ValidationError{{"file", "must be a PDF, DOC or DOCX document"}}
	}

	if declared != "" && declared != "application/octet-stream" && declared != dt.contentType {
		return "", []ValidationError{{"file", fmt.Sprintf("content type %q does not match .%s", declaredType, ext)}}
	}

	if !bytes.HasPrefix(head, dt.magic) {
		return "", []ValidationError{{"file", fmt.Sprintf("content is not a valid .%s document", ext)}}
	}
	return ext, nil
}

func sniffExtension(declared string, head []byte) string {
	for ext, dt := range documentTypes {
		if declared == dt.contentType {
			return ext
		}
	}
	for ext, dt := range documentTypes {
		if bytes.HasPrefix(head, dt.magic) {
			return ext
		}
	}
	return ""
}

func documentContentType(ext string) string {
	return documentTypes[ext].contentType
}
