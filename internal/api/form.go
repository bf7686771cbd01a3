package api

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
)

// Upload is a file to be sent in a multipart form.
type Upload struct {
	Open     func() (io.ReadCloser, error)
	Filename string
}

// FileUpload reads the named file when the form is encoded.
func FileUpload(path string) Upload {
	return Upload{
		Filename: filepath.Base(path),
		Open: func() (io.ReadCloser, error) {
			return os.Open(filepath.Clean(path)) // #nosec G304 -- user-selected file
		},
	}
}

// BytesUpload wraps in-memory content as an Upload.
func BytesUpload(name string, data []byte) Upload {
	return Upload{
		Filename: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

type formField struct {
	name  string
	value string
}

type formFile struct {
	field  string
	upload Upload
}

// Form is a multipart/form-data body. Fields and files keep their insertion
// order; a field name may repeat.
type Form struct {
	fields []formField
	files  []formFile
}

// NewForm returns an empty form.
func NewForm() *Form {
	return &Form{}
}

// AddField appends a text field.
func (f *Form) AddField(name, value string) *Form {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

// AddFile appends a file part under field.
func (f *Form) AddFile(field string, u Upload) *Form {
	f.files = append(f.files, formFile{field: field, upload: u})
	return f
}

// FileCount returns the number of file parts.
func (f *Form) FileCount() int {
	return len(f.files)
}

// encode writes the whole form into memory. Files are opened here, so a
// missing file fails before anything is sent.
func (f *Form) encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for _, file := range f.files {
		if err := writeFile(w, file); err != nil {
			return nil, "", err
		}
	}
	for _, field := range f.fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", field.name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish form: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeFile(w *multipart.Writer, file formFile) error {
	rc, err := file.upload.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", file.upload.Filename, err)
	}
	defer func() { _ = rc.Close() }()

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(file.upload.Filename)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(file.field), quoteEscaper.Replace(file.upload.Filename)))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create part for %s: %w", file.upload.Filename, err)
	}
	if _, err := io.Copy(part, rc); err != nil {
		return fmt.Errorf("failed to read %s: %w", file.upload.Filename, err)
	}
	return nil
}
