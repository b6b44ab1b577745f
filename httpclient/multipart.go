package httpclient

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/textproto"
	"slices"
	"strings"
)

// MultipartBody is a multipart/form-data request body. Fields are written in
// key order, then files in slice order.
type MultipartBody struct {
	Fields map[string]string
	Files  []FileField
}

// FileField is a file part of a multipart body.
type FileField struct {
	// FieldName is the form field name, e.g. "file".
	FieldName string
	// FileName is the file name sent to the server.
	FileName string
	// ContentType defaults to application/octet-stream.
	ContentType string
	// Data is the file content. Reader is used when Data is nil.
	Data   []byte
	Reader io.Reader
}

func (m *MultipartBody) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if err := w.WriteField(k, m.Fields[k]); err != nil {
			return nil, "", err
		}
	}

	for _, f := range m.Files {
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			`form-data; name="`+escapeQuotes(f.FieldName)+`"; filename="`+escapeQuotes(f.FileName)+`"`)
		header.Set("Content-Type", contentType)

		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		switch {
		case f.Data != nil:
			_, err = part.Write(f.Data)
		case f.Reader != nil:
			_, err = io.Copy(part, f.Reader)
		}
		if err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
