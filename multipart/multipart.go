// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package multipart

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	mimemultipart "mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

const (
	defaultMIMEType = "application/octet-stream"
	base64LineLen   = 76
)

var (
	// ErrInvalidType is wrapped by errors reporting a fields argument
	// or field value of an unsupported type.
	ErrInvalidType = errors.New("requisitor/multipart: invalid type")
	// ErrEmptyField is wrapped by the error reporting a field that has
	// neither a file nor content.
	ErrEmptyField = errors.New("requisitor/multipart: at least one of file or content must be provided")
)

// A Field describes one form field whose value is more than a plain
// string.
//
// At least one of File and Content must be set. When Content is empty
// the content is read from File.
type Field struct {
	// File is a filesystem path (string) or an open io.Reader. It is
	// also the filename hint: the base name of the path, or of the
	// reader's Name() if it has one, becomes the part's filename.
	File interface{}
	// Content is the literal field content, a string or []byte.
	Content interface{}
	// MIMEType overrides the content type otherwise guessed from the
	// filename hint.
	MIMEType string
}

type part struct {
	name     string
	filename string
	mimeType string
	content  []byte
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Prepare encodes fields as a multipart/form-data body. It returns the
// Content-Type header value, which carries the boundary, and the body.
//
// Parameter fields must be a map[string]interface{}, map[string]string,
// or map[string]Field. Each value of a map[string]interface{} may be a
// string (sent as text/plain), a Field, a *Field, or a
// map[string]interface{} with the optional keys "file", "content" and
// "mime_type" having the meaning of the Field members.
func Prepare(fields interface{}) (contentType string, body []byte, err error) {
	values, err := fieldValues(fields)
	if err != nil {
		return "", nil, err
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	w := mimemultipart.NewWriter(&buf)
	if err = w.SetBoundary(newBoundary()); err != nil {
		return "", nil, err
	}
	for _, name := range names {
		p, err := resolve(name, values[name])
		if err != nil {
			return "", nil, err
		}
		if err = writePart(w, p); err != nil {
			return "", nil, err
		}
	}
	if err = w.Close(); err != nil {
		return "", nil, err
	}
	return w.FormDataContentType(), buf.Bytes(), nil
}

func fieldValues(fields interface{}) (map[string]interface{}, error) {
	switch x := fields.(type) {
	case map[string]interface{}:
		return x, nil
	case map[string]string:
		m := make(map[string]interface{}, len(x))
		for k, v := range x {
			m[k] = v
		}
		return m, nil
	case map[string]Field:
		m := make(map[string]interface{}, len(x))
		for k, v := range x {
			m[k] = v
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%w: a map is required, cannot be type %T", ErrInvalidType, fields)
	}
}

func newBoundary() string {
	id := uuid.New()
	return "===============" + hex.EncodeToString(id[:]) + "=="
}

func resolve(name string, value interface{}) (*part, error) {
	var f Field
	switch x := value.(type) {
	case string:
		return &part{name: name, mimeType: "text/plain", content: []byte(x)}, nil
	case Field:
		f = x
	case *Field:
		if x == nil {
			return nil, fmt.Errorf("%w: field %q is a nil *Field", ErrInvalidType, name)
		}
		f = *x
	case map[string]interface{}:
		f = Field{File: x["file"], Content: x["content"]}
		if s, ok := x["mime_type"].(string); ok {
			f.MIMEType = s
		}
	default:
		return nil, fmt.Errorf("%w: field %q must be string, Field, or map, cannot be type %T", ErrInvalidType, name, value)
	}

	if isEmpty(f.File) && isEmpty(f.Content) {
		return nil, fmt.Errorf("%w: field %q", ErrEmptyField, name)
	}

	p := &part{name: name, mimeType: f.MIMEType}
	if !isEmpty(f.File) {
		var err error
		if p.filename, err = filename(f.File); err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
	}
	if p.mimeType == "" {
		p.mimeType = guessType(p.filename)
	}

	var err error
	if isEmpty(f.Content) {
		p.content, err = readFile(f.File)
	} else {
		p.content, err = contentBytes(f.Content)
	}
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", name, err)
	}
	return p, nil
}

func isEmpty(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case []byte:
		return len(x) == 0
	default:
		return false
	}
}

func filename(file interface{}) (string, error) {
	switch x := file.(type) {
	case string:
		return filepath.Base(x), nil
	case interface{ Name() string }:
		return filepath.Base(x.Name()), nil
	case io.Reader:
		return "", nil
	default:
		return "", fmt.Errorf("%w: file must be a path or io.Reader, cannot be type %T", ErrInvalidType, file)
	}
}

// guessType never fails: an unknown or missing extension falls back
// to application/octet-stream.
func guessType(filename string) string {
	if filename == "" {
		return defaultMIMEType
	}
	t := mime.TypeByExtension(filepath.Ext(filename))
	if t == "" {
		return defaultMIMEType
	}
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}

func readFile(file interface{}) ([]byte, error) {
	switch x := file.(type) {
	case string:
		return os.ReadFile(x)
	case io.Reader:
		return io.ReadAll(x)
	default:
		return nil, fmt.Errorf("%w: file must be a path or io.Reader, cannot be type %T", ErrInvalidType, file)
	}
}

func contentBytes(content interface{}) ([]byte, error) {
	switch x := content.(type) {
	case string:
		return []byte(x), nil
	case []byte:
		return x, nil
	default:
		return nil, fmt.Errorf("%w: content must be string or []byte, cannot be type %T", ErrInvalidType, content)
	}
}

func writePart(w *mimemultipart.Writer, p *part) error {
	h := make(textproto.MIMEHeader)
	disposition := fmt.Sprintf(`form-data; name="%s"`, quoteEscaper.Replace(p.name))
	if p.filename != "" {
		disposition += fmt.Sprintf(`; filename="%s"`, quoteEscaper.Replace(p.filename))
	}
	h.Set("Content-Disposition", disposition)
	h.Set("Content-Type", p.mimeType)

	payload := p.content
	if IsBinary(p.content) {
		h.Set("Content-Transfer-Encoding", "base64")
		payload = encodeBase64(p.content)
	}
	pw, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = pw.Write(payload)
	return err
}

// encodeBase64 produces standard base64 broken into CRLF-terminated
// lines of at most 76 characters.
func encodeBase64(b []byte) []byte {
	enc := base64.StdEncoding.EncodeToString(b)
	var out bytes.Buffer
	out.Grow(len(enc) + 2*(len(enc)/base64LineLen+1))
	for len(enc) > base64LineLen {
		out.WriteString(enc[:base64LineLen])
		out.WriteString("\r\n")
		enc = enc[base64LineLen:]
	}
	if len(enc) > 0 {
		out.WriteString(enc)
		out.WriteString("\r\n")
	}
	return out.Bytes()
}
