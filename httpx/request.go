package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

// ErrBadBody is returned when the request body cannot be decoded.
var ErrBadBody = errors.New("malformed request body")

// maxFormMemory bounds the in-memory part of multipart parsing; larger files spill to disk.
const maxFormMemory = 8 << 20

// DecodeObject reads a JSON object, urlencoded or multipart body into a generic document.
// Form values keep their string form; repeated keys become []any.
func DecodeObject(r *http.Request) (map[string]any, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json", "":
		doc := map[string]any{}
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return doc, nil
			}
			return nil, fmt.Errorf("%w: %v", ErrBadBody, err)
		}
		return doc, nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadBody, err)
		}
	default:
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadBody, err)
		}
	}
	doc := make(map[string]any, len(r.PostForm))
	for key, values := range r.PostForm {
		if len(values) == 1 {
			doc[key] = values[0]
			continue
		}
		list := make([]any, len(values))
		for i, v := range values {
			list[i] = v
		}
		doc[key] = list
	}
	return doc, nil
}

// IsMultipart reports whether the request carries a multipart body.
func IsMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}
