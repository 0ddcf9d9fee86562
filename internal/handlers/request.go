package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/diewo77/go-profiles/httpx"
	"github.com/diewo77/go-profiles/internal/services"
	"github.com/diewo77/go-profiles/validation"
)

// decodeValidated reads the request body and checks it against schema. Schema violations are
// returned as a ValidationError.
func decodeValidated(r *http.Request, schema *validation.Schema) (map[string]any, error) {
	doc, err := httpx.DecodeObject(r)
	if err != nil {
		return nil, err
	}
	v, err := schema.Validate(doc)
	if err != nil {
		return nil, err
	}
	if err := services.Invalid(v); err != nil {
		return nil, err
	}
	return doc, nil
}

// str returns the string value of key; missing or non-string values yield "".
func str(doc map[string]any, key string) string {
	s, _ := doc[key].(string)
	return s
}

// optString reads an optional scalar field. A repeated form key keeps its first value.
func optString(doc map[string]any, key string, v validation.Violations) *string {
	raw, ok := doc[key]
	if !ok || raw == nil {
		return nil
	}
	if list, isList := raw.([]any); isList {
		if len(list) == 0 {
			return nil
		}
		raw = list[0]
	}
	switch val := raw.(type) {
	case string:
		return &val
	case json.Number:
		s := val.String()
		return &s
	default:
		v.Add(key, validation.CodeInvalid)
		return nil
	}
}

// optID reads an optional positive id. An empty value counts as not supplied.
func optID(doc map[string]any, key string, v validation.Violations) *uint {
	s := optString(doc, key, v)
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	id := validation.ID(key, *s, v)
	if id == 0 {
		return nil
	}
	return &id
}

// idList reads ids given as a repeated key, a comma separated string or a JSON array.
func idList(doc map[string]any, key string, v validation.Violations) []uint {
	var values []string
	switch raw := doc[key].(type) {
	case nil:
		return nil
	case string:
		values = []string{raw}
	case json.Number:
		values = []string{raw.String()}
	case []any:
		for _, item := range raw {
			switch item := item.(type) {
			case string:
				values = append(values, item)
			case json.Number:
				values = append(values, item.String())
			default:
				v.Add(key, validation.CodeInvalid)
				return nil
			}
		}
	default:
		v.Add(key, validation.CodeInvalid)
		return nil
	}
	return validation.IDList(key, values, v)
}

// readUpload reads the named multipart file, at most limit+1 bytes so oversized uploads are
// still detected. It returns nil when the request carries no such file.
func readUpload(r *http.Request, field string, limit int64) (*services.Upload, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, nil
	}
	fh := r.MultipartForm.File[field][0]
	if fh.Filename == "" && fh.Size == 0 {
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %s: %w", field, err)
	}
	defer f.Close()

	var src io.Reader = f
	if limit > 0 {
		src = io.LimitReader(f, limit+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read upload %s: %w", field, err)
	}
	return &services.Upload{Filename: fh.Filename, Data: data}, nil
}

func pathID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
