package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const maxBodyBytes = 1 << 20

// decodeAttrs reads a JSON object from the request body. The attributes
// may be wrapped under root, as in {"job": {...}}, or sent bare.
func decodeAttrs[A any](w http.ResponseWriter, r *http.Request, root string) (A, error) {
	var attrs A

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return attrs, fmt.Errorf("%w: %v", errMalformedBody, err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return attrs, fmt.Errorf("%w: %v", errMalformedBody, err)
	}
	if inner, ok := fields[root]; ok {
		if trimmed := bytes.TrimSpace(inner); len(trimmed) > 0 && trimmed[0] == '{' {
			body = trimmed
		}
	}

	if err := json.Unmarshal(body, &attrs); err != nil {
		return attrs, fmt.Errorf("%w: %v", errMalformedBody, err)
	}
	return attrs, nil
}
