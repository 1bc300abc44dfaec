// internal/app/features/authapi/bind.go
package authapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dalemusser/subtracker/internal/app/system/httperr"
)

// maxBodyBytes caps credential payloads.
const maxBodyBytes = 64 << 10

// bindJSON decodes a single JSON object from the request body into dst.
func bindJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		return httperr.New(http.StatusUnsupportedMediaType, "Content-Type must be application/json")
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return httperr.Wrap(err, http.StatusBadRequest, "Invalid request body")
	}
	if dec.More() {
		return httperr.BadRequest("Invalid request body")
	}
	return nil
}
