package shared

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// DecodeJSON decodes the request body into v. Callers translate a failure
// into a 400 response; the wrapped error is for logs only.
func DecodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
