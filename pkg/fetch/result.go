package fetch

import (
	"encoding/json"
	"fmt"
	"time"
)

// Result is an upstream payload plus its cache provenance.
type Result struct {
	// Payload is the upstream JSON, passed through verbatim.
	Payload json.RawMessage

	// FromCache reports whether the payload was served from the cache.
	FromCache bool

	// Timestamp is when the result was produced, always fresh even on
	// cache hits.
	Timestamp time.Time
}

// Annotated returns the payload with fromCache and timestamp merged into
// the top-level JSON object. Payloads that are not objects (arrays,
// scalars) are wrapped under a "data" field instead, so the annotation
// never silently disappears.
func (r *Result) Annotated() (json.RawMessage, error) {
	annotations := map[string]any{
		"fromCache": r.FromCache,
		"timestamp": r.Timestamp.UTC().Format(time.RFC3339),
	}

	var object map[string]any
	if err := json.Unmarshal(r.Payload, &object); err == nil && object != nil {
		for k, v := range annotations {
			object[k] = v
		}
		annotated, err := json.Marshal(object)
		if err != nil {
			return nil, fmt.Errorf("marshal annotated payload: %w", err)
		}
		return annotated, nil
	}

	annotations["data"] = r.Payload
	annotated, err := json.Marshal(annotations)
	if err != nil {
		return nil, fmt.Errorf("marshal annotated payload: %w", err)
	}
	return annotated, nil
}
