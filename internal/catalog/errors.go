package catalog

import (
	"fmt"
	"strings"
)

// NotFoundError means the source id has no catalog record behind it.
type NotFoundError struct {
	SourceID string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("catalog record not found: %s", e.SourceID)
}

// UnrecognizedPayloadError means a webhook body matched none of the known
// notification shapes. The top-level keys are echoed back so the operator can
// see what actually arrived. This error must fail the request closed; an
// unknown shape never falls through to the delete path.
type UnrecognizedPayloadError struct {
	Received []string
}

func (e UnrecognizedPayloadError) Error() string {
	return fmt.Sprintf("unrecognized webhook payload (keys: %s)", strings.Join(e.Received, ", "))
}
