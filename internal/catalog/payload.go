package catalog

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

type Action string

const (
	ActionUpsert Action = "upsert"
	ActionDelete Action = "delete"
)

// Event is the resolved intent of an inbound content-store notification.
type Event struct {
	SourceID string
	Action   Action
}

// The content store notifies us in several shapes: a direct document payload,
// a wrapped documents array, an explicit manual trigger, or a mutation list.
// DecodePayload parses the body into exactly one of those variants. Anything
// else fails closed with UnrecognizedPayloadError; an unknown shape must never
// drift into the delete path.
func DecodePayload(body []byte) (Event, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return Event{}, fmt.Errorf("webhook body is not a JSON object: %w", err)
	}

	if _, ok := top["sourceId"]; ok {
		return decodeManualTrigger(body)
	}
	if _, ok := top["documents"]; ok {
		return decodeDocumentsWrapper(body)
	}
	if _, ok := top["mutations"]; ok {
		return decodeMutations(body)
	}
	if _, ok := top["_id"]; ok {
		return decodeDocument(body)
	}

	keys := make([]string, 0, len(top))
	for k := range top {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return Event{}, UnrecognizedPayloadError{Received: keys}
}

type manualTrigger struct {
	SourceID string `json:"sourceId"`
	Action   string `json:"action"`
}

func decodeManualTrigger(body []byte) (Event, error) {
	var m manualTrigger
	if err := json.Unmarshal(body, &m); err != nil {
		return Event{}, fmt.Errorf("decode manual trigger: %w", err)
	}

	if strings.TrimSpace(m.SourceID) == "" {
		return Event{}, UnrecognizedPayloadError{Received: []string{"sourceId"}}
	}

	action := ActionUpsert
	if strings.EqualFold(strings.TrimSpace(m.Action), "delete") {
		action = ActionDelete
	}

	return Event{SourceID: m.SourceID, Action: action}, nil
}

type documentPayload struct {
	ID        string     `json:"_id"`
	DeletedAt *time.Time `json:"deletedAt"`
}

func decodeDocument(body []byte) (Event, error) {
	var d documentPayload
	if err := json.Unmarshal(body, &d); err != nil {
		return Event{}, fmt.Errorf("decode document payload: %w", err)
	}
	return eventFromDocument(d)
}

func decodeDocumentsWrapper(body []byte) (Event, error) {
	var wrapper struct {
		Documents []documentPayload `json:"documents"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return Event{}, fmt.Errorf("decode documents wrapper: %w", err)
	}

	if len(wrapper.Documents) == 0 {
		return Event{}, UnrecognizedPayloadError{Received: []string{"documents"}}
	}

	return eventFromDocument(wrapper.Documents[0])
}

func eventFromDocument(d documentPayload) (Event, error) {
	if strings.TrimSpace(d.ID) == "" {
		return Event{}, UnrecognizedPayloadError{Received: []string{"_id"}}
	}

	action := ActionUpsert
	if d.DeletedAt != nil {
		action = ActionDelete
	}

	return Event{SourceID: d.ID, Action: action}, nil
}

type mutation struct {
	Create          *mutationDoc `json:"create"`
	CreateOrReplace *mutationDoc `json:"createOrReplace"`
	Patch           *mutationRef `json:"patch"`
	Delete          *mutationRef `json:"delete"`
}

type mutationDoc struct {
	ID string `json:"_id"`
}

type mutationRef struct {
	ID string `json:"id"`
}

func decodeMutations(body []byte) (Event, error) {
	var wrapper struct {
		Mutations []mutation `json:"mutations"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return Event{}, fmt.Errorf("decode mutations: %w", err)
	}

	for _, m := range wrapper.Mutations {
		switch {
		case m.Delete != nil && strings.TrimSpace(m.Delete.ID) != "":
			return Event{SourceID: m.Delete.ID, Action: ActionDelete}, nil
		case m.Create != nil && strings.TrimSpace(m.Create.ID) != "":
			return Event{SourceID: m.Create.ID, Action: ActionUpsert}, nil
		case m.CreateOrReplace != nil && strings.TrimSpace(m.CreateOrReplace.ID) != "":
			return Event{SourceID: m.CreateOrReplace.ID, Action: ActionUpsert}, nil
		case m.Patch != nil && strings.TrimSpace(m.Patch.ID) != "":
			return Event{SourceID: m.Patch.ID, Action: ActionUpsert}, nil
		}
	}

	return Event{}, UnrecognizedPayloadError{Received: []string{"mutations"}}
}
