package catalog

import (
	"errors"
	"testing"
)

func TestDecodePayload_DirectDocument(t *testing.T) {
	ev, err := DecodePayload([]byte(`{"_id":"car-123","brand":"Mazda","model":"RX-7"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.SourceID != "car-123" || ev.Action != ActionUpsert {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestDecodePayload_DirectDocumentWithDeletedAt(t *testing.T) {
	ev, err := DecodePayload([]byte(`{"_id":"car-123","deletedAt":"2025-07-01T10:00:00Z"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Action != ActionDelete {
		t.Fatalf("deletedAt marker must signal deletion, got %+v", ev)
	}
}

func TestDecodePayload_DocumentsWrapper(t *testing.T) {
	body := `{"documents":[{"_id":"car-9"},{"_id":"car-10"}]}`

	ev, err := DecodePayload([]byte(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.SourceID != "car-9" || ev.Action != ActionUpsert {
		t.Fatalf("wrapper must target the first document, got %+v", ev)
	}
}

func TestDecodePayload_ManualTrigger(t *testing.T) {
	ev, err := DecodePayload([]byte(`{"sourceId":"car-55","action":"sync"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.SourceID != "car-55" || ev.Action != ActionUpsert {
		t.Fatalf("unexpected event: %+v", ev)
	}

	ev, err = DecodePayload([]byte(`{"sourceId":"car-55","action":"delete"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Action != ActionDelete {
		t.Fatalf("expected delete, got %+v", ev)
	}
}

func TestDecodePayload_Mutations(t *testing.T) {
	ev, err := DecodePayload([]byte(`{"mutations":[{"createOrReplace":{"_id":"car-7"}}]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.SourceID != "car-7" || ev.Action != ActionUpsert {
		t.Fatalf("unexpected event: %+v", ev)
	}

	ev, err = DecodePayload([]byte(`{"mutations":[{"delete":{"id":"car-8"}}]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.SourceID != "car-8" || ev.Action != ActionDelete {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestDecodePayload_UnrecognizedFailsClosed(t *testing.T) {
	cases := []string{
		`{}`,
		`{"type":"ping","ts":123}`,
		`{"documents":[]}`,
		`{"sourceId":""}`,
		`{"mutations":[{"patch":{"id":""}}]}`,
	}

	for _, body := range cases {
		ev, err := DecodePayload([]byte(body))

		var unrec UnrecognizedPayloadError
		if !errors.As(err, &unrec) {
			t.Fatalf("body %s: expected UnrecognizedPayloadError, got ev=%+v err=%v", body, ev, err)
		}
		if ev.Action == ActionDelete {
			t.Fatalf("body %s: unrecognized shape resolved to delete", body)
		}
	}
}

func TestDecodePayload_EchoesTopLevelKeys(t *testing.T) {
	_, err := DecodePayload([]byte(`{"zeta":1,"alpha":2}`))

	var unrec UnrecognizedPayloadError
	if !errors.As(err, &unrec) {
		t.Fatalf("expected UnrecognizedPayloadError, got %v", err)
	}
	if len(unrec.Received) != 2 || unrec.Received[0] != "alpha" || unrec.Received[1] != "zeta" {
		t.Fatalf("expected sorted key echo, got %v", unrec.Received)
	}
}

func TestDecodePayload_NonObjectBody(t *testing.T) {
	if _, err := DecodePayload([]byte(`[1,2,3]`)); err == nil {
		t.Fatalf("expected error for non-object body")
	}
	if _, err := DecodePayload([]byte(`not json`)); err == nil {
		t.Fatalf("expected error for invalid json")
	}
}
