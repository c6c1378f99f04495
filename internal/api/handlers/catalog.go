package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/kaido-imports/kaido/internal/catalog"
	"github.com/kaido-imports/kaido/internal/cms"
)

// WebhookHandler receives content-store change notifications and routes them
// into the syncer. The body may arrive in any of the four recognized shapes;
// anything else is a 400, never a delete.
type WebhookHandler struct {
	Syncer *catalog.Syncer
	Logger *zap.SugaredLogger
}

func (h WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "read_failed", "message": err.Error()})
		return
	}

	ev, err := catalog.DecodePayload(body)
	if err != nil {
		var unrec catalog.UnrecognizedPayloadError
		if errors.As(err, &unrec) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":    "unrecognized_payload",
				"received": unrec.Received,
			})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_json", "message": err.Error()})
		return
	}

	writeSyncResponse(w, h.Logger, h.Syncer, r, ev)
}

// SyncHandler is the operator-facing manual trigger. It takes the explicit
// {sourceId, action} shape only.
type SyncHandler struct {
	Syncer *catalog.Syncer
	Logger *zap.SugaredLogger
}

func (h SyncHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		SourceID string `json:"sourceId"`
		Action   string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_json", "message": err.Error()})
		return
	}
	if req.SourceID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "missing_source_id"})
		return
	}

	ev := catalog.Event{SourceID: req.SourceID, Action: catalog.ActionUpsert}
	if req.Action == "delete" {
		ev.Action = catalog.ActionDelete
	}

	writeSyncResponse(w, h.Logger, h.Syncer, r, ev)
}

// SyncAllHandler re-syncs the whole catalog. Per-record failures come back in
// the result list; the batch itself only fails when the catalog listing does.
type SyncAllHandler struct {
	Syncer *catalog.Syncer
	Logger *zap.SugaredLogger
}

func (h SyncAllHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	results, err := h.Syncer.SyncAll(r.Context())
	if err != nil {
		if errors.Is(err, cms.ErrUnavailable) {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": "upstream_unavailable", "message": err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "sync_failed", "message": err.Error()})
		return
	}

	ok, failed := 0, 0
	for _, res := range results {
		if res.Ok {
			ok++
		} else {
			failed++
		}
	}

	if h.Logger != nil {
		h.Logger.Infow("catalog sync-all finished", "total", len(results), "ok", ok, "failed", failed)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": failed == 0,
		"total":   len(results),
		"ok":      ok,
		"failed":  failed,
		"results": results,
	})
}

func writeSyncResponse(w http.ResponseWriter, logger *zap.SugaredLogger, syncer *catalog.Syncer, r *http.Request, ev catalog.Event) {
	out, err := syncer.HandleEvent(r.Context(), ev)
	if err != nil {
		var nf catalog.NotFoundError
		switch {
		case errors.As(err, &nf):
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "not_found", "sourceId": nf.SourceID})
		case errors.Is(err, cms.ErrUnavailable):
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": "upstream_unavailable", "message": err.Error()})
		default:
			if logger != nil {
				logger.Errorw("sync failed", "source_id", ev.SourceID, "action", ev.Action, "err", err)
			}
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "sync_failed", "message": err.Error()})
		}
		return
	}

	if ev.Action == catalog.ActionDelete {
		writeJSON(w, http.StatusOK, map[string]any{
			"success":  true,
			"action":   "delete",
			"sourceId": ev.SourceID,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"carId":    out.VehicleID,
		"sourceId": out.SourceID,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
