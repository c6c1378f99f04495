package cms

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/kaido-imports/kaido/internal/domain"
)

func TestHTTPClient_GetRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		switch r.URL.Path {
		case "/v1/data/production/records/car-1":
			_ = json.NewEncoder(w).Encode(domain.CatalogRecord{
				ID:    "car-1",
				Brand: "Toyota",
				Model: "Supra",
				Year:  1997,
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "production", "secret-token")

	rec, ok, err := c.GetRecord(context.Background(), "car-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected record")
	}
	if rec.Brand != "Toyota" || rec.Model != "Supra" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	_, ok, err = c.GetRecord(context.Background(), "car-missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("missing id must report ok=false")
	}
}

func TestHTTPClient_ListRecordsPaginates(t *testing.T) {
	total := 5

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		page := listPage{Total: total}
		for i := offset; i < total && i < offset+limit; i++ {
			page.Records = append(page.Records, domain.CatalogRecord{ID: "car-" + strconv.Itoa(i)})
		}

		_ = json.NewEncoder(w).Encode(page)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "production", "")
	c.PageSize = 2

	recs, err := c.ListRecords(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != total {
		t.Fatalf("expected %d records, got %d", total, len(recs))
	}
	if recs[4].ID != "car-4" {
		t.Fatalf("unexpected last record: %+v", recs[4])
	}
}

func TestHTTPClient_ServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "production", "")

	_, _, err := c.GetRecord(context.Background(), "car-1")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}

	_, err = c.ListRecords(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestHTTPClient_TimeoutIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "production", "")
	c.HTTP = &http.Client{Timeout: 20 * time.Millisecond}

	_, _, err := c.GetRecord(context.Background(), "car-1")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
