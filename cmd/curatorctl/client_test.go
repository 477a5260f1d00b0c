package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

type echoPayload struct {
	Strategy string `json:"strategy"`
}

func setupServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	oldServer, oldTimeout := serverURL, flagTimeout
	serverURL = srv.URL
	flagTimeout = 5 * time.Second
	t.Cleanup(func() {
		serverURL = oldServer
		flagTimeout = oldTimeout
	})
}

func TestPostJSONRoundTrip(t *testing.T) {
	setupServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}
		var in echoPayload
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(in)
	})

	var out echoPayload
	err := postJSON(context.Background(), "/api/v1/organize/start", echoPayload{Strategy: "clone"}, &out)
	if err != nil {
		t.Fatalf("postJSON: %v", err)
	}
	if out.Strategy != "clone" {
		t.Errorf("expected echoed strategy, got %q", out.Strategy)
	}
}

func TestGetJSONPassesQuery(t *testing.T) {
	setupServer(t, func(w http.ResponseWriter, r *http.Request) {
		if q := r.URL.Query().Get("q"); q != "golang" {
			t.Errorf("expected q=golang, got %q", q)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"query":"golang"}`))
	})

	query := url.Values{}
	query.Set("q", "golang")
	var out struct {
		Query string `json:"query"`
	}
	if err := getJSON(context.Background(), "/api/v1/search", query, &out); err != nil {
		t.Fatalf("getJSON: %v", err)
	}
	if out.Query != "golang" {
		t.Errorf("expected query echoed, got %q", out.Query)
	}
}

func TestErrorPayloadSurfaced(t *testing.T) {
	setupServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"organize job already running"}`))
	})

	err := postJSON(context.Background(), "/api/v1/organize/start", nil, nil)
	if err == nil {
		t.Fatal("expected an error for a 409 response")
	}
	want := "organize job already running (HTTP 409)"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}
