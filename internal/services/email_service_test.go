package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEmailService_SendsFormEncodedRequest(t *testing.T) {
	var gotAuth, gotTo, gotSubject, gotHTML string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("bad form: %v", err)
		}
		gotAuth = r.Header.Get("Authorization")
		gotTo = r.FormValue("to")
		gotSubject = r.FormValue("subject")
		gotHTML = r.FormValue("html")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer ts.Close()

	svc := NewEmailService(ts.URL, "key-123", "noreply@postlink.io")
	err := svc.Send(context.Background(), "pub@example.com", "Invoice paid", "<p>done</p>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAuth != "Bearer key-123" {
		t.Errorf("auth header mismatch: %q", gotAuth)
	}
	if gotTo != "pub@example.com" {
		t.Errorf("to mismatch: %q", gotTo)
	}
	if gotSubject != "Invoice paid" {
		t.Errorf("subject mismatch: %q", gotSubject)
	}
	if gotHTML != "<p>done</p>" {
		t.Errorf("html mismatch: %q", gotHTML)
	}
}

func TestEmailService_Non2xxIsAnError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"message":"upstream down"}`))
	}))
	defer ts.Close()

	svc := NewEmailService(ts.URL, "key-123", "noreply@postlink.io")
	if err := svc.Send(context.Background(), "pub@example.com", "s", "b"); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestEmailService_RejectedStatusIsAnError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"rejected","message":"blocked recipient"}`))
	}))
	defer ts.Close()

	svc := NewEmailService(ts.URL, "key-123", "noreply@postlink.io")
	if err := svc.Send(context.Background(), "pub@example.com", "s", "b"); err == nil {
		t.Fatalf("expected error, got nil")
	}
}
