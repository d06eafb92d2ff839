package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fatih/color"

	"squadpage/internal/config"
	domain "squadpage/internal/domain/message"
)

func TestPrintThread(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	printThread(&buf, "demo", []domain.Message{
		{ID: 1, From: "Anna", Text: "hoi\nallemaal"},
		{ID: 2, Text: "anoniem bericht"},
	})
	got := buf.String()
	for _, want := range []string{"demo (2)", "#1 Anna", "    hoi\n    allemaal", "#2 anoniem"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestPrintThread_Empty(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	printThread(&buf, "demo", nil)
	if !strings.Contains(buf.String(), "no messages yet") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestBuildHandler(t *testing.T) {
	t.Setenv("SQUADPAGE_MESSAGE_BACKEND", "memory")
	t.Setenv("SQUADPAGE_API_BASE", "http://127.0.0.1:1")
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	h, err := buildHandler(cfg)
	if err != nil {
		t.Fatalf("buildHandler: %v", err)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET /healthz = %d", rec.Code)
	}
}

func TestCSRFKey(t *testing.T) {
	if _, err := csrfKey(&config.Config{CSRFKeyHex: "abcd"}); err == nil {
		t.Error("short key should be rejected")
	}
	key, err := csrfKey(&config.Config{})
	if err != nil || len(key) != 32 {
		t.Errorf("random key = %d bytes, %v", len(key), err)
	}
}
