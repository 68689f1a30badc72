package openai

import (
	"context"
	"testing"
	"time"
)

// TestNew_MissingAPIKey ensures the constructor rejects an empty API key.
func TestNew_MissingAPIKey(t *testing.T) {
	_, err := New("", "gpt-4o")
	if err == nil {
		t.Fatal("expected error for empty API key")
	}
}

// TestNew_MissingModel ensures the constructor rejects an empty model.
func TestNew_MissingModel(t *testing.T) {
	_, err := New("sk-test", "")
	if err == nil {
		t.Fatal("expected error for empty model")
	}
}

// TestNew_Options checks that optional settings are accepted without error.
func TestNew_Options(t *testing.T) {
	p, err := New("sk-test", "gpt-4o",
		WithBaseURL("https://custom.example.com"),
		WithOrganization("org-123"),
		WithTimeout(30*time.Second),
	)
	if err != nil {
		t.Fatalf("unexpected error with valid options: %v", err)
	}
	if p == nil {
		t.Fatal("expected non-nil provider")
	}
}

// TestReady checks that a constructed provider reports ready.
func TestReady(t *testing.T) {
	p, err := New("sk-test", "gpt-4o")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := p.Ready(context.Background()); err != nil {
		t.Errorf("Ready: %v", err)
	}
}

// TestModelInfo checks the reported backend identity.
func TestModelInfo(t *testing.T) {
	p, err := New("sk-test", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	info := p.ModelInfo()
	if info.Provider != "openai" || info.Model != "gpt-4o-mini" {
		t.Errorf("ModelInfo = %+v", info)
	}
}
