package mock_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/TETEnot/plotweaver/pkg/provider/llm"
	"github.com/TETEnot/plotweaver/pkg/provider/llm/mock"
)

func TestGenerateCannedDraft(t *testing.T) {
	t.Parallel()

	e := &mock.Engine{}
	resp, err := e.Generate(context.Background(), llm.GenerationRequest{Prompt: "write an opening"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(resp.Text, "[test mode]") {
		t.Errorf("canned draft missing marker:\n%s", resp.Text)
	}
	// The prompt is echoed so callers can inspect the assembled input.
	if !strings.Contains(resp.Text, "write an opening") {
		t.Errorf("canned draft should echo the prompt:\n%s", resp.Text)
	}
}

func TestGenerateConfiguredResponse(t *testing.T) {
	t.Parallel()

	e := &mock.Engine{GenerateResponse: &llm.GenerationResponse{Text: "Once upon a time."}}
	resp, err := e.Generate(context.Background(), llm.GenerationRequest{Prompt: "x"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Text != "Once upon a time." {
		t.Errorf("Text = %q", resp.Text)
	}
}

func TestGenerateErrAndCallRecording(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("boom")
	e := &mock.Engine{GenerateErr: wantErr}

	_, err := e.Generate(context.Background(), llm.GenerationRequest{Prompt: "a", MaxTokens: 42})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Generate: got %v", err)
	}
	if len(e.GenerateCalls) != 1 {
		t.Fatalf("recorded %d calls", len(e.GenerateCalls))
	}
	if e.GenerateCalls[0].Req.MaxTokens != 42 {
		t.Errorf("recorded MaxTokens = %d", e.GenerateCalls[0].Req.MaxTokens)
	}

	e.Reset()
	if len(e.GenerateCalls) != 0 {
		t.Error("Reset should clear recorded calls")
	}
}

func TestReady(t *testing.T) {
	t.Parallel()

	e := &mock.Engine{}
	if err := e.Ready(context.Background()); err != nil {
		t.Errorf("Ready: %v", err)
	}
	e.ReadyErr = llm.ErrNotReady
	if err := e.Ready(context.Background()); !errors.Is(err, llm.ErrNotReady) {
		t.Errorf("Ready: got %v", err)
	}
}
