package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestExportStory(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	_, body := ts.do(t, http.MethodPost, "/stories",
		`{"title":"The Glass Orchard","genre":"fantasy","summary":"A gardener grows memories."}`)
	storyID := body["story_id"].(string)
	ts.do(t, http.MethodPost, "/stories/"+storyID+"/chapters", `{"title":"Seeds"}`)
	ts.do(t, http.MethodPost, "/stories/"+storyID+"/chapters/1/scenes",
		`{"name":"Opening"}`)
	ts.do(t, http.MethodPost, "/stories/"+storyID+"/chapters/1/scenes",
		`{"name":"The Gate","content":"The gate stood **open**."}`)

	rec := httptest.NewRecorder()
	ts.mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stories/"+storyID+"/export", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("Content-Type = %q", ct)
	}

	html := rec.Body.String()
	for _, want := range []string{
		"<h1>The Glass Orchard</h1>",
		"<em>fantasy</em>",
		"<h2>Chapter 1: Seeds</h2>",
		"<h3>Opening</h3>",
		"<em>(not yet written)</em>",
		"<strong>open</strong>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("export missing %q in:\n%s", want, html)
		}
	}

	rec = httptest.NewRecorder()
	ts.mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stories/story_9_0/export", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("missing story export: status = %d", rec.Code)
	}
}
