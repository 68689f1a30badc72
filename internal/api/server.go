// Package api exposes PlotWeaver's HTTP surface: world building, story and
// chapter management, character memory, and the generation endpoints.
//
// Error mapping is uniform: validation failures return 400, a missing
// character returns 404, an unavailable generation backend returns 503, and
// everything else returns 500 with the {"error": ...} body.
package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/TETEnot/plotweaver/internal/character"
	"github.com/TETEnot/plotweaver/internal/compose"
	"github.com/TETEnot/plotweaver/internal/story"
	"github.com/TETEnot/plotweaver/internal/world"
)

// Server holds the handler dependencies. It carries no per-request state;
// one instance serves all requests.
type Server struct {
	world      *world.Manager
	stories    *story.Manager
	characters *character.Manager
	facade     *compose.Facade
	validate   *validator.Validate
}

// NewServer wires the managers and the generation façade into a Server.
func NewServer(w *world.Manager, st *story.Manager, c *character.Manager, f *compose.Facade) *Server {
	return &Server{
		world:      w,
		stories:    st,
		characters: c,
		facade:     f,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Register adds all application routes to mux. Health and metrics routes
// are registered elsewhere.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleRoot)

	mux.HandleFunc("POST /world/settings", s.handleAddSetting)
	mux.HandleFunc("GET /world/settings", s.handleListSettings)
	mux.HandleFunc("POST /world/timeline", s.handleAddEvent)
	mux.HandleFunc("GET /world/timeline", s.handleListTimeline)
	mux.HandleFunc("POST /world/plots", s.handleAddThread)
	mux.HandleFunc("GET /world/plots", s.handleListThreads)

	mux.HandleFunc("POST /stories", s.handleCreateStory)
	mux.HandleFunc("GET /stories", s.handleListStories)
	mux.HandleFunc("GET /stories/{id}", s.handleGetStory)
	mux.HandleFunc("POST /stories/{id}/chapters", s.handleAddChapter)
	mux.HandleFunc("POST /stories/{id}/chapters/{chapterNumber}/scenes", s.handleAddScene)
	mux.HandleFunc("PUT /stories/{id}/chapters/{chapterNumber}/scenes/{index}", s.handleUpdateSceneContent)
	mux.HandleFunc("GET /stories/{id}/suggestions", s.handleSuggestions)
	mux.HandleFunc("GET /stories/{id}/export", s.handleExportStory)

	mux.HandleFunc("POST /characters", s.handleAddCharacter)
	mux.HandleFunc("GET /characters", s.handleListCharacters)
	mux.HandleFunc("GET /characters/search", s.handleSearchCharacters)
	mux.HandleFunc("GET /characters/statistics", s.handleCharacterStatistics)
	mux.HandleFunc("GET /characters/{name}", s.handleGetCharacter)
	mux.HandleFunc("PUT /characters/{name}", s.handleUpdateCharacter)
	mux.HandleFunc("DELETE /characters/{name}", s.handleDeleteCharacter)
	mux.HandleFunc("POST /characters/{name}/development", s.handleAddDevelopment)

	mux.HandleFunc("POST /generate", s.handleGenerate)
	mux.HandleFunc("POST /generate/advanced", s.handleGenerateAdvanced)
	mux.HandleFunc("POST /generate/multiple", s.handleGenerateMultiple)
	mux.HandleFunc("GET /genres", s.handleGenres)

	mux.HandleFunc("GET /memory/conversation", s.handleConversationHistory)
	mux.HandleFunc("DELETE /memory/conversation", s.handleClearConversation)
	mux.HandleFunc("GET /dashboard", s.handleDashboard)
}

// handleRoot is the welcome endpoint, reporting backend readiness.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := s.facade.ModelInfo()
	ready := s.facade.Ready(r.Context()) == nil

	model := "model not loaded"
	if ready {
		model = info.Provider + "/" + info.Model
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Welcome to the PlotWeaver API",
		"status":      "running",
		"model_ready": ready,
		"model":       model,
	})
}
