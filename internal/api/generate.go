package api

import (
	"errors"
	"net/http"

	"github.com/TETEnot/plotweaver/internal/compose"
)

type generateRequest struct {
	Prompt         string   `json:"prompt" validate:"required"`
	Genre          string   `json:"genre"`
	CharacterNames []string `json:"character_names"`
	MaxTokens      int      `json:"max_tokens" validate:"omitempty,min=1,max=4096"`
	Temperature    float64  `json:"temperature" validate:"omitempty,min=0,max=2"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.facade.Generate(r.Context(), compose.Request{
		Prompt:         req.Prompt,
		Genre:          req.Genre,
		CharacterNames: req.CharacterNames,
		MaxTokens:      req.MaxTokens,
		Temperature:    req.Temperature,
	})
	if err != nil {
		writeGenerateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"response":              res.Response,
		"genre":                 res.Genre,
		"character_memory_used": res.CharacterMemoryUsed,
		"model":                 res.Model.Provider + "/" + res.Model.Model,
	})
}

type advancedGenerateRequest struct {
	Prompt             string   `json:"prompt" validate:"required"`
	StoryID            string   `json:"story_id"`
	IncludeChapter     bool     `json:"include_chapter"`
	UseWorldContext    bool     `json:"use_world_context"`
	UseCharacterMemory bool     `json:"use_character_memory"`
	CharacterNames     []string `json:"character_names"`
	MaxTokens          int      `json:"max_tokens" validate:"omitempty,min=1,max=4096"`
	Temperature        float64  `json:"temperature" validate:"omitempty,min=0,max=2"`
}

func (s *Server) handleGenerateAdvanced(w http.ResponseWriter, r *http.Request) {
	var req advancedGenerateRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.facade.GenerateAdvanced(r.Context(), compose.AdvancedRequest{
		Prompt:             req.Prompt,
		StoryID:            req.StoryID,
		IncludeChapter:     req.IncludeChapter,
		UseWorldContext:    req.UseWorldContext,
		UseCharacterMemory: req.UseCharacterMemory,
		CharacterNames:     req.CharacterNames,
		MaxTokens:          req.MaxTokens,
		Temperature:        req.Temperature,
	})
	if err != nil {
		writeGenerateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"response":     res.Response,
		"context_used": res.ContextUsed,
		"model":        res.Model.Provider + "/" + res.Model.Model,
	})
}

type multipleGenerateRequest struct {
	Prompt         string   `json:"prompt" validate:"required"`
	Genre          string   `json:"genre"`
	CharacterNames []string `json:"character_names"`
	NumVariations  int      `json:"num_variations" validate:"omitempty,min=1,max=5"`
}

func (s *Server) handleGenerateMultiple(w http.ResponseWriter, r *http.Request) {
	var req multipleGenerateRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.NumVariations == 0 {
		req.NumVariations = 3
	}

	variations, err := s.facade.GenerateVariations(r.Context(), compose.Request{
		Prompt:         req.Prompt,
		Genre:          req.Genre,
		CharacterNames: req.CharacterNames,
	}, req.NumVariations)
	if err != nil {
		writeGenerateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"variations":       variations,
		"genre":            compose.TemplateFor(req.Genre).Key,
		"total_variations": len(variations),
	})
}

func (s *Server) handleGenres(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"genres":        compose.Genres(),
		"display_names": compose.GenreDisplayNames(),
	})
}

// writeGenerateError maps façade errors onto HTTP statuses: an unavailable
// backend reports 503, everything else 500.
func writeGenerateError(w http.ResponseWriter, err error) {
	if errors.Is(err, compose.ErrBackendUnavailable) {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
