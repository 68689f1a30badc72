package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/TETEnot/plotweaver/internal/character"
)

type characterRequest struct {
	Name          string            `json:"name" validate:"required"`
	Description   string            `json:"description" validate:"required"`
	Traits        []string          `json:"traits"`
	Background    string            `json:"background"`
	Relationships map[string]string `json:"relationships"`
}

func (s *Server) handleAddCharacter(w http.ResponseWriter, r *http.Request) {
	var req characterRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.characters.Add(req.Name, req.Description, req.Traits, req.Background, req.Relationships); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("character %q added", req.Name),
	})
}

func (s *Server) handleListCharacters(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"characters": s.characters.All()})
}

func (s *Server) handleGetCharacter(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	p, err := s.characters.Get(name)
	if err != nil {
		writeCharacterError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"name": name, "character": p})
}

type characterUpdateRequest struct {
	Description   *string           `json:"description"`
	Traits        []string          `json:"traits"`
	Background    *string           `json:"background"`
	Relationships map[string]string `json:"relationships"`
}

func (s *Server) handleUpdateCharacter(w http.ResponseWriter, r *http.Request) {
	var req characterUpdateRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	name := r.PathValue("name")
	err := s.characters.Update(name, character.ProfileUpdate{
		Description:   req.Description,
		Traits:        req.Traits,
		Background:    req.Background,
		Relationships: req.Relationships,
	})
	if err != nil {
		writeCharacterError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("character %q updated", name),
	})
}

func (s *Server) handleDeleteCharacter(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := s.characters.Remove(name); err != nil {
		writeCharacterError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("character %q deleted", name),
	})
}

type developmentRequest struct {
	Note string `json:"note" validate:"required"`
}

func (s *Server) handleAddDevelopment(w http.ResponseWriter, r *http.Request) {
	var req developmentRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	name := r.PathValue("name")
	if err := s.characters.AddDevelopment(name, req.Note); err != nil {
		writeCharacterError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("development note recorded for %q", name),
	})
}

// handleSearchCharacters serves fuzzy name search (?name=) and exact trait
// search (?trait=). With both parameters the name search wins.
func (s *Server) handleSearchCharacters(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("name"); name != "" {
		writeJSON(w, http.StatusOK, map[string]any{"matches": s.characters.SearchName(name)})
		return
	}
	if trait := r.URL.Query().Get("trait"); trait != "" {
		writeJSON(w, http.StatusOK, map[string]any{"characters": s.characters.SearchByTrait(trait)})
		return
	}
	writeError(w, http.StatusBadRequest, "query parameter name or trait is required")
}

func (s *Server) handleCharacterStatistics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.characters.Statistics())
}

// writeCharacterError maps character store errors onto HTTP statuses:
// a missing character is the one lookup that reports 404.
func writeCharacterError(w http.ResponseWriter, err error) {
	if errors.Is(err, character.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
