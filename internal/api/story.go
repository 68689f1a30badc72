package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/TETEnot/plotweaver/internal/story"
)

// Story target defaults match the manager's intent: a novel-length story
// and conventionally sized chapters.
const (
	defaultStoryTarget   = 50000
	defaultChapterTarget = 3000
)

type createStoryRequest struct {
	Title           string `json:"title" validate:"required"`
	Genre           string `json:"genre"`
	Summary         string `json:"summary"`
	TargetWordCount int    `json:"target_word_count" validate:"omitempty,min=1"`
}

func (s *Server) handleCreateStory(w http.ResponseWriter, r *http.Request) {
	var req createStoryRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.TargetWordCount == 0 {
		req.TargetWordCount = defaultStoryTarget
	}

	id, err := s.stories.CreateStory(req.Title, req.Genre, req.Summary, req.TargetWordCount)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"story_id": id,
		"message":  fmt.Sprintf("story %q created", req.Title),
	})
}

func (s *Server) handleListStories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"stories": s.stories.Stories()})
}

func (s *Server) handleGetStory(w http.ResponseWriter, r *http.Request) {
	st, err := s.stories.Story(r.PathValue("id"))
	if err != nil {
		writeStoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

type addChapterRequest struct {
	Title           string `json:"title" validate:"required"`
	Summary         string `json:"summary"`
	TargetWordCount int    `json:"target_word_count" validate:"omitempty,min=1"`
}

func (s *Server) handleAddChapter(w http.ResponseWriter, r *http.Request) {
	var req addChapterRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.TargetWordCount == 0 {
		req.TargetWordCount = defaultChapterTarget
	}

	id, err := s.stories.AddChapter(r.PathValue("id"), req.Title, req.Summary, req.TargetWordCount)
	if err != nil {
		writeStoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"chapter_id": id,
		"message":    fmt.Sprintf("chapter %q added", req.Title),
	})
}

type addSceneRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Characters  []string `json:"characters"`
	Purpose     string   `json:"purpose"`
	Content     string   `json:"content"`
	Notes       string   `json:"notes"`
	PlotThreads []string `json:"plot_threads"`
}

func (s *Server) handleAddScene(w http.ResponseWriter, r *http.Request) {
	var req addSceneRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	chapterNumber, err := strconv.Atoi(r.PathValue("chapterNumber"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "chapter number must be an integer")
		return
	}

	id, err := s.stories.AddScene(r.PathValue("id"), chapterNumber, story.Scene{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Characters:  req.Characters,
		Purpose:     req.Purpose,
		Content:     req.Content,
		Notes:       req.Notes,
		PlotThreads: req.PlotThreads,
	})
	if err != nil {
		writeStoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"scene_id": id,
		"message":  fmt.Sprintf("scene %q added", req.Name),
	})
}

type sceneContentRequest struct {
	Content string `json:"content" validate:"required"`
}

func (s *Server) handleUpdateSceneContent(w http.ResponseWriter, r *http.Request) {
	var req sceneContentRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	chapterNumber, err := strconv.Atoi(r.PathValue("chapterNumber"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "chapter number must be an integer")
		return
	}
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "scene index must be an integer")
		return
	}

	if err := s.stories.UpdateSceneContent(r.PathValue("id"), chapterNumber, index, req.Content); err != nil {
		writeStoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "scene content updated"})
}

// handleSuggestions combines writing suggestions with world consistency
// diagnostics, so one call surfaces everything worth fixing next.
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := s.stories.WritingSuggestions(r.PathValue("id"))
	if err != nil {
		writeStoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"suggestions":        suggestions,
		"consistency_issues": s.world.CheckConsistency(),
	})
}

// writeStoryError maps story manager errors onto HTTP statuses. Missing
// stories, chapters and scenes intentionally report 500, not 404 — only
// character lookups get the distinct not-found status.
func writeStoryError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, err.Error())
}
