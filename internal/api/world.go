package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/TETEnot/plotweaver/internal/world"
)

type settingRequest struct {
	Name            string            `json:"name" validate:"required"`
	Category        string            `json:"category" validate:"required"`
	Description     string            `json:"description"`
	Details         map[string]string `json:"details"`
	RelatedSettings []string          `json:"related_settings"`
}

func (s *Server) handleAddSetting(w http.ResponseWriter, r *http.Request) {
	var req settingRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cat := world.SettingCategory(req.Category)
	if !cat.IsValid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unrecognised category %q", req.Category))
		return
	}

	now := time.Now()
	setting := world.Setting{
		ID:              fmt.Sprintf("setting_%d", s.world.SettingCount()+1),
		Name:            req.Name,
		Category:        cat,
		Description:     req.Description,
		Details:         req.Details,
		RelatedSettings: req.RelatedSettings,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.world.AddSetting(setting); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"setting_id": setting.ID,
		"message":    fmt.Sprintf("world setting %q added", setting.Name),
	})
}

func (s *Server) handleListSettings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"settings": s.world.Settings()})
}

type timelineEventRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`

	// Year is a pointer so that year 0 passes the required check.
	Year              *int     `json:"year" validate:"required"`
	Month             int      `json:"month"`
	Day               int      `json:"day"`
	Importance        int      `json:"importance" validate:"omitempty,min=1,max=5"`
	RelatedCharacters []string `json:"related_characters"`
	RelatedSettings   []string `json:"related_settings"`
	Consequences      []string `json:"consequences"`
}

func (s *Server) handleAddEvent(w http.ResponseWriter, r *http.Request) {
	var req timelineEventRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Importance == 0 {
		req.Importance = 1
	}

	event := world.Event{
		ID:                fmt.Sprintf("event_%d", s.world.EventCount()+1),
		Name:              req.Name,
		Description:       req.Description,
		Year:              *req.Year,
		Month:             req.Month,
		Day:               req.Day,
		Importance:        req.Importance,
		RelatedCharacters: req.RelatedCharacters,
		RelatedSettings:   req.RelatedSettings,
		Consequences:      req.Consequences,
	}
	if err := s.world.AddEvent(event); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"event_id": event.ID,
		"message":  fmt.Sprintf("timeline event %q added", event.Name),
	})
}

func (s *Server) handleListTimeline(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"timeline": s.world.EventsByYear()})
}

type plotThreadRequest struct {
	Name              string   `json:"name" validate:"required"`
	Description       string   `json:"description"`
	SetupEvents       []string `json:"setup_events"`
	PayoffEvents      []string `json:"payoff_events"`
	Status            string   `json:"status"`
	Importance        int      `json:"importance" validate:"omitempty,min=1,max=5"`
	RelatedCharacters []string `json:"related_characters"`
}

func (s *Server) handleAddThread(w http.ResponseWriter, r *http.Request) {
	var req plotThreadRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	status := world.ThreadActive
	if req.Status != "" {
		status = world.ThreadStatus(req.Status)
		if !status.IsValid() {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unrecognised status %q", req.Status))
			return
		}
	}
	if req.Importance == 0 {
		req.Importance = 1
	}

	thread := world.Thread{
		ID:                fmt.Sprintf("plot_%d", s.world.ThreadCount()+1),
		Name:              req.Name,
		Description:       req.Description,
		SetupEvents:       req.SetupEvents,
		PayoffEvents:      req.PayoffEvents,
		Status:            status,
		Importance:        req.Importance,
		RelatedCharacters: req.RelatedCharacters,
	}
	if err := s.world.AddThread(thread); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"plot_id": thread.ID,
		"message": fmt.Sprintf("plot thread %q added", thread.Name),
	})
}

func (s *Server) handleListThreads(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"plot_threads": s.world.Threads()})
}
