package api

import "net/http"

// handleDashboard aggregates store counts into one overview payload.
func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"world_stats": map[string]any{
			"settings_count":  s.world.SettingCount(),
			"timeline_events": s.world.EventCount(),
			"active_plots":    s.world.ActiveThreadCount(),
		},
		"story_stats": map[string]any{
			"total_stories":  s.stories.StoryCount(),
			"total_chapters": s.stories.ChapterCount(),
			"total_words":    s.stories.TotalWordCount(),
		},
		"character_stats": map[string]any{
			"total_characters": s.characters.Count(),
		},
	})
}

func (s *Server) handleConversationHistory(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"recent_conversation": s.characters.RecentConversation(10),
		"total_messages":      s.characters.ConversationLen(),
	})
}

func (s *Server) handleClearConversation(w http.ResponseWriter, _ *http.Request) {
	s.characters.ClearConversation()
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "conversation history cleared",
	})
}
