package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/TETEnot/plotweaver/internal/story"
)

// exporter converts the assembled story markdown to HTML. Scene content is
// authored as plain prose, so hard wraps become line breaks.
var exporter = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// handleExportStory renders a whole story to a standalone HTML document:
// title page, chapter headings, and the drafted scene content in order.
// Scenes without content appear as placeholders so the export shows the
// story's true state.
func (s *Server) handleExportStory(w http.ResponseWriter, r *http.Request) {
	st, err := s.stories.Story(r.PathValue("id"))
	if err != nil {
		writeStoryError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := exporter.Convert([]byte(storyMarkdown(st)), &buf); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("rendering story: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// storyMarkdown assembles the story into one markdown document.
func storyMarkdown(st *story.Story) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", st.Title)
	if st.Genre != "" {
		fmt.Fprintf(&sb, "*%s*\n\n", st.Genre)
	}
	if st.Summary != "" {
		fmt.Fprintf(&sb, "%s\n\n", st.Summary)
	}
	fmt.Fprintf(&sb, "Progress: %d / %d characters\n\n", st.CurrentWordCount, st.TargetWordCount)

	for _, ch := range st.Chapters {
		fmt.Fprintf(&sb, "## Chapter %d: %s\n\n", ch.Number, ch.Title)
		if ch.Summary != "" {
			fmt.Fprintf(&sb, "> %s\n\n", ch.Summary)
		}
		for _, sc := range ch.Scenes {
			fmt.Fprintf(&sb, "### %s\n\n", sc.Name)
			if sc.Content != "" {
				sb.WriteString(sc.Content)
				sb.WriteString("\n\n")
			} else {
				sb.WriteString("*(not yet written)*\n\n")
			}
		}
	}
	return sb.String()
}
