package parsers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Addyshimla/splashark/internal/bot/model"
)

// basic safety limits to avoid pathological model outputs
const (
	maxContentLen = 64 * 1024 // 64KB
	maxHashtags   = 30
)

// stripCodeFence removes a surrounding Markdown code fence, with or without
// a language tag, since models routinely wrap JSON despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		// drop the language tag line (e.g. "json")
		first := strings.TrimSpace(s[:i])
		if first == "" || !strings.ContainsAny(first, "{}") {
			s = s[i+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ParseCaption parses the caption model's raw output into a CaptionPayload.
// Absent keys decode to their zero values; the caller decides fallbacks.
func ParseCaption(content string) (*model.CaptionPayload, error) {
	if len(content) > maxContentLen {
		return nil, fmt.Errorf("caption response too large (%d bytes)", len(content))
	}

	cleaned := stripCodeFence(content)
	if cleaned == "" {
		return nil, fmt.Errorf("caption response is empty")
	}

	var payload model.CaptionPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("caption response is not valid JSON: %w", err)
	}

	if len(payload.Hashtags) > maxHashtags {
		payload.Hashtags = payload.Hashtags[:maxHashtags]
	}
	return &payload, nil
}
