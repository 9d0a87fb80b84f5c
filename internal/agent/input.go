package agent

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/semi-dlc/flowt-bb/internal/completion"
	"github.com/semi-dlc/flowt-bb/internal/model"
	"github.com/semi-dlc/flowt-bb/internal/prompt"
)

// MaxHistoryTurns bounds the conversation history forwarded upstream.
const MaxHistoryTurns = 10

// Override bounds for developer settings.
const (
	MinTemperature = 0.0
	MaxTemperature = 2.0
	MinMaxTokens   = 100
	MaxMaxTokens   = 4000
)

// Attachment is a client-supplied file, with Data usually a data: URL.
type Attachment struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// Settings are optional per-request completion overrides. They only take
// effect for developers.
type Settings struct {
	Model        *string
	Temperature  *float64
	MaxTokens    *int
	SystemPrompt *string
}

// Empty reports whether no override was supplied.
func (s Settings) Empty() bool {
	return s.Model == nil && s.Temperature == nil && s.MaxTokens == nil && s.SystemPrompt == nil
}

// ChatInput is one inbound chat turn.
type ChatInput struct {
	Message     string
	History     []model.Turn
	Attachments []Attachment
	Settings    Settings
	// AuthHeader is the raw Authorization header, possibly empty.
	AuthHeader string
}

// resolved holds the effective completion parameters of a turn.
type resolved struct {
	model        string
	temperature  float64
	maxTokens    int
	systemPrompt string
}

// apply overlays s onto r, clamping numeric values into their accepted ranges.
func (r resolved) apply(s Settings) resolved {
	if s.Model != nil && strings.TrimSpace(*s.Model) != "" {
		r.model = strings.TrimSpace(*s.Model)
	}
	if s.Temperature != nil {
		r.temperature = lo.Clamp(*s.Temperature, MinTemperature, MaxTemperature)
	}
	if s.MaxTokens != nil {
		r.maxTokens = lo.Clamp(*s.MaxTokens, MinMaxTokens, MaxMaxTokens)
	}
	if s.SystemPrompt != nil && strings.TrimSpace(*s.SystemPrompt) != "" {
		r.systemPrompt = truncateRunes(*s.SystemPrompt, prompt.MaxCustomLength)
	}
	return r
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// historyMessages keeps user and assistant turns and forwards the newest MaxHistoryTurns.
func historyMessages(turns []model.Turn) []completion.Message {
	kept := lo.Filter(turns, func(t model.Turn, _ int) bool {
		return t.Role == completion.RoleUser || t.Role == completion.RoleAssistant
	})
	kept = lo.Subset(kept, -MaxHistoryTurns, MaxHistoryTurns)
	return lo.Map(kept, func(t model.Turn, _ int) completion.Message {
		return completion.Message{Role: t.Role, Content: t.Content}
	})
}

// userContent is the plain message, or a multi-part array when attachments are present.
// Images become image_url parts; PDFs and document types are noted in the text part.
func userContent(message string, attachments []Attachment) interface{} {
	if len(attachments) == 0 {
		return message
	}
	text := message
	var images []completion.ContentPart
	for _, a := range attachments {
		switch {
		case strings.HasPrefix(a.Type, "image/"):
			images = append(images, completion.ContentPart{
				Type:     "image_url",
				ImageURL: &completion.ImageURL{URL: a.Data},
			})
		case a.Type == "application/pdf" || strings.Contains(a.Type, "document"):
			text += fmt.Sprintf("\n\n[User uploaded a document: %s]", a.Type)
		}
	}
	return append([]completion.ContentPart{{Type: "text", Text: text}}, images...)
}
