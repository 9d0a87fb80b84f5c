package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/semi-dlc/flowt-bb/internal/agent"
	"github.com/semi-dlc/flowt-bb/internal/api/respond"
	"github.com/semi-dlc/flowt-bb/internal/model"
)

// Chatter runs one chat turn.
type Chatter interface {
	Chat(ctx context.Context, in agent.ChatInput) (*agent.ChatResult, error)
}

type ChatHandler struct {
	agent Chatter
	log   zerolog.Logger
}

func NewChatHandler(a Chatter, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{agent: a, log: log}
}

type chatRequest struct {
	Message             string             `json:"message"`
	ConversationHistory []model.Turn       `json:"conversationHistory"`
	Attachments         []agent.Attachment `json:"attachments"`
	Model               *string            `json:"model"`
	Temperature         *float64           `json:"temperature"`
	MaxTokens           *int               `json:"maxTokens"`
	SystemPrompt        *string            `json:"systemPrompt"`
}

// Chat POST /freight-ai-agent
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn().Err(err).Msg("undecodable chat body")
		respond.WriteInternalError(w, agent.MsgGeneric)
		return
	}

	res, err := h.agent.Chat(r.Context(), agent.ChatInput{
		Message:     req.Message,
		History:     req.ConversationHistory,
		Attachments: req.Attachments,
		Settings: agent.Settings{
			Model:        req.Model,
			Temperature:  req.Temperature,
			MaxTokens:    req.MaxTokens,
			SystemPrompt: req.SystemPrompt,
		},
		AuthHeader: r.Header.Get("Authorization"),
	})
	if err != nil {
		var ue *agent.UserError
		switch {
		case errors.Is(err, agent.ErrEmptyMessage):
			h.log.Warn().Msg("chat body without message")
			respond.WriteInternalError(w, agent.MsgGeneric)
		case errors.As(err, &ue):
			respond.WriteInternalError(w, ue.Message)
		default:
			h.log.Error().Err(err).Msg("chat failed")
			respond.WriteInternalError(w, agent.MsgGeneric)
		}
		return
	}
	respond.WriteJSON(w, http.StatusOK, res)
}
