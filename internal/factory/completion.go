package factory

import (
	"github.com/rs/zerolog"

	"github.com/semi-dlc/flowt-bb/internal/completion"
	"github.com/semi-dlc/flowt-bb/internal/config"
)

// NewCompletionClient builds the upstream chat-completion client. A missing API key
// is reported per request, not at startup.
func NewCompletionClient(cfg *config.Config, log zerolog.Logger) *completion.Client {
	if cfg.OpenAIAPIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY not set; chat requests will fail until configured")
	}
	return completion.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.UpstreamTimeout(), log)
}
