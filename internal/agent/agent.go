package agent

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/semi-dlc/flowt-bb/internal/auth"
	"github.com/semi-dlc/flowt-bb/internal/completion"
	"github.com/semi-dlc/flowt-bb/internal/metrics"
	"github.com/semi-dlc/flowt-bb/internal/prompt"
	"github.com/semi-dlc/flowt-bb/internal/retriever"
	"github.com/semi-dlc/flowt-bb/internal/services"
	"github.com/semi-dlc/flowt-bb/internal/tools"
)

// ErrEmptyMessage is returned for a blank chat message.
var ErrEmptyMessage = stderrors.New("message is required")

// Options are the completion defaults used when no developer override applies.
type Options struct {
	DefaultModel       string
	DefaultTemperature float64
	DefaultMaxTokens   int
}

// FunctionResult reports a listing created by a tool call.
type FunctionResult struct {
	Success bool        `json:"success"`
	Type    string      `json:"type"`
	Data    interface{} `json:"data"`
}

// ChatResult is the answer to one chat turn.
type ChatResult struct {
	Response       string          `json:"response"`
	FunctionResult *FunctionResult `json:"functionResult,omitempty"`
}

// Agent answers chat turns: it retrieves market context, asks the model,
// and fulfils the first tool call the model makes.
type Agent struct {
	retriever *retriever.Retriever
	completer completion.Completer
	authn     auth.Authenticator
	listings  *services.ListingService
	caps      *services.CapabilityService
	opts      Options
	log       zerolog.Logger
}

func New(r *retriever.Retriever, c completion.Completer, a auth.Authenticator, l *services.ListingService, caps *services.CapabilityService, opts Options, log zerolog.Logger) *Agent {
	return &Agent{retriever: r, completer: c, authn: a, listings: l, caps: caps, opts: opts, log: log}
}

// Chat runs one turn. Errors other than ErrEmptyMessage are *UserError.
func (a *Agent) Chat(ctx context.Context, in ChatInput) (*ChatResult, error) {
	if strings.TrimSpace(in.Message) == "" {
		return nil, ErrEmptyMessage
	}
	caller := &caller{header: in.AuthHeader, authn: a.authn}

	params := a.settingsFor(ctx, caller, in.Settings)
	block := a.retriever.Retrieve(ctx, in.Message)

	system := params.systemPrompt
	if system == "" {
		var err error
		system, err = prompt.Default(prompt.Data{Context: block.Text, BookingCount: block.BookingCount})
		if err != nil {
			return nil, a.fail(userError(MsgGeneric, errors.Wrap(err, "render system prompt")))
		}
	}

	messages := make([]completion.Message, 0, MaxHistoryTurns+2)
	messages = append(messages, completion.Message{Role: completion.RoleSystem, Content: system})
	messages = append(messages, historyMessages(in.History)...)
	messages = append(messages, completion.Message{Role: completion.RoleUser, Content: userContent(in.Message, in.Attachments)})

	a.log.Info().
		Str("model", params.model).
		Int("context_length", len(block.Text)).
		Int("messages", len(messages)).
		Msg("calling completion API")

	req := completion.BuildRequest(params.model, params.temperature, params.maxTokens, messages, tools.Definitions())
	resp, err := a.completer.Complete(ctx, req)
	if err != nil {
		return nil, a.fail(upstreamError(err))
	}
	if len(resp.Choices) == 0 {
		return nil, a.fail(userError(MsgUnavailable, errors.New("completion response has no choices")))
	}

	msg := resp.Choices[0].Message
	if len(msg.ToolCalls) == 0 {
		metrics.ChatRequestsTotal.WithLabelValues("text").Inc()
		return &ChatResult{Response: msg.Text()}, nil
	}

	if len(msg.ToolCalls) > 1 {
		a.log.Warn().Int("tool_calls", len(msg.ToolCalls)).Msg("only the first tool call is fulfilled")
	}
	res, uerr := a.execute(ctx, caller, msg.ToolCalls[0])
	if uerr != nil {
		return nil, a.fail(uerr)
	}
	metrics.ChatRequestsTotal.WithLabelValues("tool").Inc()
	return res, nil
}

// settingsFor applies overrides only when the caller is an authenticated developer.
func (a *Agent) settingsFor(ctx context.Context, c *caller, s Settings) resolved {
	base := resolved{
		model:       a.opts.DefaultModel,
		temperature: a.opts.DefaultTemperature,
		maxTokens:   a.opts.DefaultMaxTokens,
	}
	if s.Empty() {
		return base
	}
	user, err := c.user(ctx)
	if err != nil {
		a.log.Info().Err(err).Msg("ignoring settings overrides from unauthenticated caller")
		return base
	}
	dev, err := a.caps.IsDeveloper(ctx, user.ID)
	if err != nil {
		a.log.Warn().Err(err).Str("user_id", user.ID).Msg("developer lookup failed; ignoring overrides")
		return base
	}
	if !dev {
		a.log.Info().Str("user_id", user.ID).Msg("ignoring settings overrides from non-developer")
		return base
	}
	return base.apply(s)
}

// execute fulfils one tool call. Authentication precedes any store access.
func (a *Agent) execute(ctx context.Context, c *caller, call completion.ToolCall) (*ChatResult, *UserError) {
	name := call.Function.Name
	a.log.Info().Str("function", name).Msg("model requested function call")

	user, err := c.user(ctx)
	if err != nil {
		if stderrors.Is(err, auth.ErrMissingToken) {
			return nil, userError(MsgAuthRequired, err)
		}
		return nil, userError(MsgInvalidToken, err)
	}

	switch name {
	case tools.CreateOfferName:
		args, err := tools.ParseOfferArgs(call.Function.Arguments)
		if err != nil {
			return nil, userError(MsgGeneric, errors.Wrap(err, msgMalformedToolArg))
		}
		offer, err := a.listings.CreateOffer(ctx, user.ID, services.SourceChat, args)
		if err != nil {
			return nil, userError(MsgOfferFailed, errors.Wrap(err, "insert offer"))
		}
		return &ChatResult{
			Response:       "Database entry created successfully! Transport offer has been saved.",
			FunctionResult: &FunctionResult{Success: true, Type: "offer", Data: offer},
		}, nil

	case tools.CreateRequestName:
		args, err := tools.ParseRequestArgs(call.Function.Arguments)
		if err != nil {
			return nil, userError(MsgGeneric, errors.Wrap(err, msgMalformedToolArg))
		}
		request, err := a.listings.CreateRequest(ctx, user.ID, services.SourceChat, args)
		if err != nil {
			return nil, userError(MsgRequestFailed, errors.Wrap(err, "insert request"))
		}
		return &ChatResult{
			Response:       "Database entry created successfully! Shipping request has been saved.",
			FunctionResult: &FunctionResult{Success: true, Type: "request", Data: request},
		}, nil

	default:
		return nil, userError(MsgGeneric, errors.Errorf("%s: %q", msgUnknownFunction, name))
	}
}

// upstreamError maps a completion failure to its client-facing message.
func upstreamError(err error) *UserError {
	var se *completion.StatusError
	switch {
	case stderrors.As(err, &se) && se.Status == http.StatusTooManyRequests:
		return userError(MsgRateLimited, err)
	case stderrors.As(err, &se) && se.Status == http.StatusPaymentRequired:
		return userError(MsgPaymentRequired, err)
	case stderrors.Is(err, completion.ErrNotConfigured):
		return userError(MsgGeneric, errors.WithStack(err))
	default:
		return userError(MsgUnavailable, errors.WithStack(err))
	}
}

func (a *Agent) fail(err *UserError) error {
	metrics.ChatRequestsTotal.WithLabelValues("error").Inc()
	a.log.Error().Stack().Err(err.Err).Str("client_message", err.Message).Msg("chat turn failed")
	return err
}

// caller resolves the request's bearer token at most once.
type caller struct {
	header   string
	authn    auth.Authenticator
	resolved bool
	u        *auth.User
	err      error
}

func (c *caller) user(ctx context.Context) (*auth.User, error) {
	if c.resolved {
		return c.u, c.err
	}
	c.resolved = true
	token, err := auth.ParseBearer(c.header)
	if err != nil {
		c.err = err
		return nil, err
	}
	c.u, c.err = c.authn.Authenticate(ctx, token)
	return c.u, c.err
}
