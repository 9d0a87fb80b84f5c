package completion

import "strings"

// TokenParam names the request field that carries the output token limit.
type TokenParam string

const (
	MaxTokens           TokenParam = "max_tokens"
	MaxCompletionTokens TokenParam = "max_completion_tokens"
)

// Capabilities describes which sampling parameters a model family accepts.
type Capabilities struct {
	TokenParam          TokenParam
	SupportsTemperature bool
}

var legacyCapabilities = Capabilities{TokenParam: MaxTokens, SupportsTemperature: true}

// capabilityTable is matched by model-name prefix, first hit wins.
var capabilityTable = []struct {
	prefix string
	caps   Capabilities
}{
	{"gpt-5", Capabilities{TokenParam: MaxCompletionTokens}},
	{"o3", Capabilities{TokenParam: MaxCompletionTokens}},
	{"o4", Capabilities{TokenParam: MaxCompletionTokens}},
}

// CapabilitiesFor looks up the parameter surface of model.
// Unknown models get max_tokens plus temperature.
func CapabilitiesFor(model string) Capabilities {
	for _, row := range capabilityTable {
		if strings.HasPrefix(model, row.prefix) {
			return row.caps
		}
	}
	return legacyCapabilities
}

// OtherFamily labels models outside the capability table.
const OtherFamily = "other"

// Family maps model to a bounded label: the matching table prefix or OtherFamily.
// Metrics use it because developers may name any model.
func Family(model string) string {
	for _, row := range capabilityTable {
		if strings.HasPrefix(model, row.prefix) {
			return row.prefix
		}
	}
	return OtherFamily
}

// BuildRequest assembles a chat-completion request, placing the token limit
// in the field the model expects and dropping temperature where unsupported.
func BuildRequest(model string, temperature float64, maxTokens int, messages []Message, tools []Tool) Request {
	req := Request{
		Model:    model,
		Messages: messages,
		Tools:    tools,
	}
	if len(tools) > 0 {
		req.ToolChoice = "auto"
	}
	caps := CapabilitiesFor(model)
	limit := maxTokens
	switch caps.TokenParam {
	case MaxCompletionTokens:
		req.MaxCompletionTokens = &limit
	default:
		req.MaxTokens = &limit
	}
	if caps.SupportsTemperature {
		t := temperature
		req.Temperature = &t
	}
	return req
}
