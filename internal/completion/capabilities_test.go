package completion

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapabilitiesFor(t *testing.T) {
	cases := []struct {
		model string
		param TokenParam
		temp  bool
	}{
		{"gpt-5-2025-08-07", MaxCompletionTokens, false},
		{"gpt-5-mini", MaxCompletionTokens, false},
		{"o3-mini", MaxCompletionTokens, false},
		{"o4-mini", MaxCompletionTokens, false},
		{"gpt-4o", MaxTokens, true},
		{"gpt-4.1-mini", MaxTokens, true},
		{"llama3", MaxTokens, true},
	}
	for _, tc := range cases {
		t.Run(tc.model, func(t *testing.T) {
			caps := CapabilitiesFor(tc.model)
			assert.Equal(t, tc.param, caps.TokenParam)
			assert.Equal(t, tc.temp, caps.SupportsTemperature)
		})
	}
}

func TestFamily_IsBounded(t *testing.T) {
	assert.Equal(t, "gpt-5", Family("gpt-5-2025-08-07"))
	assert.Equal(t, "o3", Family("o3-mini"))
	assert.Equal(t, OtherFamily, Family("gpt-4o"))
	assert.Equal(t, OtherFamily, Family("my-finetune-"+strings.Repeat("x", 64)))
}

func TestBuildRequest_NewerModelOmitsTemperature(t *testing.T) {
	req := BuildRequest("gpt-5-2025-08-07", 0.7, 1500, []Message{{Role: RoleUser, Content: "hi"}}, []Tool{{Type: "function"}})
	b, err := json.Marshal(req)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &body))
	assert.Equal(t, float64(1500), body["max_completion_tokens"])
	assert.NotContains(t, body, "max_tokens")
	assert.NotContains(t, body, "temperature")
	assert.Equal(t, "auto", body["tool_choice"])
}

func TestBuildRequest_LegacyModelSendsTemperature(t *testing.T) {
	req := BuildRequest("gpt-4o", 0.2, 800, nil, nil)
	b, err := json.Marshal(req)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &body))
	assert.Equal(t, float64(800), body["max_tokens"])
	assert.Equal(t, 0.2, body["temperature"])
	assert.NotContains(t, body, "max_completion_tokens")
	assert.NotContains(t, body, "tool_choice", "tool_choice only accompanies tools")
}
