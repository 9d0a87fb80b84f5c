package completion

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semi-dlc/flowt-bb/internal/metrics"
)

func TestClient_Complete(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		_, _ = w.Write([]byte(`{"id":"c1","choices":[{"index":0,"message":{"role":"assistant","content":"Hello from the desk"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/v1", "sk-test", 2*time.Second, zerolog.Nop())
	resp, err := c.Complete(context.Background(), BuildRequest("gpt-4o", 0.7, 100, []Message{{Role: RoleUser, Content: "hi"}}, nil))
	require.NoError(t, err)
	assert.Equal(t, "Hello from the desk", resp.Choices[0].Message.Text())
	assert.Equal(t, "gpt-4o", gotBody["model"])
}

func TestClient_LatencyLabelledByFamily(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk-test", 2*time.Second, zerolog.Nop())
	for _, model := range []string{"ft:gpt-4o:acme:1", "ft:gpt-4o:acme:2", "gpt-5-mini"} {
		_, err := c.Complete(context.Background(), Request{Model: model})
		require.NoError(t, err)
	}

	// one series per table prefix plus OtherFamily, however many models are seen
	assert.LessOrEqual(t, testutil.CollectAndCount(metrics.UpstreamDuration), len(capabilityTable)+1)
}

func TestClient_ToolCallDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":null,"tool_calls":[
			{"id":"call_1","type":"function","function":{"name":"create_shipment_request","arguments":"{\"weight_kg\":500}"}}]}}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk-test", 2*time.Second, zerolog.Nop())
	resp, err := c.Complete(context.Background(), Request{Model: "gpt-5"})
	require.NoError(t, err)
	msg := resp.Choices[0].Message
	assert.Equal(t, "", msg.Text())
	require.Len(t, msg.ToolCalls, 1)
	assert.Equal(t, "create_shipment_request", msg.ToolCalls[0].Function.Name)
}

func TestClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"org-secret quota exceeded"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk-test", 2*time.Second, zerolog.Nop())
	_, err := c.Complete(context.Background(), Request{Model: "gpt-4o"})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.Status)
	assert.Contains(t, se.Body, "quota")
	assert.NotContains(t, se.Error(), "quota", "error string must not carry upstream body")
}

func TestClient_NotConfigured(t *testing.T) {
	c := NewClient("http://127.0.0.1:0", "", time.Second, zerolog.Nop())
	_, err := c.Complete(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, c.HealthPing(context.Background()), ErrNotConfigured)
}
