package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semi-dlc/flowt-bb/internal/services"
	"github.com/semi-dlc/flowt-bb/internal/store/sqlite"
)

func TestRunChat(t *testing.T) {
	var gotAuth string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/freight-ai-agent", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":"Saved.","functionResult":{"success":true,"type":"request"}}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	require.NoError(t, runChat(newAPIClient(srv.URL, "tok"), "ship 500kg", &out))
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "ship 500kg", gotBody["message"])
	assert.Contains(t, out.String(), "Saved.\n")
	assert.Contains(t, out.String(), `"type":"request"`)

	assert.Error(t, runChat(newAPIClient(srv.URL, ""), "", &out))
}

func TestRunChat_ErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Rate limit reached. Please try again in a moment.","code":500}`))
	}))
	defer srv.Close()

	err := runChat(newAPIClient(srv.URL, ""), "hi", &bytes.Buffer{})
	assert.EqualError(t, err, "http 500: Rate limit reached. Please try again in a moment.")
}

func TestRunList(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/offers", r.URL.Path)
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"offers":[],"count":0}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	require.NoError(t, runList(newAPIClient(srv.URL, ""), "offers", 5, &out))
	assert.Equal(t, "limit=5", gotQuery)
	assert.JSONEq(t, `{"offers":[],"count":0}`, out.String())
}

func TestRunGrantDeveloper(t *testing.T) {
	db, err := sqlite.Open(sqlite.MemoryPath)
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()
	require.NoError(t, sqlite.EnsureSchema(ctx, db))
	st := sqlite.NewWithDB(db)

	var out bytes.Buffer
	require.NoError(t, runGrantDeveloper(ctx, st, "user-7", &out))
	assert.Equal(t, "granted developer role to user-7\n", out.String())

	dev, err := services.NewCapabilityService(st).IsDeveloper(ctx, "user-7")
	require.NoError(t, err)
	assert.True(t, dev)

	assert.Error(t, runGrantDeveloper(ctx, st, "", &out))
}

func TestRunPromptShow(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runPromptShow(&out))
	assert.Contains(t, out.String(), "# FREIGHT MATCHING AI CONSULTANT")
	assert.NotContains(t, out.String(), "{{")
	assert.NotContains(t, out.String(), "Market Activity")
}
