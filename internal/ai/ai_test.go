package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/config"
	"portfolio/internal/content"
	"portfolio/internal/database"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(config.AIConfig{BaseURL: srv.URL + "/", Model: "gemini-test", Timeout: 5 * time.Second})
}

type sentRequest struct {
	Contents []struct {
		Role  string `json:"role"`
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestGenerateSendsUserTurn(t *testing.T) {
	var gotPath, gotKey string
	var gotBody sentRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeJSON(w, http.StatusOK, `{"candidates":[{"content":{"role":"model","parts":[{"text":" Great portfolio! "}]}}]}`)
	})

	reply, err := c.Generate(context.Background(), "k-123", "hello")
	require.NoError(t, err)

	assert.Equal(t, "Great portfolio!", reply)
	assert.Equal(t, "/v1beta/models/gemini-test:generateContent", gotPath)
	assert.Equal(t, "k-123", gotKey)
	require.Len(t, gotBody.Contents, 1)
	assert.Equal(t, "user", gotBody.Contents[0].Role)
	require.Len(t, gotBody.Contents[0].Parts, 1)
	assert.Equal(t, "hello", gotBody.Contents[0].Parts[0].Text)
}

func TestGenerateFallsBackOnEmptyCandidates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"candidates":[]}`)
	})
	reply, err := c.Generate(context.Background(), "k", "hi")
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, reply)
}

func TestGenerateReportsProviderErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusTooManyRequests,
			`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`)
	})
	_, err := c.Generate(context.Background(), "secret-key", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.NotContains(t, err.Error(), "secret-key")
}

func TestGenerateRequiresKey(t *testing.T) {
	c := NewClient(config.AIConfig{BaseURL: "http://unused", Model: "m"})
	_, err := c.Generate(context.Background(), "  ", "hi")
	require.ErrorIs(t, err, ErrNoAPIKey)
}

type fakeGen struct {
	key, prompt string
	reply       string
	err         error
}

func (f *fakeGen) Generate(_ context.Context, apiKey, prompt string) (string, error) {
	f.key, f.prompt = apiKey, prompt
	return f.reply, f.err
}

type fakeConfigs struct {
	cfg *database.AiConfig
	err error
}

func (f fakeConfigs) GetAiConfig(context.Context) (*database.AiConfig, error) {
	return f.cfg, f.err
}

func TestChatWithoutStoredConfigUsesDefaults(t *testing.T) {
	gen := &fakeGen{reply: "ok"}
	svc := NewChatService(gen, fakeConfigs{err: content.ErrNotFound}, "env-key")

	reply, err := svc.Chat(context.Background(), "How is my resume?", "")
	require.NoError(t, err)

	assert.Equal(t, "ok", reply)
	assert.Equal(t, "env-key", gen.key)
	assert.True(t, strings.HasPrefix(gen.prompt, advisorPrompt))
	assert.Contains(t, gen.prompt, "Portfolio Context: "+defaultPortfolioContext)
	assert.True(t, strings.HasSuffix(gen.prompt, "User Question: How is my resume?"))
}

func TestChatUsesStoredPromptAndKey(t *testing.T) {
	key := "db-key"
	gen := &fakeGen{reply: "ok"}
	svc := NewChatService(gen, fakeConfigs{cfg: &database.AiConfig{
		SystemPrompt: "You are terse.",
		APIKey:       &key,
		Enabled:      true,
	}}, "env-key")

	_, err := svc.Chat(context.Background(), "q", "Go developer")
	require.NoError(t, err)

	assert.Equal(t, "db-key", gen.key)
	assert.True(t, strings.HasPrefix(gen.prompt, "You are terse."))
	assert.Contains(t, gen.prompt, "Portfolio Context: Go developer")
}

func TestChatDisabled(t *testing.T) {
	gen := &fakeGen{}
	svc := NewChatService(gen, fakeConfigs{cfg: &database.AiConfig{Enabled: false}}, "k")

	_, err := svc.Chat(context.Background(), "q", "")
	require.ErrorIs(t, err, ErrDisabled)
	assert.Empty(t, gen.prompt)
}

func TestChatPropagatesFailures(t *testing.T) {
	svc := NewChatService(&fakeGen{}, fakeConfigs{err: errors.New("db down")}, "k")
	_, err := svc.Chat(context.Background(), "q", "")
	require.ErrorContains(t, err, "db down")

	svc = NewChatService(&fakeGen{err: errors.New("boom")}, fakeConfigs{err: content.ErrNotFound}, "k")
	_, err = svc.Chat(context.Background(), "q", "")
	require.ErrorContains(t, err, "boom")
}
