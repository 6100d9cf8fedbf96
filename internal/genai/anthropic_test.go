package genai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvandewal/dayout/backend/internal/domain"
	"github.com/pvandewal/dayout/backend/internal/genai"
)

func anthropicStub(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.NotEmpty(t, r.Header.Get("anthropic-version"))
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestAnthropicProvider_Generate(t *testing.T) {
	srv := anthropicStub(t, http.StatusOK,
		`{"content": [{"type": "text", "text": "[{\"title\": \"Zoo\"}]"}]}`)
	defer srv.Close()

	p := genai.NewAnthropicProvider("test-key", "", srv.URL)
	got, err := p.Generate(context.Background(), "sys", "user")

	require.NoError(t, err)
	assert.Equal(t, `[{"title": "Zoo"}]`, got)
}

func TestAnthropicProvider_SendsSystemAndUser(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{"content": [{"type": "text", "text": "ok"}]}`))
	}))
	defer srv.Close()

	p := genai.NewAnthropicProvider("test-key", "claude-3-5-haiku-latest", srv.URL)
	_, err := p.Generate(context.Background(), "the system prompt", "the user prompt")

	require.NoError(t, err)
	assert.Equal(t, "the system prompt", captured["system"])
	msgs := captured["messages"].([]any)
	require.Len(t, msgs, 1)
	assert.Equal(t, "the user prompt", msgs[0].(map[string]any)["content"])
}

func TestAnthropicProvider_RateLimited(t *testing.T) {
	srv := anthropicStub(t, http.StatusTooManyRequests, `{"error": {"message": "slow down"}}`)
	defer srv.Close()

	p := genai.NewAnthropicProvider("test-key", "", srv.URL)
	_, err := p.Generate(context.Background(), "sys", "user")

	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestAnthropicProvider_PaymentRequired(t *testing.T) {
	srv := anthropicStub(t, http.StatusPaymentRequired, `{"error": {"message": "billing"}}`)
	defer srv.Close()

	p := genai.NewAnthropicProvider("test-key", "", srv.URL)
	_, err := p.Generate(context.Background(), "sys", "user")

	assert.ErrorIs(t, err, domain.ErrPaymentRequired)
}

func TestAnthropicProvider_GenericErrorCarriesBody(t *testing.T) {
	srv := anthropicStub(t, http.StatusInternalServerError, `{"error": {"message": "overloaded"}}`)
	defer srv.Close()

	p := genai.NewAnthropicProvider("test-key", "", srv.URL)
	_, err := p.Generate(context.Background(), "sys", "user")

	require.ErrorIs(t, err, domain.ErrProvider)
	// The raw status and body travel with the error for diagnostics.
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "overloaded")
}

func TestAnthropicProvider_EmptyContent(t *testing.T) {
	srv := anthropicStub(t, http.StatusOK, `{"content": []}`)
	defer srv.Close()

	p := genai.NewAnthropicProvider("test-key", "", srv.URL)
	_, err := p.Generate(context.Background(), "sys", "user")

	assert.ErrorIs(t, err, domain.ErrProvider)
}
