package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/depositdefender/internal/domain"
)

func TestClaudeAssess(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Content []struct {
				Type   string `json:"type"`
				Text   string `json:"text"`
				Source struct {
					MediaType string `json:"media_type"`
				} `json:"source"`
			} `json:"content"`
		} `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "sk-test", r.Header.Get("x-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		resp := map[string]interface{}{
			"id":          "msg_1",
			"type":        "message",
			"role":        "assistant",
			"model":       "claude-sonnet-4-5",
			"stop_reason": "end_turn",
			"content": []map[string]interface{}{
				{"type": "text", "text": "moderate | deep scratches on the counter"},
			},
			"usage": map[string]int{"input_tokens": 10, "output_tokens": 8},
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	assessor := NewAssessor("sk-test", "claude-sonnet-4-5")
	assessor.baseURL = server.URL

	result, err := assessor.Assess(context.Background(), bytes.NewReader([]byte{0xFF, 0xD8}), "image/jpeg", "Countertops")
	require.NoError(t, err)
	assert.Equal(t, domain.SeverityModerate, result.Severity)
	assert.Equal(t, "deep scratches on the counter", result.Notes)

	assert.Equal(t, "claude-sonnet-4-5", got.Model)
	require.Len(t, got.Messages, 1)
	require.Len(t, got.Messages[0].Content, 2)
	assert.Equal(t, "image", got.Messages[0].Content[0].Type)
	assert.Equal(t, "image/jpeg", got.Messages[0].Content[0].Source.MediaType)
	assert.Contains(t, got.Messages[0].Content[1].Text, `"Countertops"`)
}

func TestClaudeAssessAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	assessor := NewAssessor("sk-test", "claude-sonnet-4-5")
	assessor.baseURL = server.URL

	_, err := assessor.Assess(context.Background(), bytes.NewReader([]byte{0xFF, 0xD8}), "image/jpeg", "Walls")
	assert.Error(t, err)
}

func TestClaudeAssessReadError(t *testing.T) {
	assessor := NewAssessor("sk-test", "claude-sonnet-4-5")

	_, err := assessor.Assess(context.Background(), &errReader{}, "image/jpeg", "Walls")
	assert.Error(t, err)
}

func TestNormaliseMIME(t *testing.T) {
	assert.Equal(t, "image/png", normaliseMIME("image/png"))
	assert.Equal(t, "image/webp", normaliseMIME("image/webp"))
	assert.Equal(t, "image/jpeg", normaliseMIME("application/octet-stream"))
}

// errReader always returns an error on Read.
type errReader struct{}

func (e *errReader) Read(_ []byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}
