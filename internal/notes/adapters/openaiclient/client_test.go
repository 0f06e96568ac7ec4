package openaiclient_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/izzddalfk/fabnotes/internal/notes/adapters/openaiclient"
	"github.com/izzddalfk/fabnotes/internal/notes/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "sk-test-key"

func getTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelWarn, // Reduce noise in tests
	}))
}

func setupClient(t *testing.T, handler http.HandlerFunc) *openaiclient.Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := openaiclient.NewClient(openaiclient.ClientConfig{
		APIKey:  testAPIKey,
		BaseURL: server.URL + "/v1",
		Timeout: 5 * time.Second,
		Logger:  getTestLogger(),
	})
	require.NoError(t, err)

	return client
}

func writeAudio(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "meeting.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF fake wave data"), 0644))
	return path
}

func TestNewClient_MissingAPIKey(t *testing.T) {
	client, err := openaiclient.NewClient(openaiclient.ClientConfig{Logger: getTestLogger()})
	assert.Error(t, err)
	assert.Nil(t, client)
}

func TestClient_Transcribe(t *testing.T) {
	client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		assert.Equal(t, "Bearer "+testAPIKey, r.Header.Get("Authorization"))

		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, "whisper-1", r.FormValue("model"))

		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		assert.Equal(t, "meeting.wav", header.Filename)
		data, _ := io.ReadAll(file)
		assert.Equal(t, "RIFF fake wave data", string(data))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"  good morning everyone \n"}`))
	})

	text, err := client.Transcribe(context.Background(), "whisper-1", writeAudio(t))
	require.NoError(t, err)
	assert.Equal(t, "good morning everyone", text)
}

func TestClient_Transcribe_EmptyText(t *testing.T) {
	client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"   "}`))
	})

	_, err := client.Transcribe(context.Background(), "whisper-1", writeAudio(t))
	assert.ErrorIs(t, err, core.ErrEmptyResponse)
}

func TestClient_Transcribe_APIError(t *testing.T) {
	client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid file format.","type":"invalid_request_error"}}`))
	})

	_, err := client.Transcribe(context.Background(), "whisper-1", writeAudio(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid file format.")
}

func TestClient_Transcribe_MissingFile(t *testing.T) {
	client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for a missing file")
	})

	_, err := client.Transcribe(context.Background(), "whisper-1", filepath.Join(t.TempDir(), "nope.wav"))
	assert.Error(t, err)
}

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func TestClient_Complete(t *testing.T) {
	client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer "+testAPIKey, r.Header.Get("Authorization"))

		var req chatRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			return
		}
		assert.Equal(t, "gpt-4", req.Model)
		if !assert.Len(t, req.Messages, 2) {
			return
		}
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "Translate the following text to Italian.", req.Messages[0].Content)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Equal(t, "good morning", req.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-4",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "buongiorno\n"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 20, "completion_tokens": 4, "total_tokens": 24}
		}`))
	})

	completion, err := client.Complete(context.Background(), core.CompletionInput{
		Model:        "gpt-4",
		SystemPrompt: "Translate the following text to Italian.",
		UserContent:  "good morning",
	})
	require.NoError(t, err)
	assert.Equal(t, "buongiorno", completion.Text)
	assert.Equal(t, 24, completion.TotalTokens)
}

func TestClient_Complete_NoChoices(t *testing.T) {
	client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "chatcmpl-2", "choices": [], "usage": {"total_tokens": 7}}`))
	})

	completion, err := client.Complete(context.Background(), core.CompletionInput{Model: "gpt-4", UserContent: "x"})
	assert.Nil(t, completion)
	assert.ErrorIs(t, err, core.ErrEmptyResponse)
}

func TestClient_Complete_ServerError(t *testing.T) {
	client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"The server had an error","type":"server_error"}}`))
	})

	_, err := client.Complete(context.Background(), core.CompletionInput{Model: "gpt-4", UserContent: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "The server had an error")
}

func TestClient_Complete_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(server.Close)

	client, err := openaiclient.NewClient(openaiclient.ClientConfig{
		APIKey:  testAPIKey,
		BaseURL: server.URL + "/v1",
		Timeout: 50 * time.Millisecond,
		Logger:  getTestLogger(),
	})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), core.CompletionInput{Model: "gpt-4", UserContent: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
