package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"morning-pulse-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaProvider_Stream(t *testing.T) {
	var got ollamaChatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		for _, part := range []string{"Speed ", "limiters ", "[1]"} {
			fmt.Fprintf(w, `{"message":{"role":"assistant","content":%q},"done":false}`+"\n", part)
		}
		fmt.Fprintln(w, `{"message":{"role":"assistant","content":""},"done":true}`)
	}))
	defer ts.Close()

	p := NewOllamaProvider(ts.URL+"/", "llama3")
	var chunks []string
	full, err := p.Stream(context.Background(), []llm.Message{
		{Role: llm.RoleUser, Content: "hi"},
		{Role: "model", Content: "hello"},
	}, func(c string) error {
		chunks = append(chunks, c)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "Speed limiters [1]", full)
	assert.Equal(t, []string{"Speed ", "limiters ", "[1]"}, chunks)
	assert.True(t, got.Stream)
	assert.Equal(t, "assistant", got.Messages[1].Role)
}

func TestOllamaProvider_QuotaStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":"rate limit"}`)
	}))
	defer ts.Close()

	_, err := NewOllamaProvider(ts.URL, "llama3").Generate(context.Background(), "hi")
	require.Error(t, err)
	assert.True(t, errors.Is(err, llm.ErrQuotaExceeded))
}

func TestOllamaProvider_StreamAbort(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, `{"message":{"content":"a"},"done":false}`)
		fmt.Fprintln(w, `{"message":{"content":"b"},"done":false}`)
	}))
	defer ts.Close()

	stop := errors.New("client gone")
	full, err := NewOllamaProvider(ts.URL, "llama3").Stream(context.Background(),
		[]llm.Message{{Role: llm.RoleUser, Content: "hi"}},
		func(string) error { return stop })

	assert.ErrorIs(t, err, stop)
	assert.Equal(t, "a", full)
}
