package stream

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"morning-pulse-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(chunks *[]string) func(string) error {
	return func(c string) error {
		*chunks = append(*chunks, c)
		return nil
	}
}

func TestConsume_Accumulates(t *testing.T) {
	body := "data: {\"text\":\"A\"}\n\n" +
		"data: {\"text\":\"B\"}\n\n" +
		"data: {\"done\":true,\"fullText\":\"AB\",\"sources\":[]}\n\n"

	var chunks []string
	res, err := Consume(context.Background(), strings.NewReader(body), collect(&chunks))

	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, chunks)
	assert.Equal(t, "AB", res.Text)
	assert.False(t, res.Truncated)
	assert.Empty(t, res.Sources)
}

func TestConsume_DoneWithoutFullTextUsesAccumulator(t *testing.T) {
	body := "data: {\"text\":\"Hello \"}\n" +
		"data: {\"text\":\"world\"}\n" +
		"data: {\"done\":true,\"sources\":[{\"title\":\"L01\",\"index\":1}]}\n"

	res, err := Consume(context.Background(), strings.NewReader(body), nil)

	require.NoError(t, err)
	assert.Equal(t, "Hello world", res.Text)
	assert.Equal(t, []store.Source{{Title: "L01", Index: 1}}, res.Sources)
}

func TestConsume_SkipsNoiseAndPartialJSON(t *testing.T) {
	body := ": heartbeat\n\n" +
		"event: message\n" +
		"data: {\"text\":\"A\"\n" +
		"data: [DONE]\n" +
		"data:\n" +
		"data: {}\n" +
		"data: {\"text\":\"B\"}\r\n" +
		"data: {\"done\":true,\"fullText\":\"B\"}\n"

	var warnings []string
	var chunks []string
	c := Consumer{OnWarning: func(line string, _ error) { warnings = append(warnings, line) }}
	res, err := c.Consume(context.Background(), strings.NewReader(body), collect(&chunks))

	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, chunks)
	assert.Equal(t, "B", res.Text)
	assert.Equal(t, []string{`{"text":"A"`, "[DONE]"}, warnings)
}

func TestConsume_CorruptShape(t *testing.T) {
	body := "data: {\"text\":\"A\"}\n" + "data: {\"text\":42}\n"

	_, err := Consume(context.Background(), strings.NewReader(body), nil)

	assert.ErrorIs(t, err, ErrCorruptStream)
}

func TestConsume_RemoteError(t *testing.T) {
	body := "data: {\"text\":\"A\"}\n" + "data: {\"error\":\"model unavailable\"}\n"

	_, err := Consume(context.Background(), strings.NewReader(body), nil)

	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "model unavailable", remote.Message)
}

func TestConsume_Truncated(t *testing.T) {
	body := "data: {\"text\":\"A\"}\n" + "data: {\"text\":\"B\"}\n" + "data: {\"text\":\"C"

	res, err := Consume(context.Background(), strings.NewReader(body), nil)

	require.NoError(t, err)
	assert.True(t, res.Truncated)
	assert.Equal(t, "AB", res.Text)
}

func TestConsume_Empty(t *testing.T) {
	_, err := Consume(context.Background(), strings.NewReader(": only comments\n\n"), nil)
	assert.ErrorIs(t, err, ErrEmptyStream)
}

func TestConsume_ChunkHandlerAborts(t *testing.T) {
	stop := errors.New("stop")
	body := "data: {\"text\":\"A\"}\n" + "data: {\"text\":\"B\"}\n"

	calls := 0
	_, err := Consume(context.Background(), strings.NewReader(body), func(string) error {
		calls++
		return stop
	})

	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestConsume_CancelledBetweenReads(t *testing.T) {
	pr, pw := io.Pipe()
	defer pr.Close()
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		_, _ = io.WriteString(pw, "data: {\"text\":\"A\"}\n")
		_, _ = io.WriteString(pw, "data: {\"text\":\"late\"}\n")
		_ = pw.Close()
	}()

	var chunks []string
	_, err := Consume(ctx, pr, func(c string) error {
		chunks = append(chunks, c)
		cancel()
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"A"}, chunks)
}

func TestWriter_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	w := NewWriter(bw)

	require.NoError(t, w.Heartbeat())
	require.NoError(t, w.Chunk("Speed "))
	require.NoError(t, w.Chunk("limiters [1]"))
	require.NoError(t, w.Done("Speed limiters [1]", []store.Source{{Title: "Speed Limiters Proposed", URL: "https://example.com", Index: 1}}))

	assert.True(t, strings.HasPrefix(buf.String(), ": heartbeat\n\n"))

	var chunks []string
	res, err := Consume(context.Background(), &buf, collect(&chunks))
	require.NoError(t, err)
	assert.Equal(t, []string{"Speed ", "limiters [1]"}, chunks)
	assert.Equal(t, "Speed limiters [1]", res.Text)
	require.Len(t, res.Sources, 1)
	assert.Equal(t, 1, res.Sources[0].Index)
}

func TestWriter_Error(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).Error("boom"))
	assert.Equal(t, "data: {\"error\":\"boom\"}\n\n", buf.String())
}
