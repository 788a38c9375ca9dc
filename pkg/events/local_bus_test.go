package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"morning-pulse-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalBus_DeliversByType(t *testing.T) {
	bus := NewLocalBus()
	var got []string

	require.NoError(t, bus.Subscribe(context.Background(), TypeStoryPublished, "feed", func(_ context.Context, e Event) error {
		var s store.Story
		require.NoError(t, Decode(e, &s))
		got = append(got, s.Headline)
		return nil
	}))

	at := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, bus.Publish(context.Background(), NewStoryPublished(store.Story{ID: "1", Headline: "Rates hold"}, at)))
	require.NoError(t, bus.Publish(context.Background(), NewOpinionSubmitted(store.Opinion{ID: "2"}, at)))

	assert.Equal(t, []string{"Rates hold"}, got)
}

func TestLocalBus_JoinsHandlerErrors(t *testing.T) {
	bus := NewLocalBus()
	boom := errors.New("boom")
	calls := 0
	for i := 0; i < 2; i++ {
		_ = bus.Subscribe(context.Background(), TypeOpinionPublished, "x", func(context.Context, Event) error {
			calls++
			return boom
		})
	}

	err := bus.Publish(context.Background(), NewOpinionPublished(store.Opinion{ID: "1"}, time.Now()))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}
