package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"morning-pulse-be/internal/constant"
	"morning-pulse-be/internal/dto"
	"morning-pulse-be/internal/pkg/logger"
	"morning-pulse-be/pkg/events"
	"morning-pulse-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDelivery struct {
	mu   sync.Mutex
	sent []dto.FeedMessage
}

func (f *fakeDelivery) Broadcast(_ context.Context, msg dto.FeedMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return nil
}

func TestNotificationService_RoutesEvents(t *testing.T) {
	bus := events.NewLocalBus()
	delivery := &fakeDelivery{}
	mail := &fakeMailer{}
	svc := NewNotificationService(bus, delivery, mail, "desk@example.test", logger.NewNopLogger())
	ctx := context.Background()
	require.NoError(t, svc.Start(ctx))

	now := time.Now()
	require.NoError(t, bus.Publish(ctx, events.NewStoryPublished(store.Story{ID: "s1", Headline: "Rains arrive"}, now)))
	require.NoError(t, bus.Publish(ctx, events.NewOpinionPublished(store.Opinion{ID: "o1", Headline: "On rain"}, now)))
	require.NoError(t, bus.Publish(ctx, events.NewOpinionSubmitted(store.Opinion{ID: "o2", Headline: "Fix the roads"}, now)))

	require.Len(t, delivery.sent, 2)
	assert.Equal(t, constant.FeedKindStory, delivery.sent[0].Kind)
	assert.Equal(t, "Rains arrive", delivery.sent[0].Story.Headline)
	assert.Equal(t, constant.FeedKindOpinion, delivery.sent[1].Kind)
	assert.Equal(t, "On rain", delivery.sent[1].Opinion.Headline)
	assert.Equal(t, []string{"desk@example.test:Fix the roads"}, mail.submitted)
}

func TestNotificationService_MailErrorSurfaces(t *testing.T) {
	bus := events.NewLocalBus()
	mail := &fakeMailer{err: errors.New("smtp down")}
	svc := NewNotificationService(bus, &fakeDelivery{}, mail, "desk@example.test", logger.NewNopLogger())
	require.NoError(t, svc.Start(context.Background()))

	err := bus.Publish(context.Background(), events.NewOpinionSubmitted(store.Opinion{ID: "o2"}, time.Now()))
	assert.Error(t, err)
}
