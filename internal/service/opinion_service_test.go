package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"morning-pulse-be/internal/dto"
	"morning-pulse-be/internal/entity"
	"morning-pulse-be/internal/pkg/logger"
	"morning-pulse-be/internal/repository/memory"
	"morning-pulse-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	mu        sync.Mutex
	submitted []string
	decisions []entity.OpinionStatus
	err       error
}

func (f *fakeMailer) SendOpinionSubmitted(to string, o *entity.Opinion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, to+":"+o.Headline)
	return f.err
}

func (f *fakeMailer) SendOpinionDecision(o *entity.Opinion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decisions = append(f.decisions, o.Status)
	return f.err
}

func submitRequest() *dto.SubmitOpinionRequest {
	return &dto.SubmitOpinionRequest{
		Headline:    "  Let buses slow down  ",
		Body:        strings.Repeat("Speed limiters save lives. ", 4),
		AuthorName:  "Rudo M.",
		AuthorEmail: "rudo@example.test",
		Category:    "Transport",
	}
}

func newOpinionFixture() (IOpinionService, *memStore, *recordingBus, *fakeMailer, *memory.CorpusCache) {
	store := newMemStore()
	bus := &recordingBus{}
	mail := &fakeMailer{}
	cache := memory.NewCorpusCache(time.Minute)
	svc := NewOpinionService(store, cache, bus, mail, logger.NewNopLogger())
	return svc, store, bus, mail, cache
}

func TestOpinionService_SubmitPublishFlow(t *testing.T) {
	svc, _, bus, mail, _ := newOpinionFixture()
	ctx := context.Background()
	editor := uuid.New()

	submitted, err := svc.Submit(ctx, submitRequest())
	require.NoError(t, err)
	assert.Equal(t, "Let buses slow down", submitted.Headline)
	assert.Equal(t, string(entity.OpinionStatusPending), submitted.Status)

	pending, err := svc.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	published, err := svc.Publish(ctx, editor, uuid.MustParse(submitted.Id))
	require.NoError(t, err)
	assert.Equal(t, string(entity.OpinionStatusPublished), published.Status)
	require.NotNil(t, published.PublishedAt)

	list, err := svc.Published(ctx, 5)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsPublished)

	assert.Equal(t, []string{events.TypeOpinionSubmitted, events.TypeOpinionPublished}, bus.types())
	assert.Equal(t, []entity.OpinionStatus{entity.OpinionStatusPublished}, mail.decisions)
}

func TestOpinionService_ReviewErrors(t *testing.T) {
	svc, _, _, _, _ := newOpinionFixture()
	ctx := context.Background()
	editor := uuid.New()

	_, err := svc.Publish(ctx, editor, uuid.New())
	assert.ErrorIs(t, err, ErrOpinionNotFound)

	submitted, err := svc.Submit(ctx, submitRequest())
	require.NoError(t, err)
	id := uuid.MustParse(submitted.Id)

	rejected, err := svc.Reject(ctx, editor, id, " off topic ")
	require.NoError(t, err)
	assert.Equal(t, string(entity.OpinionStatusRejected), rejected.Status)

	_, err = svc.Publish(ctx, editor, id)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestOpinionService_MailFailureDoesNotFailReview(t *testing.T) {
	svc, _, _, mail, _ := newOpinionFixture()
	mail.err = errors.New("smtp down")
	ctx := context.Background()

	submitted, err := svc.Submit(ctx, submitRequest())
	require.NoError(t, err)
	_, err = svc.Publish(ctx, uuid.New(), uuid.MustParse(submitted.Id))
	assert.NoError(t, err)
}

func TestOpinionService_PublishInvalidatesCache(t *testing.T) {
	svc, _, _, _, cache := newOpinionFixture()
	ctx := context.Background()

	list, err := svc.Published(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, list)
	_, cached := cache.Opinions()
	assert.True(t, cached)

	again, err := svc.Published(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, again)

	submitted, err := svc.Submit(ctx, submitRequest())
	require.NoError(t, err)
	_, err = svc.Publish(ctx, uuid.New(), uuid.MustParse(submitted.Id))
	require.NoError(t, err)

	list, err = svc.Published(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
