package unitofwork

import (
	"context"
	"os"
	"testing"
	"time"

	"morning-pulse-be/internal/entity"
	"morning-pulse-be/internal/repository/specification"
	"morning-pulse-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a migrated database; skipped unless DB_CONNECTION_STRING is set.
func TestUnitOfWork_Postgres(t *testing.T) {
	_ = godotenv.Load("../../../.env")
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, false)
	require.NoError(t, err)
	ctx := context.Background()
	factory := NewRepositoryFactory(db)

	t.Run("rollback discards the opinion", func(t *testing.T) {
		uow := factory.NewUnitOfWork(ctx)
		require.NoError(t, uow.Begin(ctx))

		id := uuid.New()
		require.NoError(t, uow.OpinionRepository().Create(ctx, &entity.Opinion{
			Id:          id,
			Headline:    "Integration headline",
			Body:        "Integration body",
			AuthorName:  "Tester",
			Status:      entity.OpinionStatusPending,
			SubmittedAt: time.Now(),
		}))
		require.NoError(t, uow.Rollback())

		found, err := factory.NewUnitOfWork(ctx).OpinionRepository().FindOne(ctx, specification.ByID{ID: id})
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("story soft delete hides it", func(t *testing.T) {
		uow := factory.NewUnitOfWork(ctx)
		story := &entity.Story{
			Id:          uuid.New(),
			Headline:    "Integration story",
			Category:    "Test",
			Source:      "Suite",
			PublishedAt: time.Now(),
		}
		require.NoError(t, uow.StoryRepository().Create(ctx, story))
		require.NoError(t, uow.StoryRepository().Delete(ctx, story.Id))

		found, err := uow.StoryRepository().FindOne(ctx, specification.ByID{ID: story.Id})
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("ask logs by session", func(t *testing.T) {
		uow := factory.NewUnitOfWork(ctx)
		session := uuid.NewString()
		require.NoError(t, uow.AskLogRepository().Create(ctx, &entity.AskLog{
			Id:        uuid.New(),
			SessionId: session,
			Question:  "q",
			Answer:    "a",
			CreatedAt: time.Now(),
		}))

		count, err := uow.AskLogRepository().Count(ctx, specification.AskLogsInSession{SessionID: session})
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})
}
