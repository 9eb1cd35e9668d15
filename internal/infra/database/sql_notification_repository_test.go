package database

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reminder_bot/internal/domain/notification"
)

func setupRepository(t *testing.T) *SQLNotificationRepository {
	t.Helper()

	db, err := NewSQLiteConnection(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Migrate(db, "sqlite"))
	return NewSQLNotificationRepository(db)
}

func makeNotification(chatID int64, name string, occursAt time.Time, r notification.Recurrence) *notification.Notification {
	return &notification.Notification{
		ChatID:     chatID,
		Name:       name,
		OccursAt:   occursAt,
		Recurrence: r,
	}
}

func TestCreate_AssignsDensePerChatIDs(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	occursAt := time.Date(2024, time.March, 15, 13, 0, 0, 0, time.Local)

	for i, name := range []string{"Первая", "Вторая", "Третья"} {
		n := makeNotification(100, name, occursAt, notification.Once)
		require.NoError(t, repo.Create(ctx, n))
		assert.Equal(t, i+1, n.LocalID)
	}

	// Another chat numbers independently from 1.
	other := makeNotification(200, "Чужая", occursAt, notification.Daily)
	require.NoError(t, repo.Create(ctx, other))
	assert.Equal(t, 1, other.LocalID)
}

func TestCreate_RoundTripsAllFields(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	occursAt := time.Date(2024, time.March, 15, 13, 0, 0, 0, time.Local)

	created := makeNotification(100, "Стоматолог", occursAt, notification.Monthly)
	require.NoError(t, repo.Create(ctx, created))

	items, err := repo.ListByChat(ctx, 100)
	require.NoError(t, err)
	require.Len(t, items, 1)

	got := items[0]
	assert.Equal(t, int64(100), got.ChatID)
	assert.Equal(t, 1, got.LocalID)
	assert.Equal(t, "Стоматолог", got.Name)
	assert.True(t, got.OccursAt.Equal(occursAt))
	assert.Equal(t, notification.Monthly, got.Recurrence)
}

func TestDelete_RenumbersRemaining(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	occursAt := time.Date(2024, time.March, 15, 13, 0, 0, 0, time.Local)

	for _, name := range []string{"Первая", "Вторая", "Третья"} {
		require.NoError(t, repo.Create(ctx, makeNotification(100, name, occursAt, notification.Once)))
	}

	removed, err := repo.Delete(ctx, 100, 2)
	require.NoError(t, err)
	assert.Equal(t, "Вторая", removed.Name)
	assert.Equal(t, 2, removed.LocalID)

	items, err := repo.ListByChat(ctx, 100)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Former id 3 is now id 2; every other field is unchanged.
	assert.Equal(t, 1, items[0].LocalID)
	assert.Equal(t, "Первая", items[0].Name)
	assert.Equal(t, 2, items[1].LocalID)
	assert.Equal(t, "Третья", items[1].Name)
	assert.True(t, items[1].OccursAt.Equal(occursAt))
}

func TestDelete_DoesNotTouchOtherChats(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	occursAt := time.Date(2024, time.March, 15, 13, 0, 0, 0, time.Local)

	require.NoError(t, repo.Create(ctx, makeNotification(100, "Моя", occursAt, notification.Once)))
	require.NoError(t, repo.Create(ctx, makeNotification(200, "Чужая", occursAt, notification.Once)))

	_, err := repo.Delete(ctx, 100, 1)
	require.NoError(t, err)

	items, err := repo.ListByChat(ctx, 200)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].LocalID)
}

func TestDelete_NotFound(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	_, err := repo.Delete(ctx, 100, 1)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestUpdateOccurrence(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	occursAt := time.Date(2024, time.March, 15, 13, 0, 0, 0, time.Local)

	n := makeNotification(100, "Стоматолог", occursAt, notification.Monthly)
	require.NoError(t, repo.Create(ctx, n))

	next := occursAt.AddDate(0, 1, 0)
	require.NoError(t, repo.UpdateOccurrence(ctx, 100, n.LocalID, next))

	items, err := repo.ListByChat(ctx, 100)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].OccursAt.Equal(next))
}

func TestUpdateOccurrence_MissingRowIsNoOp(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	err := repo.UpdateOccurrence(ctx, 100, 42, time.Now())
	assert.NoError(t, err)
}

func TestListAll_SpansChats(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	occursAt := time.Date(2024, time.March, 15, 13, 0, 0, 0, time.Local)

	require.NoError(t, repo.Create(ctx, makeNotification(200, "Чужая", occursAt, notification.Once)))
	require.NoError(t, repo.Create(ctx, makeNotification(100, "Моя", occursAt, notification.Once)))

	items, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(100), items[0].ChatID)
	assert.Equal(t, int64(200), items[1].ChatID)
}

func TestCreate_ConcurrentSameChatStaysDense(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	occursAt := time.Date(2024, time.March, 15, 13, 0, 0, 0, time.Local)

	const workers = 10
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n := makeNotification(100, "Гонка", occursAt, notification.Once)
			assert.NoError(t, repo.Create(ctx, n))
		}()
	}
	wg.Wait()

	items, err := repo.ListByChat(ctx, 100)
	require.NoError(t, err)
	require.Len(t, items, workers)

	seen := make(map[int]bool)
	for _, n := range items {
		seen[n.LocalID] = true
	}
	for id := 1; id <= workers; id++ {
		assert.True(t, seen[id], "expected local id %d to be assigned", id)
	}
}
