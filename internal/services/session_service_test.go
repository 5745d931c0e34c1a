package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/jaanekhana/internal/models"
	"github.com/yoockh/jaanekhana/internal/utils"
)

func TestSessionService_DefaultsForNewUser(t *testing.T) {
	sessions, _, _ := newStores()

	sess, err := sessions.Get(context.Background(), "tg:1")
	require.NoError(t, err)
	assert.False(t, sess.HasLanguage())
	assert.Equal(t, models.DefaultLanguage, sess.LanguageOrDefault())
	assert.False(t, sess.IsProcessing)
	assert.False(t, sess.InWizard())
}

func TestSessionService_RequiresUser(t *testing.T) {
	sessions, _, _ := newStores()

	_, err := sessions.Get(context.Background(), "")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestSessionService_TryAcquireIsExclusive(t *testing.T) {
	sessions, _, _ := newStores()
	ctx := context.Background()

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := sessions.TryAcquire(ctx, "tg:1")
			if err == nil && ok {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, wins)

	require.NoError(t, sessions.Release(ctx, "tg:1"))
	ok, err := sessions.TryAcquire(ctx, "tg:1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSessionService_GuardIsPerUser(t *testing.T) {
	sessions, _, _ := newStores()
	ctx := context.Background()

	ok, err := sessions.TryAcquire(ctx, "tg:1")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = sessions.TryAcquire(ctx, "tg:2")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSessionService_UpdateKeepsAppErrors(t *testing.T) {
	sessions, _, _ := newStores()

	want := utils.E(utils.CodeConflict, "test", "nope", nil)
	_, err := sessions.Update(context.Background(), "tg:1", func(*models.Session) error { return want })
	assert.ErrorIs(t, err, want)
}

func TestLanguageService_Select(t *testing.T) {
	sessions, _, _ := newStores()
	langs := NewLanguageService(sessions)
	ctx := context.Background()

	_, set, err := langs.Current(ctx, "tg:1")
	require.NoError(t, err)
	assert.False(t, set)

	lang, err := langs.Select(ctx, "tg:1", "hi")
	require.NoError(t, err)
	assert.Equal(t, models.Language("hi"), lang)

	_, err = langs.Select(ctx, "tg:1", "fr")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	cur, set, err := langs.Current(ctx, "tg:1")
	require.NoError(t, err)
	assert.True(t, set)
	assert.Equal(t, models.Language("hi"), cur)
}

func TestProfileService_RejectsIncomplete(t *testing.T) {
	_, profiles, _ := newStores()
	ctx := context.Background()

	err := profiles.Save(ctx, "tg:1", models.UserProfile{Diet: models.DietVegan})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	has, err := profiles.Has(ctx, "tg:1")
	require.NoError(t, err)
	assert.False(t, has)

	full := models.UserProfile{
		Diet:       models.DietVegan,
		Conditions: []models.Condition{},
		Allergies:  []models.Allergen{models.AllergenNuts},
		Goal:       models.GoalHealth,
	}
	require.NoError(t, profiles.Save(ctx, "tg:1", full))

	got, err := profiles.Get(ctx, "tg:1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, full, *got)
}

func TestPendingService_TakeIsAtMostOnce(t *testing.T) {
	_, _, pending := newStores()
	ctx := context.Background()

	require.NoError(t, pending.Put(ctx, "tg:1", models.PendingPhoto{MediaRef: "file-1"}))
	require.NoError(t, pending.Put(ctx, "tg:1", models.PendingPhoto{MediaRef: "file-2"}))

	var got []string
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := pending.Take(ctx, "tg:1")
			if err == nil && p != nil {
				mu.Lock()
				got = append(got, p.MediaRef)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, []string{"file-2"}, got)
}

func TestPendingService_PutRequiresRef(t *testing.T) {
	_, _, pending := newStores()

	err := pending.Put(context.Background(), "tg:1", models.PendingPhoto{})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestPendingService_PutStampsTime(t *testing.T) {
	_, _, pending := newStores()
	ctx := context.Background()

	require.NoError(t, pending.Put(ctx, "tg:1", models.PendingPhoto{MediaRef: "f"}))
	p, err := pending.Take(ctx, "tg:1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.False(t, p.ReceivedAt.IsZero())
}

func TestSessionService_ForgetDropsSession(t *testing.T) {
	sessions, _, _ := newStores()
	ctx := context.Background()

	ok, err := sessions.TryAcquire(ctx, "web:1")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, sessions.Forget(ctx, "web:1"))
	sess, err := sessions.Get(ctx, "web:1")
	require.NoError(t, err)
	assert.Equal(t, models.Session{}, sess)

	assert.True(t, utils.IsCode(sessions.Forget(ctx, ""), utils.CodeInvalidArgument))
}
