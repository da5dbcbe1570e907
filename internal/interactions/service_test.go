// internal/interactions/service_test.go

package interactions

import (
    "context"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/emberlyapp/emberly-backend/internal/feed"
)

func newTestService(limit int) (Service, *MemoryRepository, *feed.MemoryFeed) {
    repo := NewMemoryRepository()
    limiter := NewMemoryRateLimiter(limit, time.Hour)
    events := feed.NewMemoryFeed()
    return NewService(repo, limiter, events), repo, events
}

func drainEvents(f *feed.MemoryFeed) []feed.Event {
    var collected []feed.Event
    f.Drain(context.Background(), func(ctx context.Context, event feed.Event) error {
        collected = append(collected, event)
        return nil
    }, 1)
    return collected
}

func TestSubmitLikeStoresAndPublishes(t *testing.T) {
    svc, repo, events := newTestService(40)

    interaction, err := svc.SubmitLike(context.Background(), 1, 2)
    require.NoError(t, err)
    assert.Equal(t, KindLike, interaction.Kind)
    assert.NotZero(t, interaction.ID)
    assert.Equal(t, 1, repo.Count())

    published := drainEvents(events)
    require.Len(t, published, 1)
    assert.Equal(t, int64(1), published[0].FromUserID)
    assert.Equal(t, int64(2), published[0].ToUserID)
    assert.Equal(t, KindLike, published[0].Kind)
}

func TestSubmitLikeValidation(t *testing.T) {
    svc, repo, _ := newTestService(40)

    _, err := svc.SubmitLike(context.Background(), 1, 0)
    assert.ErrorIs(t, err, ErrMissingTarget)

    _, err = svc.SubmitLike(context.Background(), 1, 1)
    assert.ErrorIs(t, err, ErrSelfInteraction)

    assert.Equal(t, 0, repo.Count())
}

func TestSubmitLikeRateLimitedWritesNothing(t *testing.T) {
    svc, repo, events := newTestService(1)

    _, err := svc.SubmitLike(context.Background(), 1, 2)
    require.NoError(t, err)

    _, err = svc.SubmitLike(context.Background(), 1, 3)
    assert.ErrorIs(t, err, ErrRateLimitExceeded)

    // The rejected like must leave no trace anywhere
    assert.Equal(t, 1, repo.Count())
    assert.Len(t, drainEvents(events), 1)
}

func TestSubmitPassIsNotRateLimited(t *testing.T) {
    svc, repo, _ := newTestService(1)

    _, err := svc.SubmitLike(context.Background(), 1, 2)
    require.NoError(t, err)

    for target := int64(10); target < 20; target++ {
        _, err := svc.SubmitPass(context.Background(), 1, target)
        require.NoError(t, err)
    }
    assert.Equal(t, 11, repo.Count())
}

func TestSubmitPassPublishesPassEvent(t *testing.T) {
    svc, _, events := newTestService(40)

    _, err := svc.SubmitPass(context.Background(), 1, 2)
    require.NoError(t, err)

    published := drainEvents(events)
    require.Len(t, published, 1)
    assert.Equal(t, KindPass, published[0].Kind)
}
