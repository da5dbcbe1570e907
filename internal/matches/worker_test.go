// internal/matches/worker_test.go

package matches

import (
    "context"
    "errors"
    "sync"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/emberlyapp/emberly-backend/internal/feed"
)

type fakeLikes struct {
    mu    sync.Mutex
    likes map[[2]int64]bool
    err   error
}

func newFakeLikes() *fakeLikes {
    return &fakeLikes{likes: make(map[[2]int64]bool)}
}

func (f *fakeLikes) add(from, to int64) {
    f.mu.Lock()
    defer f.mu.Unlock()
    f.likes[[2]int64{from, to}] = true
}

func (f *fakeLikes) HasLike(ctx context.Context, fromUserID, toUserID int64) (bool, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    if f.err != nil {
        return false, f.err
    }
    return f.likes[[2]int64{fromUserID, toUserID}], nil
}

type fakeNotifier struct {
    mu      sync.Mutex
    matches []*Match
    done    chan struct{}
}

func newFakeNotifier() *fakeNotifier {
    return &fakeNotifier{done: make(chan struct{}, 16)}
}

func (f *fakeNotifier) NotifyMatch(ctx context.Context, match *Match) {
    f.mu.Lock()
    f.matches = append(f.matches, match)
    f.mu.Unlock()
    f.done <- struct{}{}
}

func (f *fakeNotifier) count() int {
    f.mu.Lock()
    defer f.mu.Unlock()
    return len(f.matches)
}

func likeEvent(id string, from, to int64) feed.Event {
    return feed.Event{ID: id, FromUserID: from, ToUserID: to, Kind: "like"}
}

func TestWorkerCreatesMatchOnReciprocalLike(t *testing.T) {
    likes := newFakeLikes()
    repo := NewMemoryRepository()
    notifier := newFakeNotifier()
    worker := NewWorker(nil, nil, likes, repo, notifier, 3)

    likes.add(2, 1)
    require.NoError(t, worker.handle(context.Background(), likeEvent("e1", 1, 2)))

    match, err := repo.GetMatch(context.Background(), "1_2")
    require.NoError(t, err)
    assert.True(t, match.HasUser(1))
    assert.True(t, match.HasUser(2))

    <-notifier.done
    assert.Equal(t, 1, notifier.count())
}

func TestWorkerSkipsPasses(t *testing.T) {
    likes := newFakeLikes()
    repo := NewMemoryRepository()
    worker := NewWorker(nil, nil, likes, repo, nil, 3)

    likes.add(2, 1)
    event := feed.Event{ID: "e1", FromUserID: 1, ToUserID: 2, Kind: "pass"}
    require.NoError(t, worker.handle(context.Background(), event))

    assert.Equal(t, 0, repo.Count())
}

func TestWorkerNoMatchWithoutReciprocal(t *testing.T) {
    likes := newFakeLikes()
    repo := NewMemoryRepository()
    worker := NewWorker(nil, nil, likes, repo, nil, 3)

    require.NoError(t, worker.handle(context.Background(), likeEvent("e1", 1, 2)))

    assert.Equal(t, 0, repo.Count())
}

func TestWorkerRedeliveryIsIdempotent(t *testing.T) {
    likes := newFakeLikes()
    repo := NewMemoryRepository()
    notifier := newFakeNotifier()
    worker := NewWorker(nil, nil, likes, repo, notifier, 3)

    likes.add(2, 1)
    event := likeEvent("e1", 1, 2)
    require.NoError(t, worker.handle(context.Background(), event))
    <-notifier.done

    // At-least-once delivery means the same event can arrive again
    require.NoError(t, worker.handle(context.Background(), event))

    assert.Equal(t, 1, repo.Count())
    assert.Equal(t, 1, notifier.count(), "duplicate delivery must not notify again")
}

func TestWorkerBothDirectionsYieldOneMatch(t *testing.T) {
    likes := newFakeLikes()
    repo := NewMemoryRepository()
    notifier := newFakeNotifier()
    worker := NewWorker(nil, nil, likes, repo, notifier, 3)

    likes.add(1, 2)
    likes.add(2, 1)

    require.NoError(t, worker.handle(context.Background(), likeEvent("e1", 1, 2)))
    require.NoError(t, worker.handle(context.Background(), likeEvent("e2", 2, 1)))

    assert.Equal(t, 1, repo.Count())
    <-notifier.done
    assert.Equal(t, 1, notifier.count())
}

func TestWorkerDeadLettersAfterMaxAttempts(t *testing.T) {
    likes := newFakeLikes()
    likes.err = errors.New("store unavailable")

    repo := NewMemoryRepository()
    deadLetter := feed.NewMemoryFeed()
    worker := NewWorker(nil, deadLetter, likes, repo, nil, 3)

    event := likeEvent("e1", 1, 2)

    // First two deliveries fail and stay on the feed
    assert.Error(t, worker.handle(context.Background(), event))
    assert.Error(t, worker.handle(context.Background(), event))

    // Third delivery parks the event and acknowledges it
    assert.NoError(t, worker.handle(context.Background(), event))

    var parked []feed.Event
    deadLetter.Drain(context.Background(), func(ctx context.Context, e feed.Event) error {
        parked = append(parked, e)
        return nil
    }, 1)
    require.Len(t, parked, 1)
    assert.Equal(t, "e1", parked[0].ID)
}

func TestWorkerRecoveredEventClearsAttempts(t *testing.T) {
    likes := newFakeLikes()
    likes.err = errors.New("store unavailable")

    repo := NewMemoryRepository()
    deadLetter := feed.NewMemoryFeed()
    worker := NewWorker(nil, deadLetter, likes, repo, nil, 3)

    event := likeEvent("e1", 1, 2)
    assert.Error(t, worker.handle(context.Background(), event))

    // Store recovers before the retries run out
    likes.mu.Lock()
    likes.err = nil
    likes.mu.Unlock()
    likes.add(2, 1)

    require.NoError(t, worker.handle(context.Background(), event))
    assert.Equal(t, 1, repo.Count())

    deadLetter.Drain(context.Background(), func(ctx context.Context, e feed.Event) error {
        t.Fatalf("unexpected dead-lettered event %s", e.ID)
        return nil
    }, 1)
}
