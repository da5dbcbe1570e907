// internal/matches/worker.go
// Match detection worker. Consumes the interaction feed, looks for the
// reciprocal like and creates the match under its canonical id. The feed is
// at-least-once, so every step here has to tolerate redelivery.

package matches

import (
    "context"
    "fmt"
    "log"
    "sync"
    "time"

    "github.com/emberlyapp/emberly-backend/internal/feed"
)

// LikeChecker answers whether a directed like exists in the interaction log
type LikeChecker interface {
    HasLike(ctx context.Context, fromUserID, toUserID int64) (bool, error)
}

// Notifier is told about newly created matches. Implementations must not
// block the caller on delivery.
type Notifier interface {
    NotifyMatch(ctx context.Context, match *Match)
}

type Worker struct {
    subscriber  feed.Subscriber
    deadLetter  feed.Publisher
    likes       LikeChecker
    repo        Repository
    notifier    Notifier
    maxAttempts int
    now         func() time.Time

    mu       sync.Mutex
    attempts map[string]int
}

// NewWorker creates a match detection worker. deadLetter receives events that
// still fail after maxAttempts deliveries; it may be nil, in which case such
// events are dropped with a log line.
func NewWorker(subscriber feed.Subscriber, deadLetter feed.Publisher, likes LikeChecker, repo Repository, notifier Notifier, maxAttempts int) *Worker {
    if maxAttempts < 1 {
        maxAttempts = 1
    }
    return &Worker{
        subscriber:  subscriber,
        deadLetter:  deadLetter,
        likes:       likes,
        repo:        repo,
        notifier:    notifier,
        maxAttempts: maxAttempts,
        now:         time.Now,
        attempts:    make(map[string]int),
    }
}

// Run consumes the feed until ctx is cancelled
func (w *Worker) Run(ctx context.Context) error {
    log.Println("Match worker started")
    return w.subscriber.Subscribe(ctx, w.handle)
}

func (w *Worker) handle(ctx context.Context, event feed.Event) error {
    if event.Kind != "like" {
        // Passes ride the same feed but can never produce a match
        RecordEventProcessed("skipped")
        return nil
    }

    reciprocal, err := w.likes.HasLike(ctx, event.ToUserID, event.FromUserID)
    if err != nil {
        return w.fail(ctx, event, fmt.Errorf("reciprocal lookup: %w", err))
    }
    if !reciprocal {
        RecordEventProcessed("no_match")
        w.clearAttempts(event.ID)
        return nil
    }

    match := NewMatch(event.FromUserID, event.ToUserID, w.now().UTC())
    created, err := w.repo.CreateIfAbsent(ctx, match)
    if err != nil {
        return w.fail(ctx, event, fmt.Errorf("create match %s: %w", match.ID, err))
    }

    if created {
        RecordMatchCreated()
        RecordEventProcessed("matched")
        log.Printf("Match created: %s", match.ID)
        if w.notifier != nil {
            // Notification delivery must not hold up feed progress
            go w.notifier.NotifyMatch(context.Background(), match)
        }
    } else {
        // Redelivery or the other direction won the race
        RecordEventProcessed("duplicate")
    }

    w.clearAttempts(event.ID)
    return nil
}

// fail counts the delivery and decides between redelivery and dead-letter.
// Returning an error leaves the event pending on the feed; returning nil
// acknowledges it after it has been parked.
func (w *Worker) fail(ctx context.Context, event feed.Event, err error) error {
    w.mu.Lock()
    w.attempts[event.ID]++
    attempt := w.attempts[event.ID]
    w.mu.Unlock()

    if attempt < w.maxAttempts {
        log.Printf("Match worker: event %s failed (attempt %d/%d): %v", event.ID, attempt, w.maxAttempts, err)
        return err
    }

    w.clearAttempts(event.ID)
    RecordEventProcessed("dead_letter")

    if w.deadLetter == nil {
        log.Printf("Match worker: dropping event %s after %d attempts: %v", event.ID, attempt, err)
        return nil
    }
    if derr := w.deadLetter.Publish(ctx, event); derr != nil {
        log.Printf("Match worker: failed to dead-letter event %s: %v", event.ID, derr)
        // Keep the event on the main feed rather than lose it
        return err
    }

    log.Printf("Match worker: event %s moved to dead letter after %d attempts: %v", event.ID, attempt, err)
    return nil
}

func (w *Worker) clearAttempts(id string) {
    w.mu.Lock()
    delete(w.attempts, id)
    w.mu.Unlock()
}
