// internal/interactions/service.go

package interactions

import (
    "context"
    "errors"
    "fmt"
    "log"
    "strconv"
    "time"

    "github.com/emberlyapp/emberly-backend/internal/feed"
)

var (
    ErrMissingTarget   = errors.New("target user is required")
    ErrSelfInteraction = errors.New("cannot interact with yourself")
)

type Service interface {
    SubmitLike(ctx context.Context, fromUserID, toUserID int64) (*Interaction, error)
    SubmitPass(ctx context.Context, fromUserID, toUserID int64) (*Interaction, error)
}

type service struct {
    repo      Repository
    limiter   RateLimiter
    publisher feed.Publisher
    now       func() time.Time
}

func NewService(repo Repository, limiter RateLimiter, publisher feed.Publisher) Service {
    return &service{
        repo:      repo,
        limiter:   limiter,
        publisher: publisher,
        now:       time.Now,
    }
}

// SubmitLike records a like. The rate limiter is consulted first; if the
// user is over the limit nothing is written.
func (s *service) SubmitLike(ctx context.Context, fromUserID, toUserID int64) (*Interaction, error) {
    if err := validatePair(fromUserID, toUserID); err != nil {
        return nil, err
    }

    now := s.now().UTC()
    if err := s.limiter.TryConsume(ctx, fromUserID, now); err != nil {
        if errors.Is(err, ErrRateLimitExceeded) {
            RecordRateLimited()
            return nil, err
        }
        return nil, fmt.Errorf("rate limiter: %w", err)
    }

    return s.append(ctx, fromUserID, toUserID, KindLike, now)
}

// SubmitPass records a pass. Passes cannot produce matches and are not
// rate-limited.
func (s *service) SubmitPass(ctx context.Context, fromUserID, toUserID int64) (*Interaction, error) {
    if err := validatePair(fromUserID, toUserID); err != nil {
        return nil, err
    }

    return s.append(ctx, fromUserID, toUserID, KindPass, s.now().UTC())
}

func (s *service) append(ctx context.Context, fromUserID, toUserID int64, kind string, now time.Time) (*Interaction, error) {
    interaction := &Interaction{
        FromUserID: fromUserID,
        ToUserID:   toUserID,
        Kind:       kind,
        CreatedAt:  now,
    }

    if err := s.repo.CreateInteraction(ctx, interaction); err != nil {
        return nil, fmt.Errorf("failed to store interaction: %w", err)
    }

    // Make the write visible on the change feed for the match worker
    event := feed.Event{
        ID:         strconv.FormatInt(interaction.ID, 10),
        FromUserID: interaction.FromUserID,
        ToUserID:   interaction.ToUserID,
        Kind:       interaction.Kind,
        CreatedAt:  interaction.CreatedAt,
    }
    if err := s.publisher.Publish(ctx, event); err != nil {
        // The record is durable; the worker will pick it up after the feed
        // recovers or via a backfill, so the caller still gets a success
        log.Printf("Failed to publish interaction %d to feed: %v", interaction.ID, err)
    }

    RecordInteraction(kind)
    return interaction, nil
}

func validatePair(fromUserID, toUserID int64) error {
    if toUserID == 0 {
        return ErrMissingTarget
    }
    if fromUserID == toUserID {
        return ErrSelfInteraction
    }
    return nil
}
