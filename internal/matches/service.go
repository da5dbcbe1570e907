// internal/matches/service.go

package matches

import (
    "context"
    "fmt"
)

type Service interface {
    ListMatches(ctx context.Context, userID int64) ([]*MatchView, error)
}

type service struct {
    repo Repository
}

func NewService(repo Repository) Service {
    return &service{repo: repo}
}

// ListMatches returns the user's side of each visible match
func (s *service) ListMatches(ctx context.Context, userID int64) ([]*MatchView, error) {
    records, err := s.repo.ListForUser(ctx, userID)
    if err != nil {
        return nil, fmt.Errorf("failed to list matches: %w", err)
    }

    views := make([]*MatchView, 0, len(records))
    for _, match := range records {
        views = append(views, match.ViewFor(userID))
    }
    return views, nil
}
