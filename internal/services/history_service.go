package services

import (
	"context"

	"tunebox/internal/apperr"
	"tunebox/internal/models"
	"tunebox/internal/policy"
	"tunebox/internal/repositories"
)

// HistoryService exposes a user's play history.
type HistoryService struct {
	repo repositories.HistoryRepository
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(repo repositories.HistoryRepository) *HistoryService {
	return &HistoryService{repo: repo}
}

// List returns the actor's plays, most recent first.
func (s *HistoryService) List(ctx context.Context, actor policy.Actor, page repositories.Page) ([]models.PlayHistory, int64, error) {
	if !actor.Authenticated() {
		return nil, 0, apperr.ErrUnauthorized
	}
	return s.repo.ListByUser(ctx, actor.ID, page)
}
