package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/quesify/identity-service/internal/cqrs"
	"github.com/quesify/identity-service/internal/models"
)

// AccountViewReader is the read-store surface the query side needs.
type AccountViewReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.AccountView, error)
}

// AccountQueryService serves public account lookups from the read model.
type AccountQueryService struct {
	readRepo AccountViewReader
}

func NewAccountQueryService(readRepo AccountViewReader) *AccountQueryService {
	return &AccountQueryService{readRepo: readRepo}
}

// GetAccount returns the projection for any account id. Lookups are public;
// there is no ownership constraint.
func (s *AccountQueryService) GetAccount(ctx context.Context, q cqrs.GetAccountQuery) (*models.AccountView, error) {
	return s.readRepo.GetByID(ctx, q.AccountID)
}
