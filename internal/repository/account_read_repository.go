package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/quesify/identity-service/internal/models"
	serviceredis "github.com/quesify/identity-service/internal/redis"
)

const accountViewKeyPrefix = "account:view:"

// AccountReadRepository serves account projections. Redis is the primary read
// store; Postgres is the fallback, and every cold read warms the cache. Only
// projection columns are ever selected, so nothing cached or returned can
// carry the email address or security state.
type AccountReadRepository struct {
	db    *sql.DB
	cache *serviceredis.ViewCache[models.AccountView]
}

func NewAccountReadRepository(db *sql.DB, redisClient *goredis.Client) *AccountReadRepository {
	return &AccountReadRepository{
		db:    db,
		cache: serviceredis.NewViewCache[models.AccountView](redisClient, 0),
	}
}

// GetByID returns an AccountView from Redis first, then Postgres.
func (r *AccountReadRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AccountView, error) {
	cacheKey := accountViewKeyPrefix + id.String()

	if view, ok := r.cache.Get(ctx, cacheKey); ok {
		return view, nil
	}

	query := `
		SELECT id, display_name, score, about, location, birth_date,
			   website_url, profile_image_url, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`
	var view models.AccountView
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&view.ID, &view.DisplayName, &view.Score,
		&view.About, &view.Location, &view.BirthDate,
		&view.WebSiteURL, &view.ProfileImageURL,
		&view.CreatedAt, &view.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}

	r.CacheView(ctx, &view)
	return &view, nil
}

// CacheView stores or refreshes the cached projection for an account. The
// command service calls it after every successful update.
func (r *AccountReadRepository) CacheView(ctx context.Context, view *models.AccountView) {
	r.cache.Set(ctx, accountViewKeyPrefix+view.ID.String(), view)
}

// InvalidateView drops the cached projection, forcing the next read to hit
// Postgres. Used after out-of-band mutations such as score adjustments.
func (r *AccountReadRepository) InvalidateView(ctx context.Context, id uuid.UUID) {
	r.cache.Delete(ctx, accountViewKeyPrefix+id.String())
}
