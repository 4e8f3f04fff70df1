package command

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quesify/identity-service/internal/cqrs"
	"github.com/quesify/identity-service/internal/events"
	"github.com/quesify/identity-service/internal/models"
)

// Reputation deltas applied when content owned by an account is voted on.
const (
	scoreUpvote   = 10
	scoreDownvote = -2
)

// AccountStore is the identity-store surface the write side depends on. It is
// injected at construction; the service performs no ambient lookups.
type AccountStore interface {
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	AdjustScore(ctx context.Context, id uuid.UUID, delta int) error
}

// ViewCache keeps the Redis read model in step with the write store.
type ViewCache interface {
	CacheView(ctx context.Context, view *models.AccountView)
	InvalidateView(ctx context.Context, id uuid.UUID)
}

// EventPublisher emits integration events after successful writes.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// AccountCommandService owns every mutation of account state: self-service
// profile updates and the vote-driven score adjustments.
type AccountCommandService struct {
	store     AccountStore
	views     ViewCache
	publisher EventPublisher
}

func NewAccountCommandService(store AccountStore, views ViewCache, publisher EventPublisher) *AccountCommandService {
	return &AccountCommandService{
		store:     store,
		views:     views,
		publisher: publisher,
	}
}

// UpdateAccount applies a partial profile update to the caller's own account.
// The caller identity must already be resolved; validation runs before any
// store access, so a rejected payload performs no I/O at all.
func (s *AccountCommandService) UpdateAccount(ctx context.Context, cmd cqrs.UpdateAccountCommand) (*models.AccountView, error) {
	if cmd.CallerEmail == "" {
		return nil, models.ErrUnauthenticated
	}
	if cmd.DisplayName != nil && strings.TrimSpace(*cmd.DisplayName) == "" {
		return nil, &models.ValidationError{Errors: []models.FieldError{
			{Field: "displayName", Message: "Display name must not be empty"},
		}}
	}

	account, err := s.store.GetByEmail(ctx, cmd.CallerEmail)
	if err != nil {
		return nil, err
	}

	updated := applyUpdate(*account, cmd)
	if err := s.store.Update(ctx, &updated); err != nil {
		return nil, err
	}

	view := models.AccountToView(&updated)
	s.views.CacheView(ctx, view)
	if err := s.publisher.Publish(ctx, events.AccountEventsStream, events.AccountUpdated, events.AccountUpdatedEvent{
		AccountID:   updated.ID.String(),
		DisplayName: updated.DisplayName,
	}); err != nil {
		log.Printf("Failed to publish account.updated event: %v", err)
	}
	return view, nil
}

// applyUpdate produces a new Account from the current record plus the present
// payload fields. Nil fields stay as they were; score and security state are
// carried over untouched regardless of what the client sent.
func applyUpdate(account models.Account, cmd cqrs.UpdateAccountCommand) models.Account {
	if cmd.DisplayName != nil {
		account.DisplayName = strings.TrimSpace(*cmd.DisplayName)
	}
	if cmd.About != nil {
		account.About = cmd.About
	}
	if cmd.Location != nil {
		account.Location = cmd.Location
	}
	if cmd.BirthDate != nil {
		account.BirthDate = cmd.BirthDate
	}
	if cmd.WebSiteURL != nil {
		account.WebSiteURL = cmd.WebSiteURL
	}
	if cmd.ProfileImageURL != nil {
		account.ProfileImageURL = cmd.ProfileImageURL
	}
	account.UpdatedAt = time.Now().UTC()
	return account
}

// HandleVoteEvent is the stream subscriber handler for question and answer
// vote events. Votes are the only path that moves an account's score.
func (s *AccountCommandService) HandleVoteEvent(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.QuestionVoted:
		var data events.QuestionVotedEvent
		if err := decodeEventData(event.Data, &data); err != nil {
			return fmt.Errorf("failed to unmarshal question.voted event: %w", err)
		}
		return s.applyVote(ctx, data.OwnerAccountID, data.VoteType)
	case events.AnswerVoted:
		var data events.AnswerVotedEvent
		if err := decodeEventData(event.Data, &data); err != nil {
			return fmt.Errorf("failed to unmarshal answer.voted event: %w", err)
		}
		return s.applyVote(ctx, data.OwnerAccountID, data.VoteType)
	}
	return nil
}

func (s *AccountCommandService) applyVote(ctx context.Context, ownerAccountID, voteType string) error {
	id, err := uuid.Parse(ownerAccountID)
	if err != nil {
		return fmt.Errorf("invalid owner account id %q: %w", ownerAccountID, err)
	}

	var delta int
	switch voteType {
	case events.VoteUp:
		delta = scoreUpvote
	case events.VoteDown:
		delta = scoreDownvote
	default:
		log.Printf("Ignoring vote event with unknown vote type %q", voteType)
		return nil
	}

	if err := s.store.AdjustScore(ctx, id, delta); err != nil {
		return err
	}
	s.views.InvalidateView(ctx, id)
	return nil
}

func decodeEventData(data any, out any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
