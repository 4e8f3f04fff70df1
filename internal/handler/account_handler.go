package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quesify/identity-service/internal/cqrs"
	"github.com/quesify/identity-service/internal/middleware"
	"github.com/quesify/identity-service/internal/models"
)

// AccountQuerier defines the read-side operations used by AccountHandler.
type AccountQuerier interface {
	GetAccount(ctx context.Context, q cqrs.GetAccountQuery) (*models.AccountView, error)
}

// AccountCommander defines the write-side operations used by AccountHandler.
type AccountCommander interface {
	UpdateAccount(ctx context.Context, cmd cqrs.UpdateAccountCommand) (*models.AccountView, error)
}

// AccountHandler routes requests to the command or query service and owns the
// mapping from domain error kinds to HTTP statuses.
type AccountHandler struct {
	commands AccountCommander
	queries  AccountQuerier
}

// UpdateAccountRequest is the partial-update payload. Pointer fields
// distinguish "omitted" from "set"; there is deliberately no score field, so
// a score-like value in the body is dropped during decoding.
type UpdateAccountRequest struct {
	DisplayName     *string    `json:"displayName"`
	About           *string    `json:"about"`
	Location        *string    `json:"location"`
	BirthDate       *time.Time `json:"birthDate"`
	WebSiteURL      *string    `json:"webSiteUrl" validate:"omitempty,url"`
	ProfileImageURL *string    `json:"profileImageUrl" validate:"omitempty,url"`
}

func NewAccountHandler(commands AccountCommander, queries AccountQuerier) *AccountHandler {
	return &AccountHandler{commands: commands, queries: queries}
}

// GetAccount serves the public lookup. A syntactically invalid id cannot name
// any account, so it reads as not found rather than bad request.
func (h *AccountHandler) GetAccount(c *gin.Context) {
	id, err := uuid.Parse(c.Param("accountId"))
	if err != nil {
		middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
		return
	}

	view, err := h.queries.GetAccount(c.Request.Context(), cqrs.GetAccountQuery{AccountID: id})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// UpdateAccount applies a partial update to the caller's own account.
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	callerEmail, _ := middleware.CallerEmail(c)

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	view, err := h.commands.UpdateAccount(c.Request.Context(), cqrs.UpdateAccountCommand{
		CallerEmail:     callerEmail,
		DisplayName:     req.DisplayName,
		About:           req.About,
		Location:        req.Location,
		BirthDate:       req.BirthDate,
		WebSiteURL:      req.WebSiteURL,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *AccountHandler) respondError(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	var businessErr *models.BusinessError

	switch {
	case errors.Is(err, models.ErrAccountNotFound):
		middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
	case errors.Is(err, models.ErrUnauthenticated):
		middleware.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
	case errors.As(err, &validationErr):
		middleware.RespondWithValidationError(c, validationErr.Errors)
	case errors.As(err, &businessErr):
		middleware.RespondWithDetails(c, http.StatusUnprocessableEntity, "Update rejected", businessErr.Errors)
	case errors.Is(err, models.ErrStoreUnavailable):
		middleware.RespondWithError(c, http.StatusServiceUnavailable, "Service temporarily unavailable")
	default:
		log.Printf("Unexpected error handling %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		middleware.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}
