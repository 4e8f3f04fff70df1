package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quesify/identity-service/internal/cqrs"
	"github.com/quesify/identity-service/internal/models"
)

// ---- mock implementations ----

type mockAccountCommander struct {
	updateFn func(cqrs.UpdateAccountCommand) (*models.AccountView, error)
	got      *cqrs.UpdateAccountCommand
}

func (m *mockAccountCommander) UpdateAccount(_ context.Context, cmd cqrs.UpdateAccountCommand) (*models.AccountView, error) {
	m.got = &cmd
	if m.updateFn != nil {
		return m.updateFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}

type mockAccountQuerier struct {
	getFn func(cqrs.GetAccountQuery) (*models.AccountView, error)
}

func (m *mockAccountQuerier) GetAccount(_ context.Context, q cqrs.GetAccountQuery) (*models.AccountView, error) {
	if m.getFn != nil {
		return m.getFn(q)
	}
	return nil, fmt.Errorf("not configured")
}

// ---- helpers ----

func fakeCaller(email string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if email != "" {
			c.Set("callerEmail", email)
		}
		c.Next()
	}
}

func newAccountTestRouter(cmds AccountCommander, qrys AccountQuerier, callerEmail string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(fakeCaller(callerEmail))
	h := NewAccountHandler(cmds, qrys)
	v1 := r.Group("/v1/accounts")
	v1.GET("/:accountId", h.GetAccount)
	v1.PUT("", h.UpdateAccount)
	return r
}

func accountDoRequest(router *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, nil)
	if body != nil {
		b, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, url, strings.NewReader(string(b)))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ---- test data ----

var aTestID = uuid.MustParse("f2e6f6a0-3c55-4f70-91a1-57c861f5e3a1")

func aTestView() *models.AccountView {
	location := "Berlin"
	return &models.AccountView{
		ID: aTestID, DisplayName: "Alice", Score: 10,
		Location:  &location,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
}

// ---- tests ----

func TestGetAccount(t *testing.T) {
	tests := []struct {
		name           string
		urlAccountID   string
		getFn          func(cqrs.GetAccountQuery) (*models.AccountView, error)
		expectedStatus int
	}{
		{
			name:         "success - fetch account projection",
			urlAccountID: aTestID.String(),
			getFn: func(q cqrs.GetAccountQuery) (*models.AccountView, error) {
				return aTestView(), nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:         "not found - account does not exist",
			urlAccountID: uuid.NewString(),
			getFn: func(q cqrs.GetAccountQuery) (*models.AccountView, error) {
				return nil, models.ErrAccountNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "not found - malformed account id",
			urlAccountID:   "not-a-uuid",
			getFn:          nil,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:         "service unavailable - store unreachable",
			urlAccountID: aTestID.String(),
			getFn: func(q cqrs.GetAccountQuery) (*models.AccountView, error) {
				return nil, fmt.Errorf("%w: connection refused", models.ErrStoreUnavailable)
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAccountTestRouter(&mockAccountCommander{}, &mockAccountQuerier{getFn: tt.getFn}, "")
			w := accountDoRequest(router, http.MethodGet, "/v1/accounts/"+tt.urlAccountID, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestGetAccountNeverLeaksIdentity(t *testing.T) {
	qrys := &mockAccountQuerier{getFn: func(q cqrs.GetAccountQuery) (*models.AccountView, error) {
		return aTestView(), nil
	}}
	router := newAccountTestRouter(&mockAccountCommander{}, qrys, "")

	w := accountDoRequest(router, http.MethodGet, "/v1/accounts/"+aTestID.String(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	for _, forbidden := range []string{"email", "passwordHash", "password_hash", "emailConfirmed", "lockoutEnd"} {
		if _, ok := body[forbidden]; ok {
			t.Errorf("response body must not contain %q; body: %s", forbidden, w.Body.String())
		}
	}
	if body["displayName"] != "Alice" {
		t.Errorf("expected displayName Alice, got %v", body["displayName"])
	}
	if body["score"] != float64(10) {
		t.Errorf("expected score 10, got %v", body["score"])
	}
}

func TestUpdateAccount(t *testing.T) {
	tests := []struct {
		name           string
		callerEmail    string
		body           interface{}
		updateFn       func(cqrs.UpdateAccountCommand) (*models.AccountView, error)
		expectedStatus int
	}{
		{
			name:        "success - partial update of own account",
			callerEmail: "alice@example.com",
			body:        map[string]interface{}{"location": "Berlin"},
			updateFn: func(cmd cqrs.UpdateAccountCommand) (*models.AccountView, error) {
				return aTestView(), nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "unauthorized - no resolved caller",
			callerEmail: "",
			body:        map[string]interface{}{"location": "Berlin"},
			updateFn: func(cmd cqrs.UpdateAccountCommand) (*models.AccountView, error) {
				return nil, models.ErrUnauthenticated
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:        "not found - caller's backing record missing",
			callerEmail: "ghost@example.com",
			body:        map[string]interface{}{"location": "Berlin"},
			updateFn: func(cmd cqrs.UpdateAccountCommand) (*models.AccountView, error) {
				return nil, models.ErrAccountNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:        "bad request - empty display name",
			callerEmail: "alice@example.com",
			body:        map[string]interface{}{"displayName": "   "},
			updateFn: func(cmd cqrs.UpdateAccountCommand) (*models.AccountView, error) {
				return nil, &models.ValidationError{Errors: []models.FieldError{
					{Field: "displayName", Message: "Display name must not be empty"},
				}}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - malformed website URL",
			callerEmail:    "alice@example.com",
			body:           map[string]interface{}{"webSiteUrl": "not a url"},
			updateFn:       nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "unprocessable - store rejected the write",
			callerEmail: "alice@example.com",
			body:        map[string]interface{}{"displayName": "Bob"},
			updateFn: func(cmd cqrs.UpdateAccountCommand) (*models.AccountView, error) {
				return nil, &models.BusinessError{Errors: []models.FieldError{
					{Field: "displayName", Message: "Display name is already taken"},
				}}
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:        "service unavailable - store down mid-update",
			callerEmail: "alice@example.com",
			body:        map[string]interface{}{"location": "Berlin"},
			updateFn: func(cmd cqrs.UpdateAccountCommand) (*models.AccountView, error) {
				return nil, fmt.Errorf("%w: timeout", models.ErrStoreUnavailable)
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockAccountCommander{updateFn: tt.updateFn}
			router := newAccountTestRouter(cmds, &mockAccountQuerier{}, tt.callerEmail)
			w := accountDoRequest(router, http.MethodPut, "/v1/accounts", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestUpdateAccountInvalidJSON(t *testing.T) {
	router := newAccountTestRouter(&mockAccountCommander{}, &mockAccountQuerier{}, "alice@example.com")
	req, _ := http.NewRequest(http.MethodPut, "/v1/accounts", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d; body: %s", w.Code, w.Body.String())
	}
}

// A score-like field in the payload has nowhere to land: the request type has
// no score, so the command passed downstream carries only profile fields.
func TestUpdateAccountIgnoresScoreField(t *testing.T) {
	cmds := &mockAccountCommander{updateFn: func(cmd cqrs.UpdateAccountCommand) (*models.AccountView, error) {
		return aTestView(), nil
	}}
	router := newAccountTestRouter(cmds, &mockAccountQuerier{}, "alice@example.com")

	w := accountDoRequest(router, http.MethodPut, "/v1/accounts", map[string]interface{}{
		"location": "Berlin",
		"score":    9999,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d; body: %s", w.Code, w.Body.String())
	}
	if cmds.got == nil {
		t.Fatal("expected the command service to be called")
	}
	if cmds.got.Location == nil || *cmds.got.Location != "Berlin" {
		t.Errorf("expected location Berlin in command, got %v", cmds.got.Location)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["score"] != float64(10) {
		t.Errorf("expected score untouched at 10, got %v", body["score"])
	}
}

func TestUpdateAccountBusinessErrorDetails(t *testing.T) {
	storeErrors := []models.FieldError{
		{Field: "displayName", Message: "Display name is already taken"},
	}
	cmds := &mockAccountCommander{updateFn: func(cmd cqrs.UpdateAccountCommand) (*models.AccountView, error) {
		return nil, &models.BusinessError{Errors: storeErrors}
	}}
	router := newAccountTestRouter(cmds, &mockAccountQuerier{}, "alice@example.com")

	w := accountDoRequest(router, http.MethodPut, "/v1/accounts", map[string]interface{}{"displayName": "Bob"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d; body: %s", w.Code, w.Body.String())
	}

	var body struct {
		Message string              `json:"message"`
		Details []models.FieldError `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(body.Details) != 1 || body.Details[0] != storeErrors[0] {
		t.Errorf("expected store field errors passed through verbatim, got %+v", body.Details)
	}
}
