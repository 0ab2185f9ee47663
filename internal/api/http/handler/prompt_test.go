package handler

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpcontext "github.com/dtroode/promptgallery-server/internal/api/http/context"
	"github.com/dtroode/promptgallery-server/internal/apierrors"
	"github.com/dtroode/promptgallery-server/internal/mocks"
	"github.com/dtroode/promptgallery-server/internal/testutil"
)

func promptFields(category string) map[string]string {
	return map[string]string{
		"title":        "Haiku bot",
		"category":     category,
		"description":  "Writes haiku",
		"resultOutput": "An old silent pond",
	}
}

var pondImage = formFile{field: "image", filename: "pond.jpg", content: "jpeg bytes"}

func TestPrompt_CreateListGetComment(t *testing.T) {
	t.Parallel()

	app := newTestServices(t).app()
	token := registerAndLogin(t, app, "Alice", "alice@example.com", "AI/ML")

	status, body, _ := do(t, app, bearer(multipartRequest(t, "/prompts", promptFields("ai ml"), pondImage), token))
	require.Equal(t, fiber.StatusCreated, status, string(body))
	created := decode[createPromptResponse](t, body)
	assert.Equal(t, "Prompt added successfully", created.Message)
	assert.Equal(t, "AI/ML", created.Data.Category)
	assert.Equal(t, "alice@example.com", created.Data.CreatedBy)
	require.NotNil(t, created.Data.Certificate)
	assert.True(t, strings.HasPrefix(*created.Data.Certificate, "/uploads/certificates/"))
	assert.True(t, strings.HasPrefix(created.Data.Image, "/uploads/images/"))
	assert.Empty(t, created.Data.Comments)

	t.Run("image is served", func(t *testing.T) {
		status, body, header := do(t, app, httptest.NewRequest(fiber.MethodGet, created.Data.Image, nil))
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "jpeg bytes", string(body))
		assert.Equal(t, "image/jpeg", header.Get(fiber.HeaderContentType))
	})

	t.Run("list", func(t *testing.T) {
		status, body, _ := do(t, app, httptest.NewRequest(fiber.MethodGet, "/prompts", nil))
		require.Equal(t, fiber.StatusOK, status)
		list := decode[[]promptResponse](t, body)
		require.Len(t, list, 1)
		require.NotNil(t, list[0].User)
		assert.Equal(t, "Alice", list[0].User.Name)
		assert.Equal(t, created.Data.ID, list[0].ID)
	})

	t.Run("comments", func(t *testing.T) {
		target := "/prompts/" + created.Data.ID + "/comments"

		status, body, _ := do(t, app, jsonRequest(t, fiber.MethodPost, target, map[string]string{"author": "Bob", "text": "nice"}))
		require.Equal(t, fiber.StatusOK, status, string(body))
		assert.Len(t, decode[[]commentResponse](t, body), 1)

		status, body, _ = do(t, app, jsonRequest(t, fiber.MethodPost, target, map[string]string{"name": "Carol", "text": "agreed"}))
		require.Equal(t, fiber.StatusOK, status, string(body))
		comments := decode[[]commentResponse](t, body)
		require.Len(t, comments, 2)
		assert.Equal(t, "Bob", comments[0].Author)
		assert.Equal(t, "Carol", comments[1].Author)
		assert.False(t, comments[1].CreatedAt.Before(comments[0].CreatedAt))

		status, body, _ = do(t, app, jsonRequest(t, fiber.MethodPost, target, map[string]string{"text": "anon"}))
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, `Field "author" is required`, decode[messageResponse](t, body).Message)
	})

	t.Run("list carries comments", func(t *testing.T) {
		status, body, _ := do(t, app, httptest.NewRequest(fiber.MethodGet, "/prompts", nil))
		require.Equal(t, fiber.StatusOK, status)
		list := decode[[]promptResponse](t, body)
		require.Len(t, list, 1)
		require.Len(t, list[0].Comments, 2)
		assert.Equal(t, "nice", list[0].Comments[0].Text)
		assert.Equal(t, "Carol", list[0].Comments[1].Author)
	})

	t.Run("public listing omits author and comments", func(t *testing.T) {
		status, body, _ := do(t, app, httptest.NewRequest(fiber.MethodGet, "/allPrompts", nil))
		require.Equal(t, fiber.StatusOK, status)
		list := decode[[]map[string]any](t, body)
		require.Len(t, list, 1)
		assert.Equal(t, created.Data.ID, list[0]["id"])
		assert.Equal(t, "Haiku bot", list[0]["title"])
		assert.Equal(t, "alice@example.com", list[0]["createdBy"])
		assert.NotContains(t, list[0], "user")
		assert.NotContains(t, list[0], "comments")
	})

	t.Run("get", func(t *testing.T) {
		status, body, _ := do(t, app, httptest.NewRequest(fiber.MethodGet, "/prompts/"+created.Data.ID, nil))
		require.Equal(t, fiber.StatusOK, status)
		got := decode[promptResponse](t, body)
		assert.Len(t, got.Comments, 2)
		assert.Equal(t, "alice@example.com", got.User.Email)
	})
}

func TestPrompt_CreateRejections(t *testing.T) {
	t.Parallel()

	app := newTestServices(t).app()
	token := registerAndLogin(t, app, "Alice", "alice@example.com", "AI/ML")
	status, _, _ := do(t, app, jsonRequest(t, fiber.MethodPost, "/categories", map[string]string{"name": "Cooking"}))
	require.Equal(t, fiber.StatusOK, status)

	tests := []struct {
		name       string
		token      string
		fields     map[string]string
		files      []formFile
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "no token",
			fields:     promptFields("AI/ML"),
			files:      []formFile{pondImage},
			wantStatus: fiber.StatusUnauthorized,
			wantMsg:    "No token provided",
		},
		{
			name:       "forged token",
			token:      "forged",
			fields:     promptFields("AI/ML"),
			files:      []formFile{pondImage},
			wantStatus: fiber.StatusForbidden,
			wantMsg:    apierrors.MessageInvalidToken,
		},
		{
			name:       "category lock",
			token:      token,
			fields:     promptFields("Cooking"),
			files:      []formFile{pondImage},
			wantStatus: fiber.StatusBadRequest,
			wantMsg:    `You can only post prompts in your certified field "AI/ML"`,
		},
		{
			name:       "missing image",
			token:      token,
			fields:     promptFields("AI/ML"),
			wantStatus: fiber.StatusBadRequest,
			wantMsg:    `Field "image" is required`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := multipartRequest(t, "/prompts", tt.fields, tt.files...)
			if tt.token != "" {
				req = bearer(req, tt.token)
			}

			status, body, _ := do(t, app, req)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, decode[messageResponse](t, body).Message)
		})
	}

	status, body, _ := do(t, app, httptest.NewRequest(fiber.MethodGet, "/prompts", nil))
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))
}

func TestPrompt_NotFound(t *testing.T) {
	t.Parallel()

	app := newTestServices(t).app()

	for _, id := range []string{uuid.NewString(), "not-a-uuid"} {
		status, body, _ := do(t, app, httptest.NewRequest(fiber.MethodGet, "/prompts/"+id, nil))
		assert.Equal(t, fiber.StatusNotFound, status)
		assert.Equal(t, "Prompt not found", decode[messageResponse](t, body).Message)

		status, body, _ = do(t, app, jsonRequest(t, fiber.MethodPost, "/prompts/"+id+"/comments", map[string]string{}))
		assert.Equal(t, fiber.StatusNotFound, status)
		assert.Equal(t, "Prompt not found", decode[messageResponse](t, body).Message)
	}
}

func TestPrompt_ServiceFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
		wantRetry  string
	}{
		{
			name:       "storage error is retryable",
			err:        apierrors.NewErrStorage(context.DeadlineExceeded),
			wantStatus: fiber.StatusServiceUnavailable,
			wantMsg:    apierrors.MessageStorage,
			wantRetry:  "1",
		},
		{
			name:       "unexpected error is generic",
			err:        errors.New("pq: connection reset"),
			wantStatus: fiber.StatusInternalServerError,
			wantMsg:    apierrors.MessageInternal,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewPrompt(failingContent{err: tt.err}, httpcontext.NewManager(), testutil.MakeNoopLogger())
			app := fiber.New()
			app.Get("/prompts", h.List)
			app.Get("/allPrompts", h.All)

			status, body, header := do(t, app, httptest.NewRequest(fiber.MethodGet, "/prompts", nil))
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, decode[messageResponse](t, body).Message)
			assert.Equal(t, tt.wantRetry, header.Get(fiber.HeaderRetryAfter))
			assert.NotContains(t, string(body), "connection reset")

			status, body, _ = do(t, app, httptest.NewRequest(fiber.MethodGet, "/allPrompts", nil))
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, decode[map[string]string](t, body)["error"])
		})
	}
}

func TestPrompt_CreateWithoutTokenOnContext(t *testing.T) {
	t.Parallel()

	services := newTestServices(t)
	contextManager := mocks.NewContextManager(t)
	contextManager.On("GetTokenFromContext", mock.Anything).Return("", false).Once()

	h := NewPrompt(services.content, contextManager, testutil.MakeNoopLogger())
	app := fiber.New()
	app.Post("/prompts", h.Create)

	status, body, _ := do(t, app, multipartRequest(t, "/prompts", promptFields("Writing"), pondImage))
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "No token provided", decode[messageResponse](t, body).Message)

	status, body, _ = do(t, services.app(), httptest.NewRequest(fiber.MethodGet, "/prompts", nil))
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))
}
