package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	httpcontext "github.com/dtroode/promptgallery-server/internal/api/http/context"
	"github.com/dtroode/promptgallery-server/internal/api/http/middleware"
	"github.com/dtroode/promptgallery-server/internal/model"
	"github.com/dtroode/promptgallery-server/internal/password"
	"github.com/dtroode/promptgallery-server/internal/repository/memory"
	"github.com/dtroode/promptgallery-server/internal/service"
	"github.com/dtroode/promptgallery-server/internal/storage/local"
	"github.com/dtroode/promptgallery-server/internal/testutil"
	"github.com/dtroode/promptgallery-server/internal/token"
)

type testServices struct {
	auth       *service.Auth
	categories *service.Categories
	content    *service.Content
	artifacts  *service.Artifacts
	manager    *httpcontext.Manager
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	log := testutil.MakeNoopLogger()

	storage, err := local.NewStorage(t.TempDir())
	require.NoError(t, err)

	users := memory.NewUserRepository()
	categories := service.NewCategories(memory.NewCategoryRepository(), nil, log)
	tokens := service.NewTokenService(token.NewJWT("handler-secret", time.Hour), log)
	artifacts := service.NewArtifacts(storage, "/uploads", log)

	return &testServices{
		auth:       service.NewAuth(users, categories, tokens, password.NewBcrypt(bcrypt.MinCost), artifacts, log),
		categories: categories,
		content:    service.NewContent(memory.NewPromptRepository(), users, categories, tokens, artifacts, log),
		artifacts:  artifacts,
		manager:    httpcontext.NewManager(),
	}
}

// app mounts every handler the way the router does, without the router's
// global middleware.
func (s *testServices) app() *fiber.App {
	log := testutil.MakeNoopLogger()
	authenticate := middleware.NewAuthenticate(s.manager, log)

	auth := NewAuth(s.auth, s.manager, log)
	category := NewCategory(s.categories, log)
	prompt := NewPrompt(s.content, s.manager, log)
	files := NewFiles(s.artifacts, log)

	app := fiber.New(fiber.Config{Immutable: true})
	app.Post("/register", auth.Register)
	app.Post("/login", auth.Login)
	app.Get("/verify", authenticate.Bearer, auth.Verify)
	app.Get("/categories", category.List)
	app.Post("/categories", category.Add)
	app.Get("/prompts", prompt.List)
	app.Get("/allPrompts", prompt.All)
	app.Post("/prompts", authenticate.RequireBearer, prompt.Create)
	app.Get("/prompts/:id", prompt.Get)
	app.Post("/prompts/:id/comments", prompt.AddComment)
	app.Get("/uploads/*", files.Serve)
	return app
}

type formFile struct {
	field    string
	filename string
	content  string
}

func multipartRequest(t *testing.T, target string, fields map[string]string, files ...formFile) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.filename)
		require.NoError(t, err)
		_, err = io.WriteString(part, f.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(fiber.MethodPost, target, &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, bytes.NewReader(data))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func formRequest(target string, fields url.Values) *http.Request {
	req := httptest.NewRequest(fiber.MethodPost, target, strings.NewReader(fields.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return req
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, []byte, http.Header) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body, resp.Header
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}

// registerAndLogin registers a user through the HTTP endpoints and returns a bearer token.
func registerAndLogin(t *testing.T, app *fiber.App, name, email, field string) string {
	t.Helper()

	fields := map[string]string{"name": name, "email": email, "password": "pa55word", "field": field}
	var files []formFile
	if field != "" {
		files = append(files, formFile{field: "certificate", filename: "cert.pdf", content: "cert of " + name})
	}
	status, body, _ := do(t, app, multipartRequest(t, "/register", fields, files...))
	require.Equal(t, fiber.StatusCreated, status, string(body))

	status, body, _ = do(t, app, jsonRequest(t, fiber.MethodPost, "/login", map[string]string{"email": email, "password": "pa55word"}))
	require.Equal(t, fiber.StatusOK, status, string(body))
	return decode[loginResponse](t, body).Token
}

func bearer(req *http.Request, token string) *http.Request {
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	return req
}

// failingContent is a ContentService whose every call fails with err.
type failingContent struct{ err error }

func (f failingContent) CreatePrompt(context.Context, string, model.CreatePromptParams) (model.Prompt, error) {
	return model.Prompt{}, f.err
}
func (f failingContent) ListPrompts(context.Context) ([]model.EnrichedPrompt, error) {
	return nil, f.err
}
func (f failingContent) AllPrompts(context.Context) ([]model.Prompt, error) {
	return nil, f.err
}
func (f failingContent) GetPrompt(context.Context, string) (model.EnrichedPrompt, error) {
	return model.EnrichedPrompt{}, f.err
}
func (f failingContent) AddComment(context.Context, string, string, string) ([]model.Comment, error) {
	return nil, f.err
}
