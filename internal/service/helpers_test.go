package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/promptgallery-server/internal/model"
	"github.com/dtroode/promptgallery-server/internal/password"
	"github.com/dtroode/promptgallery-server/internal/repository/memory"
	"github.com/dtroode/promptgallery-server/internal/storage/local"
	"github.com/dtroode/promptgallery-server/internal/testutil"
	"github.com/dtroode/promptgallery-server/internal/token"
)

// testEnv wires the services over in-memory stores, local disk storage and real JWT/bcrypt.
type testEnv struct {
	users      *memory.UserRepository
	categories *memory.CategoryRepository
	prompts    *memory.PromptRepository
	storage    *local.Storage

	registry  *Categories
	tokens    *TokenService
	artifacts *Artifacts
	auth      *Auth
	content   *Content
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := testutil.MakeNoopLogger()

	storage, err := local.NewStorage(t.TempDir())
	require.NoError(t, err)

	env := &testEnv{
		users:      memory.NewUserRepository(),
		categories: memory.NewCategoryRepository(),
		prompts:    memory.NewPromptRepository(),
		storage:    storage,
	}
	env.registry = NewCategories(env.categories, nil, log)
	env.tokens = NewTokenService(token.NewJWT("test-secret", time.Hour), log)
	env.artifacts = NewArtifacts(storage, "/uploads", log)
	env.auth = NewAuth(env.users, env.registry, env.tokens, password.NewBcrypt(bcrypt.MinCost), env.artifacts, log)
	env.content = NewContent(env.prompts, env.users, env.registry, env.tokens, env.artifacts, log)
	return env
}

func upload(name, content string) *model.Upload {
	return &model.Upload{
		Filename:    name,
		ContentType: "application/octet-stream",
		Size:        int64(len(content)),
		Reader:      bytes.NewReader([]byte(content)),
	}
}

// registerAndLogin creates a user and returns a bearer token for it.
func (e *testEnv) registerAndLogin(t *testing.T, name, email, field string) string {
	t.Helper()
	ctx := context.Background()

	params := model.RegisterParams{Name: name, Email: email, Password: "pa55word"}
	if field != "" {
		params.Field = field
		params.Certificate = upload("cert.pdf", "certificate of "+name)
	}
	_, err := e.auth.Register(ctx, params)
	require.NoError(t, err)

	tok, err := e.auth.Login(ctx, email, "pa55word")
	require.NoError(t, err)
	return tok
}
