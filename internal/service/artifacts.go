package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/dtroode/promptgallery-server/internal/apierrors"
	"github.com/dtroode/promptgallery-server/internal/logger"
	"github.com/dtroode/promptgallery-server/internal/model"
)

// Artifact kinds, used as key prefixes.
const (
	ArtifactCertificate = "certificates"
	ArtifactImage       = "images"
)

// Artifacts writes uploaded files to the storage backend and maps them to
// public references of the form <publicPrefix>/<key>. Contents are neither
// hashed nor type-checked.
type Artifacts struct {
	storage      model.Storage
	publicPrefix string
	logger       *logger.Logger
	now          func() time.Time
}

func NewArtifacts(storage model.Storage, publicPrefix string, logger *logger.Logger) *Artifacts {
	prefix := strings.Trim(publicPrefix, "/")
	if prefix != "" {
		prefix = "/" + prefix
	}
	return &Artifacts{
		storage:      storage,
		publicPrefix: prefix,
		logger:       logger,
		now:          time.Now,
	}
}

// Save stores upload under a fresh key and returns its public reference and key.
func (a *Artifacts) Save(ctx context.Context, kind string, upload *model.Upload) (ref string, key string, err error) {
	key = a.newKey(kind, upload.Filename)

	size := upload.Size
	if size <= 0 {
		size = -1
	}

	if err := a.storage.Upload(ctx, key, upload.Reader, size, upload.ContentType); err != nil {
		a.logger.Error("Artifacts: failed to store upload",
			"key", key,
			"error", err.Error())
		return "", "", apierrors.NewErrArtifactWrite(err)
	}

	a.logger.Debug("Artifacts: upload stored",
		"key", key,
		"size", upload.Size)

	return a.Ref(key), key, nil
}

// Delete removes an artifact. Failures are logged and swallowed since it only
// runs as cleanup after another failure.
func (a *Artifacts) Delete(ctx context.Context, key string) {
	if err := a.storage.Delete(ctx, key); err != nil {
		a.logger.Warn("Artifacts: failed to delete artifact",
			"key", key,
			"error", err.Error())
	}
}

// Open streams the artifact stored under key. Missing artifacts return model.ErrNotFound.
func (a *Artifacts) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	key = strings.TrimPrefix(path.Clean("/"+key), "/")
	if key == "" || key == "." {
		return nil, model.ErrNotFound
	}

	rc, err := a.storage.Download(ctx, key)
	if errors.Is(err, model.ErrNotFound) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		a.logger.Error("Artifacts: failed to open artifact",
			"key", key,
			"error", err.Error())
		return nil, apierrors.NewErrStorage(err)
	}
	return rc, nil
}

// PublicPrefix returns the normalized path prefix of artifact references.
func (a *Artifacts) PublicPrefix() string {
	return a.publicPrefix
}

// Ref returns the public reference for key.
func (a *Artifacts) Ref(key string) string {
	return a.publicPrefix + "/" + key
}

func (a *Artifacts) newKey(kind, filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	ext := path.Ext(base)
	name := slug.Make(strings.TrimSuffix(base, ext))
	if name == "" {
		name = "file"
	}
	if ext = slug.Make(strings.TrimPrefix(ext, ".")); ext != "" {
		ext = "." + ext
	}

	return fmt.Sprintf("%s/%d-%s-%s%s", kind, a.now().UnixNano(), uuid.NewString()[:8], name, ext)
}
