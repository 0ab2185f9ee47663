package handler

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/promptgallery-server/internal/apierrors"
	"github.com/dtroode/promptgallery-server/internal/model"
)

// formUpload opens the multipart file in field. A request without the file
// yields a nil upload; the returned close func is always safe to call.
func formUpload(c *fiber.Ctx, field string) (*model.Upload, func(), error) {
	noop := func() {}

	header, err := c.FormFile(field)
	if err != nil {
		return nil, noop, nil
	}

	file, err := header.Open()
	if err != nil {
		return nil, noop, apierrors.NewErrArtifactWrite(err)
	}

	return &model.Upload{
		Filename:    header.Filename,
		ContentType: contentType(header),
		Size:        header.Size,
		Reader:      file,
	}, func() { _ = file.Close() }, nil
}

func contentType(header *multipart.FileHeader) string {
	if ct := header.Header.Get(fiber.HeaderContentType); ct != "" {
		return ct
	}
	return fiber.MIMEOctetStream
}
