package handler

import (
	"io"
	"mime/multipart"

	"github.com/labstack/echo/v4"

	"roomlink/internal/infrastructure/storage"
	"roomlink/pkg/errors"
)

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.BadRequest("Invalid request body", err)
	}
	return c.Validate(req)
}

// openImage opens the named multipart file, rejecting anything over the upload limit.
func openImage(c echo.Context, field string) (multipart.File, string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return nil, "", errors.BadRequest("Missing or invalid file", err)
	}
	if file.Size > storage.MaxImageSize {
		return nil, "", errors.BadRequest("File is too large", nil)
	}

	src, err := file.Open()
	if err != nil {
		return nil, "", errors.Internal("Unable to read file", err)
	}
	return src, file.Header.Get("Content-Type"), nil
}

func closeQuietly(c io.Closer) {
	if c != nil {
		c.Close()
	}
}
