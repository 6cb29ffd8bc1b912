package storage

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"

	"roomlink/pkg/errors"
)

// MaxImageSize caps listing and chat image uploads.
const MaxImageSize = 10 << 20

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp", "image/heic"}

type DetectedType struct {
	MIME      string
	Extension string
}

// DetectImage sniffs the head of r and returns a reader that still yields
// the complete payload.
func DetectImage(r io.Reader) (*DetectedType, io.Reader, error) {
	head := make([]byte, 3072)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, nil, errors.BadRequest("Failed to read upload", err)
	}
	head = head[:n]
	if n == 0 {
		return nil, nil, errors.BadRequest("Empty upload", nil)
	}

	mt := mimetype.Detect(head)
	if !mimetype.EqualsAny(mt.String(), allowedImageTypes...) {
		return nil, nil, errors.BadRequest(fmt.Sprintf("Unsupported file type %s", mt.String()), nil)
	}

	body := io.LimitReader(io.MultiReader(bytes.NewReader(head), r), MaxImageSize)
	return &DetectedType{MIME: mt.String(), Extension: mt.Extension()}, body, nil
}
