package validate

import (
	"encoding/base64"
	"fmt"
	"strings"

	"chatrelay/internal/core"
)

// MaxImageBytes is the maximum decoded image size (5 MiB).
const MaxImageBytes int64 = 5 * 1024 * 1024

// EstimatedSize returns a cheap upper-bound estimate of the decoded size of a
// base64 string: floor(len*3/4) minus the padding count. It can be off by a
// few bytes near the boundary, which is why an exact recheck follows the
// decode.
func EstimatedSize(data string) int64 {
	var padding int64
	switch {
	case strings.HasSuffix(data, "=="):
		padding = 2
	case strings.HasSuffix(data, "="):
		padding = 1
	}
	return int64(len(data))*3/4 - padding
}

// checkImage validates an inline image payload and returns its decoded size.
// The size estimate runs before any decoding so obviously-too-large payloads
// never allocate a decode buffer.
func checkImage(img *core.ImageInput) (int64, error) {
	if !strings.HasPrefix(img.MIMEType, "image/") {
		return 0, core.NewInvalidImageError(
			fmt.Sprintf("unsupported media type %q, expected an image/* type", img.MIMEType), nil)
	}

	data := img.DataBase64
	if strings.TrimSpace(data) == "" {
		return 0, core.NewInvalidImageError("image data must not be empty", nil)
	}

	if estimated := EstimatedSize(data); estimated > MaxImageBytes {
		return 0, core.NewInvalidImageError(
			fmt.Sprintf("estimated size %d bytes exceeds %d byte limit", estimated, MaxImageBytes), nil)
	}

	decoded, err := base64.StdEncoding.Strict().DecodeString(data)
	if err != nil {
		return 0, core.NewInvalidImageError("data is not valid base64", err)
	}

	if int64(len(decoded)) > MaxImageBytes {
		return 0, core.NewInvalidImageError(
			fmt.Sprintf("size %d bytes exceeds %d byte limit", len(decoded), MaxImageBytes), nil)
	}

	return int64(len(decoded)), nil
}
