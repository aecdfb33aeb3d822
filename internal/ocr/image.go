package ocr

import (
	"encoding/base64"
	"net/http"
	"os"

	"github.com/rotisserie/eris"
)

// readImage loads an image and returns its media type and base64 payload.
func readImage(path string) (mediaType, data string, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", "", eris.Wrapf(err, "ocr: read image %s", path)
	}
	mediaType = http.DetectContentType(raw)
	switch mediaType {
	case "image/png", "image/jpeg", "image/gif", "image/webp":
	default:
		return "", "", eris.Errorf("ocr: %s is not a supported image (%s)", path, mediaType)
	}
	return mediaType, base64.StdEncoding.EncodeToString(raw), nil
}
