package mediaservice

import (
	"bytes"
	"image"
	"net/http"

	"github.com/sushihentaime/nightblog/internal/common"
)

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

func validateImage(v *common.Validator, content []byte) {
	v.Check(len(content) > 0, "image", "must be provided")
	v.Check(len(content) <= MaxUploadSize, "image", "must not be larger than 10MB")
	v.Check(allowedTypes[http.DetectContentType(content)], "image", "must be a jpeg, png, gif or webp image")
}

func checkImage(content []byte) error {
	v := common.NewValidator()
	validateImage(v, content)
	if !v.Valid() {
		return v.ValidationError()
	}

	return nil
}

// checkDimensions reads only the image header and rejects images whose decoded bitmap would
// exceed MaxPixels.
func checkDimensions(content []byte) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return common.ValidationError{Errors: map[string]string{"image": "must be a valid image"}}
	}

	v := common.NewValidator()
	v.Check(cfg.Width > 0 && cfg.Height > 0, "image", "must be a valid image")
	v.Check(int64(cfg.Width)*int64(cfg.Height) <= MaxPixels, "image", "must not be larger than 40 megapixels")
	if !v.Valid() {
		return v.ValidationError()
	}

	return nil
}
