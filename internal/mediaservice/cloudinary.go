package mediaservice

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/sushihentaime/nightblog/internal/common"
)

func NewCloudinaryStore(cloudName, apiKey, apiSecret string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	cld.Config.URL.Secure = true

	return &CloudinaryStore{api: &cld.Upload}, nil
}

// Upload sends the image to Cloudinary with the transformation applied on ingest.
func (s *CloudinaryStore) Upload(ctx context.Context, req *UploadRequest) (string, error) {
	if err := checkImage(req.Content); err != nil {
		return "", err
	}

	params := uploader.UploadParams{
		Folder:         req.Folder,
		PublicID:       req.PublicID,
		Transformation: req.Transformation.String(),
	}

	res, err := s.api.Upload(ctx, bytes.NewReader(req.Content), params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrMediaUpload, err)
	}

	// API level failures come back in the result, not as an error.
	if res.Error.Message != "" {
		return "", fmt.Errorf("%w: %s", common.ErrMediaUpload, res.Error.Message)
	}

	if res.SecureURL == "" {
		return "", fmt.Errorf("%w: %v", common.ErrMediaUpload, errors.New("empty url in upload result"))
	}

	return res.SecureURL, nil
}
