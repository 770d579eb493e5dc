package mediaservice

import (
	"context"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/mock"
)

type MockUploadAPI struct {
	mock.Mock
}

func (m *MockUploadAPI) Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	args := m.Called(params)
	res, _ := args.Get(0).(*uploader.UploadResult)
	return res, args.Error(1)
}
