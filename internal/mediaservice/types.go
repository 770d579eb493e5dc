package mediaservice

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// MaxUploadSize bounds a single image upload.
const MaxUploadSize = 10 << 20

// MaxPixels bounds the decoded size of an image stored on disk.
const MaxPixels = 40_000_000

const (
	ProfileFolder = "nightblog/profiles"
	CoverFolder   = "nightblog/covers"
)

// Transformation is a fill crop to a fixed size. Gravity is only honoured by Cloudinary.
type Transformation struct {
	Width   int
	Height  int
	Gravity string
}

// String renders the transformation in Cloudinary's URL syntax.
func (t Transformation) String() string {
	if t.Gravity == "" {
		return fmt.Sprintf("c_fill,h_%d,w_%d", t.Height, t.Width)
	}
	return fmt.Sprintf("c_fill,g_%s,h_%d,w_%d", t.Gravity, t.Height, t.Width)
}

type UploadRequest struct {
	Folder string
	// PublicID makes the stored key deterministic; repeated uploads with the same id overwrite.
	// Empty means a fresh key per upload.
	PublicID       string
	Content        []byte
	Transformation Transformation
}

// Uploader stores image bytes and returns a permanent URL.
type Uploader interface {
	Upload(ctx context.Context, req *UploadRequest) (string, error)
}

type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

type CloudinaryStore struct {
	api uploadAPI
}

type DiskStore struct {
	dir     string
	baseURL string
}

// ProfilePicture keys the upload on the user id so a new picture replaces the old one.
func ProfilePicture(userID string, content []byte) *UploadRequest {
	return &UploadRequest{
		Folder:         ProfileFolder,
		PublicID:       "profile_" + userID,
		Content:        content,
		Transformation: Transformation{Width: 400, Height: 400, Gravity: "face"},
	}
}

func CoverImage(content []byte) *UploadRequest {
	return &UploadRequest{
		Folder:         CoverFolder,
		Content:        content,
		Transformation: Transformation{Width: 1200, Height: 630},
	}
}
