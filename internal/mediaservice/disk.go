package mediaservice

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/sushihentaime/nightblog/internal/common"
)

const jpegQuality = 85

func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return &DiskStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir is the root directory uploads are written to.
func (s *DiskStore) Dir() string {
	return s.dir
}

// Upload center-crops the image to the target aspect ratio, scales it and writes it as JPEG.
func (s *DiskStore) Upload(ctx context.Context, req *UploadRequest) (string, error) {
	if err := checkImage(req.Content); err != nil {
		return "", err
	}

	if err := checkDimensions(req.Content); err != nil {
		return "", err
	}

	src, _, err := image.Decode(bytes.NewReader(req.Content))
	if err != nil {
		return "", common.ValidationError{Errors: map[string]string{"image": "must be a valid image"}}
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	dst := fill(src, req.Transformation.Width, req.Transformation.Height)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrMediaUpload, err)
	}

	name := req.PublicID
	if name == "" {
		name = uuid.NewString()
	}
	rel := path.Join(req.Folder, name+".jpg")

	if err := writeFile(filepath.Join(s.dir, filepath.FromSlash(rel)), buf.Bytes()); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrMediaUpload, err)
	}

	return s.baseURL + "/" + rel, nil
}

// fill crops the largest centered region with the w:h ratio and scales it to w x h.
func fill(src image.Image, w, h int) image.Image {
	b := src.Bounds()
	if w <= 0 || h <= 0 {
		return src
	}

	cropW, cropH := b.Dx(), b.Dy()
	if cropW*h > cropH*w {
		cropW = cropH * w / h
	} else {
		cropH = cropW * h / w
	}
	cropW, cropH = max(cropW, 1), max(cropH, 1)

	x := b.Min.X + (b.Dx()-cropW)/2
	y := b.Min.Y + (b.Dy()-cropH)/2
	crop := image.Rect(x, y, x+cropW, y+cropH)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, xdraw.Over, nil)

	return dst
}

// writeFile replaces the target through a rename so readers never see a partial file.
func writeFile(target string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), target)
}
