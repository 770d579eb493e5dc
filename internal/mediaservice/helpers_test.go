package mediaservice

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// testPNG returns an encoded w x h PNG with a solid fill.
func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 90, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	return buf.Bytes()
}

// blankImage is a black w x h grayscale image that allocates no pixel buffer.
type blankImage struct {
	w, h int
}

func (b blankImage) ColorModel() color.Model { return color.GrayModel }
func (b blankImage) Bounds() image.Rectangle { return image.Rect(0, 0, b.w, b.h) }
func (b blankImage) At(x, y int) color.Color { return color.Gray{} }

// blankPNG encodes a black w x h PNG. It compresses to a small fraction of its bitmap.
func blankPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, blankImage{w: w, h: h}); err != nil {
		t.Fatal(err)
	}

	return buf.Bytes()
}

// pngHeader returns just the signature and IHDR chunk of a w x h grayscale PNG.
func pngHeader(w, h uint32) []byte {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], w)
	binary.BigEndian.PutUint32(ihdr[4:8], h)
	ihdr[8] = 8 // bit depth, then gray color type and default methods

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))

	chunk := append([]byte("IHDR"), ihdr...)
	buf.Write(chunk)
	binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))

	return buf.Bytes()
}
