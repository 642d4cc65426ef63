package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// IconSizes are the square raster icons the build expects as default<size>.png
var IconSizes = []int{16, 22, 24, 32, 48, 64, 128, 256, 512}

// About logo sizes rendered from logo.png
const (
	AboutLogoSize   = 512
	AboutLogo2xSize = 1024
)

// ScalePNG returns data as a size×size PNG. Input already at that size is
// returned unchanged.
func ScalePNG(data []byte, size int) ([]byte, error) {
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read png header: %w", err)
	}
	if cfg.Width == size && cfg.Height == size {
		return data, nil
	}

	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode png: %w", err)
	}
	return encodePNG(scale(src, size))
}

func scale(src image.Image, size int) image.Image {
	if b := src.Bounds(); b.Dx() == size && b.Dy() == size {
		return src
	}
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
