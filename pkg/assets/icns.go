package assets

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
)

// MacIconName is the icon container written on macOS
const MacIconName = "firefox.icns"

// MacIconsetDirName is the scratch directory frames are rendered into
const MacIconsetDirName = "macos_icon_info.iconset"

// MacIconSizes are the nominal point sizes of the macOS icon
var MacIconSizes = []int{16, 32, 64, 128, 256, 512}

// IconFrame is one PNG-encoded image inside an icns container
type IconFrame struct {
	// Name is the iconset file name, e.g. icon_16x16@2x.png
	Name   string
	Pixels int
	// OSType is the four character icns element type
	OSType string
}

// MacIconFrames lists the iconset frames rendered for MacIconSizes. Retina
// frames without an icns element type are omitted.
func MacIconFrames() []IconFrame {
	elements := map[int][2]string{
		16:  {"icp4", "ic11"},
		32:  {"icp5", "ic12"},
		64:  {"icp6", ""},
		128: {"ic07", "ic13"},
		256: {"ic08", "ic14"},
		512: {"ic09", "ic10"},
	}

	var frames []IconFrame
	for _, size := range MacIconSizes {
		t := elements[size]
		frames = append(frames, IconFrame{
			Name:   fmt.Sprintf("icon_%dx%d.png", size, size),
			Pixels: size,
			OSType: t[0],
		})
		if t[1] != "" {
			frames = append(frames, IconFrame{
				Name:   fmt.Sprintf("icon_%dx%d@2x.png", size, size),
				Pixels: size * 2,
				OSType: t[1],
			})
		}
	}
	return frames
}

// RenderFrame scales src to the frame size and encodes it
func RenderFrame(src image.Image, frame IconFrame) ([]byte, error) {
	return encodePNG(scale(src, frame.Pixels))
}

// EncodeICNS packs PNG frames into an icns container. Elements are
// written in the given order.
func EncodeICNS(frames []IconFrame, data [][]byte) ([]byte, error) {
	if len(frames) != len(data) {
		return nil, fmt.Errorf("icns: %d frames but %d images", len(frames), len(data))
	}

	total := 8
	for i, f := range frames {
		if len(f.OSType) != 4 {
			return nil, fmt.Errorf("icns: invalid element type %q", f.OSType)
		}
		total += 8 + len(data[i])
	}

	var buf bytes.Buffer
	buf.Grow(total)
	buf.WriteString("icns")
	_ = binary.Write(&buf, binary.BigEndian, uint32(total))
	for i, f := range frames {
		buf.WriteString(f.OSType)
		_ = binary.Write(&buf, binary.BigEndian, uint32(8+len(data[i])))
		buf.Write(data[i])
	}
	return buf.Bytes(), nil
}

// decodePNG is used for sources that feed several frames
func decodePNG(data []byte) (image.Image, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode png: %w", err)
	}
	return img, nil
}
