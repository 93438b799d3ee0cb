//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"context"
	"fmt"
	"image"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

func (unixBackend) Root(ctx context.Context) (*image.RGBA, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect X server: %w", err)
	}
	defer conn.Close()

	setup := xproto.Setup(conn)
	if setup == nil {
		return nil, fmt.Errorf("xproto setup unavailable")
	}
	screen := setup.DefaultScreen(conn)
	if screen == nil {
		return nil, fmt.Errorf("xproto screen unavailable")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w, h := screen.WidthInPixels, screen.HeightInPixels
	reply, err := xproto.GetImage(conn, xproto.ImageFormatZPixmap, xproto.Drawable(screen.Root), 0, 0, w, h, ^uint32(0)).Reply()
	if err != nil {
		return nil, fmt.Errorf("root window pixels: %w", err)
	}
	return zPixmapToRGBA(setup.PixmapFormats, reply.Depth, reply.Data, int(w), int(h))
}

// zPixmapToRGBA converts BGRx little-endian ZPixmap rows to RGBA.
func zPixmapToRGBA(formats []xproto.Format, depth byte, data []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("screen has empty geometry")
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("screen pixels: empty image data")
	}
	bpp := 0
	for _, f := range formats {
		if f.Depth == depth {
			bpp = int(f.BitsPerPixel) / 8
			break
		}
	}
	if bpp < 3 {
		return nil, fmt.Errorf("unsupported screen depth %d", depth)
	}
	stride := len(data) / height
	if stride*height != len(data) || stride < width*bpp {
		return nil, fmt.Errorf("screen pixels: unexpected stride")
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		row := data[y*stride : (y+1)*stride]
		for x := 0; x < width; x++ {
			src := row[x*bpp:]
			i := img.PixOffset(x, y)
			img.Pix[i+0] = src[2]
			img.Pix[i+1] = src[1]
			img.Pix[i+2] = src[0]
			img.Pix[i+3] = 0xff
		}
	}
	return img, nil
}
