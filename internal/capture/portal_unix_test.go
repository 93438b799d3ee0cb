//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/jezek/xgb/xproto"
)

func TestPortalOptions(t *testing.T) {
	prev := portalHandleToken
	portalHandleToken = func() string { return "test-token" }
	t.Cleanup(func() { portalHandleToken = prev })

	values := portalOptions(Options{Interactive: true, IncludeCursor: true})
	if got := values["cursor_mode"].Value(); got != "embedded" {
		t.Fatalf("cursor_mode = %v", got)
	}
	if got := values["interactive"].Value(); got != true {
		t.Fatalf("interactive = %v", got)
	}
	if got := values["handle_token"].Value(); got != "test-token" {
		t.Fatalf("handle_token = %v", got)
	}
	if got := portalOptions(Options{})["cursor_mode"].Value(); got != "hidden" {
		t.Fatalf("default cursor_mode = %v", got)
	}
}

func TestResponsePath(t *testing.T) {
	body := []interface{}{uint32(0), map[string]dbus.Variant{"uri": dbus.MakeVariant("file:///tmp/Screenshot%20one.png")}}
	got, err := responsePath(body)
	if err != nil || got != "/tmp/Screenshot one.png" {
		t.Fatalf("responsePath = %q, %v", got, err)
	}
	if _, err := responsePath([]interface{}{uint32(1), map[string]dbus.Variant{}}); err == nil {
		t.Fatalf("cancelled request accepted")
	}
	if _, err := responsePath([]interface{}{uint32(0), map[string]dbus.Variant{}}); err == nil {
		t.Fatalf("missing uri accepted")
	}
}

func TestZPixmapToRGBA(t *testing.T) {
	formats := []xproto.Format{{Depth: 24, BitsPerPixel: 32}}
	data := []byte{
		0x10, 0x20, 0x30, 0x00, 0x01, 0x02, 0x03, 0x00,
	}
	img, err := zPixmapToRGBA(formats, 24, data, 2, 1)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if got := img.RGBAAt(0, 0); got.R != 0x30 || got.G != 0x20 || got.B != 0x10 || got.A != 0xff {
		t.Fatalf("pixel 0 = %v", got)
	}
	if got := img.RGBAAt(1, 0); got.R != 0x03 || got.B != 0x01 {
		t.Fatalf("pixel 1 = %v", got)
	}
	if _, err := zPixmapToRGBA(formats, 16, data, 2, 1); err == nil {
		t.Fatalf("unknown depth accepted")
	}
}
