//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/godbus/dbus/v5"
)

var portalHandleToken = func() string {
	return fmt.Sprintf("snapmark_%d", time.Now().UnixNano())
}

type unixBackend struct{}

func newBackend() backend { return unixBackend{} }

func (unixBackend) Portal(ctx context.Context, opts Options) ([]byte, error) {
	conn, err := dbus.ConnectSessionBus(dbus.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("dbus connect: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "dbus close: %v\n", cerr)
		}
	}()

	sigc := make(chan *dbus.Signal, 4)
	conn.Signal(sigc)
	matchOpts := []dbus.MatchOption{
		dbus.WithMatchInterface("org.freedesktop.portal.Request"),
		dbus.WithMatchMember("Response"),
	}
	if err := conn.AddMatchSignal(matchOpts...); err != nil {
		return nil, fmt.Errorf("portal subscribe: %w", err)
	}
	defer conn.RemoveMatchSignal(matchOpts...)

	obj := conn.Object("org.freedesktop.portal.Desktop", "/org/freedesktop/portal/desktop")
	var handle dbus.ObjectPath
	call := obj.CallWithContext(ctx, "org.freedesktop.portal.Screenshot.Screenshot", 0, "", portalOptions(opts))
	if call.Err != nil {
		return nil, fmt.Errorf("portal screenshot call: %w", call.Err)
	}
	if err := call.Store(&handle); err != nil {
		return nil, fmt.Errorf("portal screenshot response: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case sig, ok := <-sigc:
			if !ok {
				return nil, errors.New("portal screenshot: bus closed")
			}
			if sig.Path != handle || sig.Name != "org.freedesktop.portal.Request.Response" {
				continue
			}
			path, err := responsePath(sig.Body)
			if err != nil {
				return nil, err
			}
			return readAndRemove(path)
		}
	}
}

func portalOptions(opts Options) map[string]dbus.Variant {
	cursor := "hidden"
	if opts.IncludeCursor {
		cursor = "embedded"
	}
	return map[string]dbus.Variant{
		"handle_token": dbus.MakeVariant(portalHandleToken()),
		"interactive":  dbus.MakeVariant(opts.Interactive),
		"modal":        dbus.MakeVariant(opts.Interactive),
		"cursor_mode":  dbus.MakeVariant(cursor),
	}
}

// responsePath extracts the file path from a Request.Response body
// (response code, results).
func responsePath(body []interface{}) (string, error) {
	if len(body) < 2 {
		return "", errors.New("portal screenshot: malformed response")
	}
	if code, ok := body[0].(uint32); ok && code != 0 {
		return "", fmt.Errorf("portal screenshot: request ended with code %d", code)
	}
	results, ok := body[1].(map[string]dbus.Variant)
	if !ok {
		return "", errors.New("portal screenshot: malformed results")
	}
	v, ok := results["uri"]
	if !ok {
		return "", errors.New("portal screenshot: response missing image data")
	}
	raw, ok := v.Value().(string)
	if !ok {
		return "", errors.New("portal screenshot: uri is not a string")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("portal screenshot uri: %w", err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("portal screenshot uri %q is not a file", raw)
	}
	return u.Path, nil
}

func readAndRemove(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("portal screenshot image: %w", err)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "remove %s: %v\n", path, err)
	}
	return data, nil
}
