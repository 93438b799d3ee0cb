//go:build linux

package notify

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// deliver uses the freedesktop.org notification service.
func deliver(m Message) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("dbus connect: %w", err)
	}
	defer conn.Close()

	obj := conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
	call := obj.Call("org.freedesktop.Notifications.Notify", 0,
		"snapmark", uint32(0), m.IconPath, m.Title, m.Body, []string{}, map[string]dbus.Variant{}, int32(5000))
	return call.Err
}
