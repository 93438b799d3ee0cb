// Package notify sends desktop notifications after an export is saved or
// copied to the clipboard.
package notify

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
)

// Event identifies a notification trigger.
type Event string

const (
	EventSave Event = "save"
	EventCopy Event = "copy"
)

// Message is one notification as handed to the desktop.
type Message struct {
	Title    string
	Body     string
	IconPath string
}

// Notifier formats and dispatches notifications for enabled events.
type Notifier struct {
	title     string
	templates map[Event]string
	enabled   map[Event]bool
	send      func(Message) error
}

// New returns a notifier with every event disabled.
func New(title string) *Notifier {
	if strings.TrimSpace(title) == "" {
		title = "snapmark"
	}
	return &Notifier{
		title: title,
		templates: map[Event]string{
			EventSave: "Saved %s",
			EventCopy: "Copied %s to clipboard",
		},
		enabled: map[Event]bool{},
		send:    deliver,
	}
}

// Enable toggles notifications for event.
func (n *Notifier) Enable(event Event, on bool) {
	if n == nil {
		return
	}
	n.enabled[event] = on
}

// SetTemplate overrides the fmt template used for event. It must contain
// one %s verb.
func (n *Notifier) SetTemplate(event Event, tmpl string) {
	if n == nil || strings.TrimSpace(tmpl) == "" {
		return
	}
	n.templates[event] = tmpl
}

// Save announces a written file, using it as the notification icon.
func (n *Notifier) Save(path string) {
	detail := strings.TrimSpace(path)
	if abs, err := filepath.Abs(detail); err == nil {
		detail = abs
	}
	n.dispatch(EventSave, detail, detail)
}

// Copy announces a clipboard copy.
func (n *Notifier) Copy(detail string) {
	if strings.TrimSpace(detail) == "" {
		detail = "image"
	}
	n.dispatch(EventCopy, detail, "")
}

func (n *Notifier) dispatch(event Event, detail, icon string) {
	if n == nil || !n.enabled[event] {
		return
	}
	tmpl := strings.TrimSpace(n.templates[event])
	if tmpl == "" {
		return
	}
	msg := Message{Title: n.title, Body: fmt.Sprintf(tmpl, detail), IconPath: icon}
	if err := n.send(msg); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}
