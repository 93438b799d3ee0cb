package editor

import (
	"strings"
	"time"

	"github.com/example/snapmark/internal/annotation"
)

// BlurGrace is how long the text widget may stay unfocused before the
// edit is committed. Hosts wait this long between Blur and FinishBlur.
const BlurGrace = 150 * time.Millisecond

// EditToken identifies one text edit. Calls carrying a token from an
// earlier edit are ignored.
type EditToken uint64

// Edit describes the text edit in progress.
type Edit struct {
	Token EditToken
	ID    int
	// Initial is the text the widget should start with.
	Initial string
	Draft   string
}

type editSession struct {
	token    EditToken
	id       int
	initial  string
	draft    string
	blurring bool
	// fresh marks an edit on a placeholder placed by the Text tool that
	// has not been confirmed yet.
	fresh bool
}

func (e *Editor) beginEdit(o *annotation.Object, fresh bool) {
	initial := o.Shape.(*annotation.Text).Content
	if fresh {
		initial = ""
	}
	e.tokens++
	e.edit = &editSession{token: e.tokens, id: o.ID, initial: initial, draft: initial, fresh: fresh}
	e.state = StateEditing
}

// ActiveEdit returns the edit in progress, if any.
func (e *Editor) ActiveEdit() (Edit, bool) {
	if e.edit == nil {
		return Edit{}, false
	}
	return Edit{Token: e.edit.token, ID: e.edit.id, Initial: e.edit.initial, Draft: e.edit.draft}, true
}

func (e *Editor) current(tok EditToken) *editSession {
	if e.edit == nil || e.edit.token != tok {
		return nil
	}
	return e.edit
}

// SetDraft records the widget's current text.
func (e *Editor) SetDraft(tok EditToken, s string) bool {
	es := e.current(tok)
	if es == nil {
		return false
	}
	es.draft = s
	return true
}

// CommitText confirms the edit with s. Text that is empty after trimming
// deletes the object.
func (e *Editor) CommitText(tok EditToken, s string) bool {
	if e.current(tok) == nil {
		return false
	}
	e.commitEdit(s)
	return true
}

// CancelText abandons the edit. A never edited placeholder is removed,
// an existing text keeps its content.
func (e *Editor) CancelText(tok EditToken) bool {
	if e.current(tok) == nil {
		return false
	}
	e.cancelEdit()
	return true
}

// Blur notes that the widget lost focus. The host calls FinishBlur once
// BlurGrace has passed.
func (e *Editor) Blur(tok EditToken) bool {
	es := e.current(tok)
	if es == nil {
		return false
	}
	es.blurring = true
	return true
}

// Focus withdraws a pending blur.
func (e *Editor) Focus(tok EditToken) bool {
	es := e.current(tok)
	if es == nil {
		return false
	}
	es.blurring = false
	return true
}

// FinishBlur commits the draft if the blur for tok is still pending.
func (e *Editor) FinishBlur(tok EditToken) bool {
	es := e.current(tok)
	if es == nil || !es.blurring {
		return false
	}
	e.commitEdit(es.draft)
	return true
}

func (e *Editor) commitEdit(s string) {
	es := e.edit
	e.endEdit()
	o := e.store.Get(es.id)
	if o == nil {
		e.flushImages()
		return
	}
	t := o.Shape.(*annotation.Text)
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		e.store.Delete(o.ID)
		if !es.fresh {
			e.commit()
		}
		e.flushImages()
		return
	}
	t.Content = trimmed
	t.Width = e.measure.TextWidth(trimmed, t.FontFamily, t.FontSize) + 2*t.Padding
	e.growExtent(o)
	e.commit()
	e.flushImages()
}

func (e *Editor) cancelEdit() {
	es := e.edit
	e.endEdit()
	if es.fresh {
		e.store.Delete(es.id)
	}
	e.flushImages()
}

func (e *Editor) endEdit() {
	e.edit = nil
	if e.state == StateEditing {
		e.state = StateIdle
	}
}
