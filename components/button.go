package components

import "github.com/go-lively/lively/component"

// Button is a clickable <button>, grounded on the teacher's
// components/button.go (onclick="send_event(...)" binding pattern)
// generalized to this module's component.Bind.
type Button struct {
	*component.Base
}

// NewButton creates a <button> with the given caption, bound to "click".
func NewButton(caption string, onClick component.EventHandlerFunc) (*Button, error) {
	b := &Button{}
	base, err := component.Init(b, "button", true, true)
	if err != nil {
		return nil, err
	}
	b.Base = base
	if err := b.SetInnerText(caption); err != nil {
		return nil, err
	}
	if onClick != nil {
		if err := component.Bind(b, "click", onClick); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// SetCaption updates the button's visible text.
func (b *Button) SetCaption(caption string) error { return b.SetInnerText(caption) }

// SetDisabled toggles the disabled attribute.
func (b *Button) SetDisabled(disabled bool) error {
	if disabled {
		return b.Props().Set("disabled", "true")
	}
	return b.Props().Delete("disabled")
}
