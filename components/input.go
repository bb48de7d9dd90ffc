package components

import (
	"strconv"

	"github.com/go-lively/lively/component"
)

// Input is a leaf <input> element, grounded on original_source's
// BaseInput/Input (duck/html/components/input.py): defaulted padding/
// border/radius/font-size style, and a "type"/"name"/"placeholder"/
// "required"/"maxlength"/"minlength"/"disabled" prop surface.
type Input struct {
	*component.Base
}

// InputOptions configures NewInput; zero-value fields are left unset
// rather than written as empty attributes, mirroring original_source's
// kwargs-presence checks.
type InputOptions struct {
	Type        string
	Name        string
	Placeholder string
	Value       string
	Required    bool
	MaxLength   int
	MinLength   int
	Disabled    bool
}

// NewInput creates an <input> with the given options and the teacher
// stack's default visual style.
func NewInput(opts InputOptions) (*Input, error) {
	in := &Input{}
	base, err := component.Init(in, "input", false, false)
	if err != nil {
		return nil, err
	}
	in.Base = base

	style := map[string]string{
		"padding":       "10px",
		"border":        "1px solid #ccc",
		"border-radius": "4px",
		"font-size":     "1rem",
	}
	if err := in.Style().Update(style, false); err != nil {
		return nil, err
	}

	if opts.Type != "" {
		if err := in.Props().Set("type", opts.Type); err != nil {
			return nil, err
		}
	}
	if opts.Value != "" {
		if err := in.Props().Set("value", opts.Value); err != nil {
			return nil, err
		}
	}
	if opts.Name != "" {
		if err := in.Props().Set("name", opts.Name); err != nil {
			return nil, err
		}
	}
	if opts.Placeholder != "" {
		if err := in.Props().Set("placeholder", opts.Placeholder); err != nil {
			return nil, err
		}
	}
	if opts.Required {
		if err := in.Props().Set("required", "true"); err != nil {
			return nil, err
		}
	}
	if opts.MaxLength > 0 {
		if err := in.Props().Set("maxlength", strconv.Itoa(opts.MaxLength)); err != nil {
			return nil, err
		}
	}
	if opts.MinLength > 0 {
		if err := in.Props().Set("minlength", strconv.Itoa(opts.MinLength)); err != nil {
			return nil, err
		}
	}
	if opts.Disabled {
		if err := in.Props().Set("disabled", "true"); err != nil {
			return nil, err
		}
	}
	return in, nil
}

// OnChange binds a "change" event, the common case for text inputs
// reporting their committed value.
func (in *Input) OnChange(handler component.EventHandlerFunc) error {
	return component.Bind(in, "change", handler)
}

// OnInput binds an "input" event, firing on every keystroke.
func (in *Input) OnInput(handler component.EventHandlerFunc) error {
	return component.Bind(in, "input", handler)
}
