package components

import "github.com/go-lively/lively/component"

// Form is an inner <form> element, grounded on original_source's Form
// (duck/html/components/form.py): action/method/enctype props plus a
// "submit" binding point for its contained fields.
type Form struct {
	*component.Base
}

// FormOptions configures NewForm.
type FormOptions struct {
	Action  string
	Method  string
	Enctype string
}

// NewForm creates a <form> and appends fields as children in order,
// matching original_source's on_create field-appending loop.
func NewForm(opts FormOptions, fields ...component.Component) (*Form, error) {
	f := &Form{}
	base, err := component.Init(f, "form", true, false)
	if err != nil {
		return nil, err
	}
	f.Base = base

	action := opts.Action
	if action == "" {
		action = "#"
	}
	if err := f.Props().Set("action", action); err != nil {
		return nil, err
	}
	method := opts.Method
	if method == "" {
		method = "post"
	}
	if err := f.Props().Set("method", method); err != nil {
		return nil, err
	}
	if opts.Enctype != "" {
		if err := f.Props().Set("enctype", opts.Enctype); err != nil {
			return nil, err
		}
	}
	if err := f.ChildrenList().Extend(fields...); err != nil {
		return nil, err
	}
	return f, nil
}

// OnSubmit binds the form's "submit" event.
func (f *Form) OnSubmit(handler component.EventHandlerFunc) error {
	return component.Bind(f, "submit", handler)
}
