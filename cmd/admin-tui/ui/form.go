package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lmoraes94/verzel-admin/internal/validation"
)

// field is a single editable form input. Masked fields render bullets
// instead of the value (passwords).
type field struct {
	label  string
	name   string
	value  string
	masked bool
}

// form is the shared keyboard-driven input group used by the create,
// edit and profile screens.
type form struct {
	fields  []field
	focused int
	errs    validation.FieldErrors
}

func newForm(fields ...field) form {
	return form{fields: fields}
}

func (f *form) next() {
	f.focused = (f.focused + 1) % len(f.fields)
}

func (f *form) prev() {
	f.focused--
	if f.focused < 0 {
		f.focused = len(f.fields) - 1
	}
}

func (f *form) typeRune(s string) {
	f.fields[f.focused].value += s
}

func (f *form) backspace() {
	v := f.fields[f.focused].value
	if len(v) > 0 {
		f.fields[f.focused].value = v[:len(v)-1]
	}
}

func (f *form) clear() {
	for i := range f.fields {
		f.fields[i].value = ""
	}
	f.focused = 0
	f.errs = nil
}

func (f *form) value(name string) string {
	for i := range f.fields {
		if f.fields[i].name == name {
			return strings.TrimSpace(f.fields[i].value)
		}
	}
	return ""
}

func (f *form) setValue(name, value string) {
	for i := range f.fields {
		if f.fields[i].name == name {
			f.fields[i].value = value
			return
		}
	}
}

func (f *form) View(width int) string {
	var b strings.Builder
	for i, fl := range f.fields {
		style := InputStyle
		if i == f.focused {
			style = FocusedInputStyle
		}

		shown := fl.value
		if fl.masked {
			shown = strings.Repeat("•", len(fl.value))
		}

		label := LabelStyle.Render(fl.label + ":")
		value := style.Width(width - 18).Render(shown)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Left, label, value))
		b.WriteString("\n")

		if msg := f.errs.For(fl.name); msg != "" {
			b.WriteString(LabelStyle.Render("") + FieldErrorStyle.Render(msg))
			b.WriteString("\n")
		}
	}
	return b.String()
}
