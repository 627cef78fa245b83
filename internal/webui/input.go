// Package webui renders the review surface served in server mode: a small
// form-component layer plus the HTTP handlers for queue and annotation state.
package webui

import (
	"fmt"
	"html/template"
	"strings"
)

// IconPosition places an input's icon relative to the control.
type IconPosition string

const (
	IconLeft  IconPosition = "left"
	IconRight IconPosition = "right"
)

// Input renders a labeled single-line form control. It is pure: rendering
// the same value twice yields identical markup.
//
// The accessibility contract: a non-empty Error renders an alert element
// with id "<input id>-error", referenced by the control's aria-describedby,
// and sets aria-invalid="true". Without an error there is no alert element
// and aria-invalid is "false". A disabled input carries both the state class
// on the container and the disabled attribute on the control.
type Input struct {
	ID          string
	Name        string
	Label       string
	Type        string // defaults to "text"
	Value       string
	Placeholder string
	Error       string
	Disabled    bool
	Required    bool
	Icon        template.HTML // already-safe markup, e.g. an inline SVG
	IconPos     IconPosition  // defaults to IconLeft
}

var inputTemplate = template.Must(template.New("input").Parse(`<div class="{{.ContainerClass}}">
{{- if .Label}}<label class="input__label" for="{{.InputID}}">{{.Label}}</label>{{end -}}
<div class="input__control">
{{- if .IconBefore}}<span class="input__icon" aria-hidden="true">{{.Icon}}</span>{{end -}}
<input class="input__field" type="{{.InputType}}" id="{{.InputID}}" name="{{.InputName}}" value="{{.Value}}"
{{- if .Placeholder}} placeholder="{{.Placeholder}}"{{end}} aria-invalid="{{.AriaInvalid}}"
{{- if .Error}} aria-describedby="{{.ErrorID}}"{{end}}
{{- if .Required}} required{{end}}
{{- if .Disabled}} disabled{{end}} />
{{- if .IconAfter}}<span class="input__icon" aria-hidden="true">{{.Icon}}</span>{{end -}}
</div>
{{- if .Error}}<div class="input__error" id="{{.ErrorID}}" role="alert">{{.Error}}</div>{{end -}}
</div>`))

// inputView is the resolved state handed to the template.
type inputView struct {
	Input
	ContainerClass string
	InputID        string
	InputName      string
	InputType      string
	AriaInvalid    string
	ErrorID        string
	IconBefore     bool
	IconAfter      bool
}

// Render produces the component markup.
func (in Input) Render() (template.HTML, error) {
	view := in.view()

	var b strings.Builder
	if err := inputTemplate.Execute(&b, view); err != nil {
		return "", fmt.Errorf("failed to render input %q: %w", view.InputID, err)
	}
	return template.HTML(b.String()), nil
}

func (in Input) view() inputView {
	view := inputView{Input: in}

	view.InputID = in.ID
	if view.InputID == "" {
		view.InputID = in.Name
	}
	view.InputName = in.Name
	if view.InputName == "" {
		view.InputName = view.InputID
	}
	view.InputType = in.Type
	if view.InputType == "" {
		view.InputType = "text"
	}

	view.ErrorID = view.InputID + "-error"
	view.AriaInvalid = "false"
	if in.Error != "" {
		view.AriaInvalid = "true"
	}

	pos := in.IconPos
	if pos == "" {
		pos = IconLeft
	}
	if in.Icon != "" {
		view.IconBefore = pos == IconLeft
		view.IconAfter = pos == IconRight
	}

	classes := []string{"input"}
	if in.Error != "" {
		classes = append(classes, "input--error")
	}
	if in.Disabled {
		classes = append(classes, "input--disabled")
	}
	if in.Icon != "" {
		classes = append(classes, "input--icon", "input--icon-"+string(pos))
	}
	view.ContainerClass = strings.Join(classes, " ")

	return view
}
