package webui

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

// parseFragment parses rendered component markup and returns the container
// element.
func parseFragment(t *testing.T, markup string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("rendered markup does not parse: %v", err)
	}
	div := findElement(doc, "div")
	if div == nil {
		t.Fatal("no container element in rendered markup")
	}
	return div
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func findByAttr(n *html.Node, key, value string) *html.Node {
	if n.Type == html.ElementNode && attr(n, key) == value {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByAttr(c, key, value); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func classes(n *html.Node) []string {
	return strings.Fields(attr(n, "class"))
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range classes(n) {
		if c == class {
			return true
		}
	}
	return false
}

func render(t *testing.T, in Input) *html.Node {
	t.Helper()
	markup, err := in.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return parseFragment(t, string(markup))
}

func TestRenderDefaults(t *testing.T) {
	root := render(t, Input{ID: "title", Label: "Title"})

	input := findElement(root, "input")
	if input == nil {
		t.Fatal("no input element")
	}
	if got := attr(input, "type"); got != "text" {
		t.Errorf("type = %q, want text", got)
	}
	if got := attr(input, "aria-invalid"); got != "false" {
		t.Errorf("aria-invalid = %q, want false", got)
	}
	if hasAttr(input, "aria-describedby") {
		t.Error("no error: aria-describedby should be absent")
	}
	if findByAttr(root, "role", "alert") != nil {
		t.Error("no error: no alert element should render")
	}

	label := findElement(root, "label")
	if label == nil || attr(label, "for") != "title" {
		t.Error("label should reference the input id")
	}

	if !hasClass(root, "input") || hasClass(root, "input--error") || hasClass(root, "input--disabled") {
		t.Errorf("container classes = %v", classes(root))
	}
}

func TestRenderError(t *testing.T) {
	root := render(t, Input{ID: "email", Error: "invalid address"})

	input := findElement(root, "input")
	if got := attr(input, "aria-invalid"); got != "true" {
		t.Errorf("aria-invalid = %q, want true", got)
	}
	if got := attr(input, "aria-describedby"); got != "email-error" {
		t.Errorf("aria-describedby = %q, want email-error", got)
	}

	alert := findByAttr(root, "role", "alert")
	if alert == nil {
		t.Fatal("error should render an alert element")
	}
	if got := attr(alert, "id"); got != "email-error" {
		t.Errorf("alert id = %q, want email-error", got)
	}
	if alert.FirstChild == nil || alert.FirstChild.Data != "invalid address" {
		t.Error("alert should contain the error text")
	}

	if !hasClass(root, "input--error") {
		t.Errorf("container should carry the error class, got %v", classes(root))
	}
}

func TestRenderDisabled(t *testing.T) {
	root := render(t, Input{ID: "path", Disabled: true})

	if !hasClass(root, "input--disabled") {
		t.Errorf("container should carry the disabled class, got %v", classes(root))
	}
	input := findElement(root, "input")
	if !hasAttr(input, "disabled") {
		t.Error("control should carry the disabled attribute")
	}
}

// iconOrder reports whether the icon span renders before or after the input
// inside the control wrapper.
func iconOrder(t *testing.T, root *html.Node) (before, after bool) {
	t.Helper()
	control := findByAttr(root, "class", "input__control")
	if control == nil {
		t.Fatal("no control wrapper")
	}

	seenInput := false
	for c := control.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "input":
			seenInput = true
		case "span":
			if seenInput {
				after = true
			} else {
				before = true
			}
		}
	}
	return before, after
}

func TestRenderIconPositions(t *testing.T) {
	icon := Input{ID: "q", Icon: `<svg></svg>`}

	root := render(t, icon)
	before, after := iconOrder(t, root)
	if !before || after {
		t.Errorf("default icon should render before the control, got before=%v after=%v", before, after)
	}
	if !hasClass(root, "input--icon") || !hasClass(root, "input--icon-left") {
		t.Errorf("container classes = %v", classes(root))
	}

	icon.IconPos = IconRight
	root = render(t, icon)
	before, after = iconOrder(t, root)
	if before || !after {
		t.Errorf("right icon should render after the control, got before=%v after=%v", before, after)
	}
	if !hasClass(root, "input--icon-right") {
		t.Errorf("container classes = %v", classes(root))
	}

	// No icon, no icon classes.
	root = render(t, Input{ID: "q"})
	if hasClass(root, "input--icon") {
		t.Error("icon classes should only render with an icon")
	}
}

func TestRenderIDFallsBackToName(t *testing.T) {
	root := render(t, Input{Name: "query", Error: "required"})

	input := findElement(root, "input")
	if got := attr(input, "id"); got != "query" {
		t.Errorf("id = %q, want name fallback", got)
	}
	if got := attr(input, "aria-describedby"); got != "query-error" {
		t.Errorf("aria-describedby = %q, want query-error", got)
	}
}

func TestRenderEscapesValue(t *testing.T) {
	markup, err := Input{ID: "v", Value: `"><script>`}.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if strings.Contains(string(markup), "<script>") {
		t.Error("value should be escaped")
	}
}

func TestRenderIsPure(t *testing.T) {
	in := Input{ID: "x", Error: "bad", Icon: "<svg></svg>", Disabled: true}
	a, err := in.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	b, err := in.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if a != b {
		t.Error("rendering the same input twice should be identical")
	}
}
