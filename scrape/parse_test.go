package scrape

import (
	"testing"

	"github.com/caseforge/caseforge/types"
)

const fixtureHTML = `<!DOCTYPE html>
<html>
<body>
  <button id="buy" name="buy-btn" class="btn btn-primary" data-testid="buy">Buy now</button>
  <button>  Cancel </button>
  <a href="/contact" id="contact-link" class="nav">Contact</a>
  <a href="https://example.com/about">About us</a>
  <input type="email" id="email" name="email" placeholder="you@example.com" class="field">
  <input name="notes">
  <form id="login" action="/login" method="post" class="login-form" autocomplete="off">
    <input type="text" id="user" name="username">
    <input type="password" id="pass" name="password">
    <button type="submit" id="submit">Sign in</button>
  </form>
</body>
</html>`

func parseFixture(t *testing.T) []types.Element {
	t.Helper()
	elements, err := ParseElements(fixtureHTML)
	if err != nil {
		t.Fatalf("ParseElements: %v", err)
	}
	return elements
}

func byKind(elements []types.Element, kind types.ElementKind) []types.Element {
	var out []types.Element
	for _, el := range elements {
		if el.Kind == kind {
			out = append(out, el)
		}
	}
	return out
}

func TestParseElements_Buttons(t *testing.T) {
	buttons := byKind(parseFixture(t), types.ElementButton)
	// 2 top-level + 1 inside the form (forms also surface their children,
	// matching the flat document scan).
	if len(buttons) != 3 {
		t.Fatalf("expected 3 buttons, got %d", len(buttons))
	}

	buy := buttons[0]
	if buy.ID != "buy" || buy.Name != "buy-btn" {
		t.Errorf("buy button id/name = %q/%q", buy.ID, buy.Name)
	}
	if buy.Text != "Buy now" {
		t.Errorf("buy button text = %q", buy.Text)
	}
	if len(buy.Classes) != 2 || buy.Classes[0] != "btn" || buy.Classes[1] != "btn-primary" {
		t.Errorf("buy button classes = %v", buy.Classes)
	}
	if buy.Attributes["data-testid"] != "buy" {
		t.Errorf("unmodeled attribute not captured: %v", buy.Attributes)
	}

	if buttons[1].Text != "Cancel" {
		t.Errorf("text should be trimmed, got %q", buttons[1].Text)
	}
}

func TestParseElements_Links(t *testing.T) {
	links := byKind(parseFixture(t), types.ElementLink)
	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(links))
	}
	if links[0].Href != "/contact" || links[0].ID != "contact-link" {
		t.Errorf("contact link = %+v", links[0])
	}
	if links[1].Href != "https://example.com/about" || links[1].Text != "About us" {
		t.Errorf("about link = %+v", links[1])
	}
}

func TestParseElements_Inputs(t *testing.T) {
	inputs := byKind(parseFixture(t), types.ElementInput)
	if len(inputs) != 4 {
		t.Fatalf("expected 4 inputs, got %d", len(inputs))
	}

	email := inputs[0]
	if email.InputType != "email" || email.Placeholder != "you@example.com" {
		t.Errorf("email input = %+v", email)
	}

	// No type attribute defaults to "text".
	if inputs[1].InputType != "text" || inputs[1].Name != "notes" {
		t.Errorf("untyped input = %+v", inputs[1])
	}
}

func TestParseElements_Form(t *testing.T) {
	forms := byKind(parseFixture(t), types.ElementForm)
	if len(forms) != 1 {
		t.Fatalf("expected 1 form, got %d", len(forms))
	}

	form := forms[0]
	if form.ID != "login" || form.Action != "/login" || form.Method != "post" {
		t.Errorf("form = %+v", form)
	}
	if form.Attributes["autocomplete"] != "off" {
		t.Errorf("form extra attributes = %v", form.Attributes)
	}

	if len(form.Children) != 3 {
		t.Fatalf("expected 3 contained elements, got %d", len(form.Children))
	}
	if form.Children[0].Tag != "input" || form.Children[0].Name != "username" {
		t.Errorf("first child = %+v", form.Children[0])
	}
	if form.Children[2].Tag != "button" || form.Children[2].Text != "Sign in" {
		t.Errorf("form button child = %+v", form.Children[2])
	}
}

func TestParseElements_OrderIsStable(t *testing.T) {
	a := parseFixture(t)
	b := parseFixture(t)
	if len(a) != len(b) {
		t.Fatalf("parse is not deterministic: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Kind != b[i].Kind || a[i].ID != b[i].ID {
			t.Fatalf("element order differs at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestParseElements_EmptyPage(t *testing.T) {
	elements, err := ParseElements("<html><body><p>nothing interactive</p></body></html>")
	if err != nil {
		t.Fatalf("ParseElements: %v", err)
	}
	if len(elements) != 0 {
		t.Errorf("expected no elements, got %d", len(elements))
	}
}
