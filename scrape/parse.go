package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/caseforge/caseforge/types"
)

// modeled attribute keys per element kind; everything else lands in the
// Attributes catch-all.
var modeledAttrs = map[types.ElementKind]map[string]bool{
	types.ElementButton: {"id": true, "name": true, "class": true},
	types.ElementLink:   {"id": true, "class": true, "href": true},
	types.ElementInput:  {"id": true, "name": true, "class": true, "type": true, "placeholder": true, "value": true},
	types.ElementForm:   {"id": true, "class": true, "action": true, "method": true},
}

// ParseElements parses page HTML into ordered element descriptors:
// all buttons, then links, then inputs, then forms (with their contained
// inputs and buttons). Returns an error only when the HTML cannot be
// tokenized at all; a page with no interactive elements parses to an empty
// slice.
func ParseElements(html string) ([]types.Element, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var elements []types.Element

	doc.Find("button").Each(func(_ int, sel *goquery.Selection) {
		el := types.Element{
			Kind:       types.ElementButton,
			Text:       strings.TrimSpace(sel.Text()),
			ID:         sel.AttrOr("id", ""),
			Name:       sel.AttrOr("name", ""),
			Classes:    classList(sel),
			Attributes: extraAttrs(sel, types.ElementButton),
		}
		elements = append(elements, el)
	})

	doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		el := types.Element{
			Kind:       types.ElementLink,
			Text:       strings.TrimSpace(sel.Text()),
			Href:       sel.AttrOr("href", ""),
			ID:         sel.AttrOr("id", ""),
			Classes:    classList(sel),
			Attributes: extraAttrs(sel, types.ElementLink),
		}
		elements = append(elements, el)
	})

	doc.Find("input").Each(func(_ int, sel *goquery.Selection) {
		el := types.Element{
			Kind: types.ElementInput,
			// Absent type attribute means a text input.
			InputType:   sel.AttrOr("type", "text"),
			ID:          sel.AttrOr("id", ""),
			Name:        sel.AttrOr("name", ""),
			Placeholder: sel.AttrOr("placeholder", ""),
			Value:       sel.AttrOr("value", ""),
			Classes:     classList(sel),
			Attributes:  extraAttrs(sel, types.ElementInput),
		}
		elements = append(elements, el)
	})

	doc.Find("form").Each(func(_ int, sel *goquery.Selection) {
		el := types.Element{
			Kind:       types.ElementForm,
			ID:         sel.AttrOr("id", ""),
			Action:     sel.AttrOr("action", ""),
			Method:     sel.AttrOr("method", ""),
			Classes:    classList(sel),
			Children:   formChildren(sel),
			Attributes: extraAttrs(sel, types.ElementForm),
		}
		elements = append(elements, el)
	})

	return elements, nil
}

// classList splits the class attribute into an ordered list.
func classList(sel *goquery.Selection) []string {
	raw, ok := sel.Attr("class")
	if !ok {
		return nil
	}
	return strings.Fields(raw)
}

// extraAttrs collects attributes not modeled as dedicated fields.
func extraAttrs(sel *goquery.Selection, kind types.ElementKind) map[string]string {
	if len(sel.Nodes) == 0 {
		return nil
	}
	modeled := modeledAttrs[kind]
	var extras map[string]string
	for _, attr := range sel.Nodes[0].Attr {
		if modeled[attr.Key] {
			continue
		}
		if extras == nil {
			extras = make(map[string]string)
		}
		extras[attr.Key] = attr.Val
	}
	return extras
}

// formChildren collects the reduced descriptors of inputs and buttons
// nested in a form.
func formChildren(form *goquery.Selection) []types.ChildElement {
	var children []types.ChildElement

	form.Find("input").Each(func(_ int, sel *goquery.Selection) {
		children = append(children, types.ChildElement{
			Tag:  "input",
			Type: sel.AttrOr("type", ""),
			ID:   sel.AttrOr("id", ""),
			Name: sel.AttrOr("name", ""),
		})
	})

	form.Find("button").Each(func(_ int, sel *goquery.Selection) {
		children = append(children, types.ChildElement{
			Tag:  "button",
			Type: sel.AttrOr("type", ""),
			ID:   sel.AttrOr("id", ""),
			Name: sel.AttrOr("name", ""),
			Text: strings.TrimSpace(sel.Text()),
		})
	})

	return children
}
