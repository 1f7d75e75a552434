// Package types defines core domain types for the Caseforge pipeline.
//
//nolint:revive // types is a common Go package naming convention
package types

// ElementKind discriminates element descriptor variants.
type ElementKind string

// Element kind constants. Values double as the wire discriminant in the
// exported elements JSON and the synthesis payload.
const (
	ElementButton ElementKind = "button"
	ElementLink   ElementKind = "link"
	ElementInput  ElementKind = "input"
	ElementForm   ElementKind = "form"
)

// ChildElement is a reduced descriptor for elements nested inside a form.
type ChildElement struct {
	Tag  string `json:"tag" msgpack:"tag"`
	Type string `json:"type,omitempty" msgpack:"type,omitempty"`
	ID   string `json:"id,omitempty" msgpack:"id,omitempty"`
	Name string `json:"name,omitempty" msgpack:"name,omitempty"`
	Text string `json:"text,omitempty" msgpack:"text,omitempty"`
}

// Element describes one interactive UI element found on a page.
// Immutable once extracted; owned by the run that produced it.
//
// The JSON shape is a contract shared by the exported elements artifact and
// the synthesis prompt payload, so field tags are load-bearing.
type Element struct {
	// Kind is the variant discriminant.
	Kind ElementKind `json:"type" msgpack:"type"`
	// ID is the element's id attribute, when present.
	ID string `json:"id,omitempty" msgpack:"id,omitempty"`
	// Name is the element's name attribute, when present.
	Name string `json:"name,omitempty" msgpack:"name,omitempty"`
	// Classes is the ordered class list.
	Classes []string `json:"class,omitempty" msgpack:"class,omitempty"`
	// Text is the trimmed visible text (buttons, links).
	Text string `json:"text,omitempty" msgpack:"text,omitempty"`

	// Href is the link target (links only).
	Href string `json:"href,omitempty" msgpack:"href,omitempty"`

	// InputType is the input's type attribute, defaulted to "text" (inputs only).
	InputType string `json:"input_type,omitempty" msgpack:"input_type,omitempty"`
	// Placeholder is the input's placeholder attribute (inputs only).
	Placeholder string `json:"placeholder,omitempty" msgpack:"placeholder,omitempty"`
	// Value is the input's value attribute (inputs only).
	Value string `json:"value,omitempty" msgpack:"value,omitempty"`

	// Action is the form's action attribute (forms only).
	Action string `json:"action,omitempty" msgpack:"action,omitempty"`
	// Method is the form's method attribute (forms only).
	Method string `json:"method,omitempty" msgpack:"method,omitempty"`
	// Children holds the reduced descriptors nested in a form (forms only).
	Children []ChildElement `json:"contained_elements,omitempty" msgpack:"contained_elements,omitempty"`

	// Attributes is a catch-all for HTML attributes not modeled above.
	Attributes map[string]string `json:"attributes,omitempty" msgpack:"attributes,omitempty"`
}

// PromptCap is the maximum number of elements included in a synthesis
// payload. The full sequence always stays in RunState and is what gets
// exported; the cap bounds prompt size only.
const PromptCap = 100

// Truncate returns the prompt-payload view of elements: the first PromptCap
// entries when the sequence exceeds the cap, the input slice otherwise.
// The second return reports whether truncation occurred.
func Truncate(elements []Element) ([]Element, bool) {
	if len(elements) > PromptCap {
		return elements[:PromptCap], true
	}
	return elements, false
}
