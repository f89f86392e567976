// Package selector holds the logical-name → element-descriptor table for the
// Percenty UI. The SaaS DOM drifts; keeping every locator in this one file
// keeps that drift a localized change.
package selector

import "fmt"

// Kind identifies how a DOM locator should be evaluated.
type Kind string

const (
	// KindXPath evaluates the locator as an XPath expression
	KindXPath Kind = "xpath"
	// KindCSS evaluates the locator as a CSS selector
	KindCSS Kind = "css"
)

// Method is one entry in an element's fallback order.
type Method string

const (
	// MethodDOM locates the element by its DOM locator
	MethodDOM Method = "dom"
	// MethodCoordinates clicks the element's reference-viewport coordinates
	MethodCoordinates Method = "coordinates"
)

// Point is a position in the reference 1920x1080 viewport.
type Point struct {
	X int
	Y int
}

// Element describes how to locate one UI control.
type Element struct {
	// Name is the stable logical identifier
	Name string
	// Locator is the primary DOM locator (XPath or CSS per Kind)
	Locator string
	// Kind is the locator flavor
	Kind Kind
	// Coords is the click position in the reference viewport
	Coords Point
	// Fallback is the ordered list of methods to attempt
	Fallback []Method
	// ActiveIndicator is an XPath present only while the element is in its
	// selected state (tabs use this to confirm a switch landed)
	ActiveIndicator string
}

// HasCoords reports whether reference coordinates are populated.
func (e Element) HasCoords() bool {
	return e.Coords.X != 0 || e.Coords.Y != 0
}

// Validate checks that every method in the fallback order has its backing
// field populated.
func (e Element) Validate() error {
	for _, m := range e.Fallback {
		switch m {
		case MethodDOM:
			if e.Locator == "" {
				return fmt.Errorf("element %s lists dom fallback but has no locator", e.Name)
			}
		case MethodCoordinates:
			if !e.HasCoords() {
				return fmt.Errorf("element %s lists coordinates fallback but has no coordinates", e.Name)
			}
		default:
			return fmt.Errorf("element %s has unknown fallback method %q", e.Name, m)
		}
	}
	if len(e.Fallback) == 0 {
		return fmt.Errorf("element %s has empty fallback order", e.Name)
	}
	return nil
}

// Registry maps logical names to element descriptors.
type Registry struct {
	elements map[string]Element
}

// NewRegistry builds a registry from descriptors, validating each one.
func NewRegistry(elements []Element) (*Registry, error) {
	m := make(map[string]Element, len(elements))
	for _, e := range elements {
		if err := e.Validate(); err != nil {
			return nil, err
		}
		if _, dup := m[e.Name]; dup {
			return nil, fmt.Errorf("duplicate element name %s", e.Name)
		}
		m[e.Name] = e
	}
	return &Registry{elements: m}, nil
}

// Default returns the registry for the current Percenty DOM.
func Default() *Registry {
	r, err := NewRegistry(defaultElements)
	if err != nil {
		// The default table is part of the build; a broken entry is a
		// programming error, not a runtime condition.
		panic(err)
	}
	return r
}

// Get looks up an element by logical name.
func (r *Registry) Get(name string) (Element, bool) {
	e, ok := r.elements[name]
	return e, ok
}

// MustGet looks up an element and panics if it is not in the table.
// Callers use this for names that are compile-time constants below.
func (r *Registry) MustGet(name string) Element {
	e, ok := r.elements[name]
	if !ok {
		panic(fmt.Sprintf("selector: unknown element %s", name))
	}
	return e
}

// LocateJS returns a JS expression evaluating to the element or null,
// honoring the descriptor's locator kind. Inline Evaluate scripts embed
// this so every DOM probe resolves through the registry table.
func LocateJS(el Element) string {
	if el.Kind == KindCSS {
		return fmt.Sprintf("document.querySelector(%q)", el.Locator)
	}
	return fmt.Sprintf(
		"document.evaluate(%q, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue",
		el.Locator)
}

// Names returns all registered logical names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.elements))
	for n := range r.elements {
		names = append(names, n)
	}
	return names
}
