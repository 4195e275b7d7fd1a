// Package dom is a small element tree that the terminal UI builds from each
// dashboard snapshot. Elements carry attributes and classes the same way page
// markup does, so behavior can be attached to markers instead of to
// individual widgets.
package dom

import "strings"

// Element is a node in the tree.
type Element struct {
	Tag      string
	ID       string
	attrs    map[string]string
	classes  map[string]bool
	parent   *Element
	children []*Element
}

// New creates a detached element with the given tag.
func New(tag string) *Element {
	return &Element{
		Tag:     tag,
		attrs:   make(map[string]string),
		classes: make(map[string]bool),
	}
}

// WithID sets the element id and returns the element for chaining.
func (e *Element) WithID(id string) *Element {
	e.ID = id
	return e
}

// WithAttr sets an attribute and returns the element for chaining.
func (e *Element) WithAttr(name, value string) *Element {
	e.attrs[name] = value
	return e
}

// Append adds children to e, detaching them from any previous parent.
func (e *Element) Append(children ...*Element) *Element {
	for _, c := range children {
		if c == nil {
			continue
		}
		if c.parent != nil {
			c.parent.remove(c)
		}
		c.parent = e
		e.children = append(e.children, c)
	}
	return e
}

func (e *Element) remove(child *Element) {
	for i, c := range e.children {
		if c == child {
			e.children = append(e.children[:i], e.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// Parent returns the enclosing element, or nil at the root.
func (e *Element) Parent() *Element { return e.parent }

// Children returns the direct children in document order.
func (e *Element) Children() []*Element { return e.children }

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// HasAttr reports whether the attribute is present.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.attrs[name]
	return ok
}

// Closest walks from e up through its ancestors and returns the first
// element carrying attr, or nil.
func (e *Element) Closest(attr string) *Element {
	for n := e; n != nil; n = n.parent {
		if n.HasAttr(attr) {
			return n
		}
	}
	return nil
}

// ClosestTag is Closest matched on tag name.
func (e *Element) ClosestTag(tag string) *Element {
	for n := e; n != nil; n = n.parent {
		if n.Tag == tag {
			return n
		}
	}
	return nil
}

// HasClass reports whether class is set.
func (e *Element) HasClass(class string) bool { return e.classes[class] }

// AddClass sets class.
func (e *Element) AddClass(class string) { e.classes[class] = true }

// RemoveClass clears class.
func (e *Element) RemoveClass(class string) { delete(e.classes, class) }

// ToggleClass flips class and reports whether it is now set.
func (e *Element) ToggleClass(class string) bool {
	if e.classes[class] {
		delete(e.classes, class)
		return false
	}
	e.classes[class] = true
	return true
}

// Find returns the first element in e's subtree (including e) whose id
// matches, or nil.
func (e *Element) Find(id string) *Element {
	if e.ID == id {
		return e
	}
	for _, c := range e.children {
		if found := c.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// String renders a short selector-like description, e.g. button#done[data-complete-task=42].
func (e *Element) String() string {
	var b strings.Builder
	b.WriteString(e.Tag)
	if e.ID != "" {
		b.WriteString("#" + e.ID)
	}
	for k, v := range e.attrs {
		b.WriteString("[" + k + "=" + v + "]")
	}
	return b.String()
}

// Document is the root of a tree.
type Document struct {
	Body *Element
}

// NewDocument returns a document with an empty body.
func NewDocument() *Document {
	return &Document{Body: New("body")}
}

// GetElementByID searches the body subtree. It returns nil when absent.
func (d *Document) GetElementByID(id string) *Element {
	if d == nil || d.Body == nil {
		return nil
	}
	return d.Body.Find(id)
}
