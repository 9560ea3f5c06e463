// Package hlvl builds HLVL documents, the intermediate variability language
// every converter targets.
package hlvl

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Relation is a single HLVL relation line without its identifier.
type Relation string

// Core marks element as present in every configuration.
func Core(element string) Relation {
	return Relation(fmt.Sprintf("core(%s)", element))
}

// Mandatory decomposes parent into a child that must be selected with it.
func Mandatory(parent, child string) Relation {
	return Relation(fmt.Sprintf("decomposition(%s,[%s])<1>", parent, child))
}

// Optional decomposes parent into a child that may be selected with it.
func Optional(parent, child string) Relation {
	return Relation(fmt.Sprintf("decomposition(%s,[%s])<0>", parent, child))
}

// Group relates parent to children with a cardinality. An empty max is
// written as "*".
func Group(parent string, children []string, minCard, maxCard string) Relation {
	if maxCard == "" {
		maxCard = "*"
	}
	return Relation(fmt.Sprintf("group(%s,[%s])[%s,%s]", parent, strings.Join(children, ","), minCard, maxCard))
}

// Implies requires target whenever source is selected.
func Implies(source, target string) Relation {
	return Relation(fmt.Sprintf("implies(%s,%s)", source, target))
}

// Mutex forbids selecting both elements together.
func Mutex(left, right string) Relation {
	return Relation(fmt.Sprintf("mutex(%s,%s)", left, right))
}

// Expression carries a free-form boolean constraint.
func Expression(expr string) Relation {
	return Relation(fmt.Sprintf("expression(%s)", expr))
}

// Document is an HLVL model under construction. Elements keep insertion order
// and are de-duplicated.
type Document struct {
	Name      string
	elements  []string
	seen      map[string]struct{}
	relations []Relation
}

// NewDocument returns an empty document named name.
func NewDocument(name string) *Document {
	return &Document{
		Name: Identifier(name),
		seen: make(map[string]struct{}),
	}
}

// AddElement registers a boolean element.
func (d *Document) AddElement(name string) {
	if name == "" {
		return
	}
	if _, ok := d.seen[name]; ok {
		return
	}
	d.seen[name] = struct{}{}
	d.elements = append(d.elements, name)
}

// AddRelation appends a relation.
func (d *Document) AddRelation(rel Relation) {
	if rel == "" {
		return
	}
	d.relations = append(d.relations, rel)
}

// Elements returns the registered elements in insertion order.
func (d *Document) Elements() []string {
	return append([]string(nil), d.elements...)
}

// Relations returns the registered relations in insertion order.
func (d *Document) Relations() []Relation {
	return append([]Relation(nil), d.relations...)
}

// WriteTo serialises the document.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	name := d.Name
	if name == "" {
		name = "model"
	}
	fmt.Fprintf(&b, "model %s\n", name)
	b.WriteString("elements:\n")
	for _, element := range d.elements {
		fmt.Fprintf(&b, "\tboolean %s\n", element)
	}
	b.WriteString("relations:\n")
	for i, rel := range d.relations {
		fmt.Fprintf(&b, "\tr%d: %s\n", i, rel)
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// String renders the document.
func (d *Document) String() string {
	var b strings.Builder
	_, _ = d.WriteTo(&b)
	return b.String()
}

var nonIdentifier = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// Identifier turns a free-form label into an HLVL identifier.
func Identifier(label string) string {
	id := nonIdentifier.ReplaceAllString(strings.TrimSpace(label), "_")
	id = strings.Trim(id, "_")
	if id == "" {
		return ""
	}
	if id[0] >= '0' && id[0] <= '9' {
		id = "_" + id
	}
	return id
}
