// Package splot converts SPLOT feature models into HLVL.
package splot

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-hlvl/pkg/convert"
	"github.com/goliatone/go-hlvl/pkg/hlvl"
)

// Converter implements convert.Converter for SPLOT models.
type Converter struct{}

var _ convert.Converter = Converter{}

// New returns a SPLOT converter.
func New() Converter {
	return Converter{}
}

// Convert reads the staged SPLOT model and writes <target>.hlvl.
func (Converter) Convert(ctx context.Context, params convert.Params) error {
	input, err := convert.ReadInput(params)
	if err != nil {
		return fmt.Errorf("splot: read input: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	doc, err := Translate(input, params.TargetName)
	if err != nil {
		return err
	}
	return convert.WriteOutput(params, doc.String())
}

// Translate converts SPLOT text into an HLVL document. fallbackName names the
// model when the source carries none.
func Translate(text, fallbackName string) (*hlvl.Document, error) {
	src, err := parseDocument(text)
	if err != nil {
		return nil, err
	}
	roots, err := parseTree(src.Tree)
	if err != nil {
		return nil, err
	}
	clauses, err := parseConstraints(src.Constraints)
	if err != nil {
		return nil, err
	}

	name := src.Name
	if strings.TrimSpace(name) == "" {
		name = fallbackName
	}

	t := &translator{doc: hlvl.NewDocument(name), names: map[string]string{}, ids: hlvl.NewNames()}
	for _, root := range roots {
		rootID := t.element(root)
		t.doc.AddRelation(hlvl.Core(rootID))
		t.children(rootID, root)
	}
	for _, clause := range clauses {
		t.constraint(clause)
	}
	return t.doc, nil
}

type translator struct {
	doc   *hlvl.Document
	names map[string]string
	ids   *hlvl.Names
}

func (t *translator) element(n *node) string {
	if existing, ok := t.names[n.id]; ok && n.id != "" {
		return existing
	}
	id := t.ids.Assign(n.name, n.id)
	if n.id != "" {
		t.names[n.id] = id
	}
	t.doc.AddElement(id)
	return id
}

func (t *translator) children(parentID string, parent *node) {
	for _, child := range parent.children {
		switch child.kind {
		case kindGroup:
			members := make([]string, 0, len(child.children))
			for _, member := range child.children {
				members = append(members, t.element(member))
			}
			t.doc.AddRelation(hlvl.Group(parentID, members, child.min, child.max))
			for i, member := range child.children {
				t.children(members[i], member)
			}
		case kindMandatory:
			childID := t.element(child)
			t.doc.AddRelation(hlvl.Mandatory(parentID, childID))
			t.children(childID, child)
		default:
			childID := t.element(child)
			t.doc.AddRelation(hlvl.Optional(parentID, childID))
			t.children(childID, child)
		}
	}
}

func (t *translator) constraint(clause []literal) {
	if len(clause) == 2 {
		a, b := clause[0], clause[1]
		switch {
		case a.negated && !b.negated:
			t.doc.AddRelation(hlvl.Implies(t.resolve(a.id), t.resolve(b.id)))
			return
		case !a.negated && b.negated:
			t.doc.AddRelation(hlvl.Implies(t.resolve(b.id), t.resolve(a.id)))
			return
		case a.negated && b.negated:
			t.doc.AddRelation(hlvl.Mutex(t.resolve(a.id), t.resolve(b.id)))
			return
		}
	}

	terms := make([]string, 0, len(clause))
	for _, lit := range clause {
		term := t.resolve(lit.id)
		if lit.negated {
			term = "~" + term
		}
		terms = append(terms, term)
	}
	t.doc.AddRelation(hlvl.Expression(strings.Join(terms, " OR ")))
}

func (t *translator) resolve(id string) string {
	if name, ok := t.names[id]; ok {
		return name
	}
	return hlvl.Identifier(id)
}
