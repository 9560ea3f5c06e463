// Package varxml converts VariaMos XML (mxGraph) feature models into HLVL.
package varxml

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-hlvl/pkg/convert"
	"github.com/goliatone/go-hlvl/pkg/hlvl"
)

const (
	kindRoot     = "root"
	kindConcrete = "concrete"
	kindAbstract = "abstract"
	kindBundle   = "bundle"
	kindRelation = "relation"
)

// Converter implements convert.Converter for VariaMos XML models.
type Converter struct{}

var _ convert.Converter = Converter{}

// New returns a VariaMos XML converter.
func New() Converter {
	return Converter{}
}

// Convert reads the staged VariaMos model and writes <target>.hlvl.
func (Converter) Convert(ctx context.Context, params convert.Params) error {
	input, err := convert.ReadInput(params)
	if err != nil {
		return fmt.Errorf("varxml: read input: %w", err)
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

type bundle struct {
	cell     *cell
	parent   string
	children []string
}

// Translate converts VariaMos XML into an HLVL document named name.
func Translate(text, name string) (*hlvl.Document, error) {
	cells, err := parseCells(text)
	if err != nil {
		return nil, err
	}

	doc := hlvl.NewDocument(name)
	features := make(map[string]string)
	bundles := make(map[string]*bundle)
	var (
		bundleOrder []string
		relations   []*cell
		roots       []string
		ids         = hlvl.NewNames()
	)

	for _, c := range cells {
		switch c.kind {
		case kindRoot, kindConcrete, kindAbstract:
			if c.id == "" {
				return nil, fmt.Errorf("varxml: %s element without id", c.kind)
			}
			id := ids.Assign(c.attr("label"), c.id)
			features[c.id] = id
			doc.AddElement(id)
			if c.kind == kindRoot {
				roots = append(roots, id)
			}
		case kindBundle:
			if c.id == "" {
				return nil, errors.New("varxml: bundle without id")
			}
			bundles[c.id] = &bundle{cell: c}
			bundleOrder = append(bundleOrder, c.id)
		case kindRelation:
			relations = append(relations, c)
		}
	}
	if len(features) == 0 {
		return nil, errors.New("varxml: model defines no features")
	}

	for _, root := range roots {
		doc.AddRelation(hlvl.Core(root))
	}

	for _, rel := range relations {
		if b, ok := bundles[rel.target]; ok {
			child, err := lookup(features, rel.source, rel)
			if err != nil {
				return nil, err
			}
			b.children = append(b.children, child)
			continue
		}
		if b, ok := bundles[rel.source]; ok {
			parent, err := lookup(features, rel.target, rel)
			if err != nil {
				return nil, err
			}
			b.parent = parent
			continue
		}

		source, err := lookup(features, rel.source, rel)
		if err != nil {
			return nil, err
		}
		target, err := lookup(features, rel.target, rel)
		if err != nil {
			return nil, err
		}

		switch strings.ToLower(rel.attr("relType")) {
		case "mandatory":
			doc.AddRelation(hlvl.Mandatory(target, source))
		case "optional":
			doc.AddRelation(hlvl.Optional(target, source))
		case "requires":
			doc.AddRelation(hlvl.Implies(source, target))
		case "excludes":
			doc.AddRelation(hlvl.Mutex(source, target))
		default:
			return nil, fmt.Errorf("varxml: relation %q has unsupported relType %q", rel.id, rel.attr("relType"))
		}
	}

	for _, id := range bundleOrder {
		b := bundles[id]
		if b.parent == "" {
			return nil, fmt.Errorf("varxml: bundle %q has no parent", id)
		}
		if len(b.children) == 0 {
			return nil, fmt.Errorf("varxml: bundle %q has no children", id)
		}
		minCard, maxCard, err := cardinality(b)
		if err != nil {
			return nil, err
		}
		doc.AddRelation(hlvl.Group(b.parent, b.children, minCard, maxCard))
	}

	return doc, nil
}

func lookup(features map[string]string, id string, rel *cell) (string, error) {
	if id == "" {
		return "", fmt.Errorf("varxml: relation %q is missing an endpoint", rel.id)
	}
	name, ok := features[id]
	if !ok {
		return "", fmt.Errorf("varxml: relation %q references unknown element %q", rel.id, id)
	}
	return name, nil
}

func cardinality(b *bundle) (string, string, error) {
	switch strings.ToUpper(b.cell.attr("bundleType")) {
	case "AND":
		n := strconv.Itoa(len(b.children))
		return n, n, nil
	case "OR":
		return "1", "*", nil
	case "XOR":
		return "1", "1", nil
	case "RANGE":
		low, high := b.cell.attr("lowRange"), b.cell.attr("highRange")
		if low == "" || high == "" {
			return "", "", fmt.Errorf("varxml: bundle %q RANGE needs lowRange and highRange", b.cell.id)
		}
		return low, high, nil
	default:
		return "", "", fmt.Errorf("varxml: bundle %q has unsupported bundleType %q", b.cell.id, b.cell.attr("bundleType"))
	}
}
