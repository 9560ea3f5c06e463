package splot

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// document mirrors the SPLOT feature_model envelope. The tree and constraint
// blocks are kept as raw text and parsed line by line.
type document struct {
	XMLName     xml.Name `xml:"feature_model"`
	Name        string   `xml:"name,attr"`
	Tree        string   `xml:"feature_tree"`
	Constraints string   `xml:"constraints"`
}

type nodeKind byte

const (
	kindRoot      nodeKind = 'r'
	kindMandatory nodeKind = 'm'
	kindOptional  nodeKind = 'o'
	kindGroup     nodeKind = 'g'
	kindMember    nodeKind = ' '
)

type node struct {
	kind     nodeKind
	name     string
	id       string
	min, max string
	indent   int
	children []*node
}

var (
	featurePattern = regexp.MustCompile(`^(.*?)\s*\(([^()]*)\)\s*$`)
	groupPattern   = regexp.MustCompile(`^(?:\(([^()]*)\))?\s*\[\s*(\d+|\*)\s*,\s*(\d+|\*)\s*\]\s*$`)
)

// parseDocument accepts either a full <feature_model> document or a bare
// feature tree.
func parseDocument(text string) (document, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return document{}, errors.New("splot: model is empty")
	}
	if !strings.HasPrefix(trimmed, "<") {
		return document{Tree: text}, nil
	}

	var doc document
	decoder := xml.NewDecoder(strings.NewReader(trimmed))
	decoder.CharsetReader = passthroughCharset
	if err := decoder.Decode(&doc); err != nil {
		return document{}, fmt.Errorf("splot: decode feature model: %w", err)
	}
	if strings.TrimSpace(doc.Tree) == "" {
		return document{}, errors.New("splot: feature_tree is empty")
	}
	return doc, nil
}

// passthroughCharset lets documents declaring legacy encodings through; SPLOT
// exports are ASCII in practice.
func passthroughCharset(_ string, input io.Reader) (io.Reader, error) {
	return input, nil
}

// parseTree builds the feature hierarchy from indentation. Tabs count as four
// columns.
func parseTree(tree string) ([]*node, error) {
	var (
		roots []*node
		stack []*node
	)

	for i, raw := range strings.Split(tree, "\n") {
		line := strings.TrimRight(raw, "\r \t")
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := indentWidth(line)
		n, err := parseLine(strings.TrimSpace(line))
		if err != nil {
			return nil, fmt.Errorf("splot: line %d: %w", i+1, err)
		}
		n.indent = indent

		for len(stack) > 0 && stack[len(stack)-1].indent >= indent {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			if n.kind == kindGroup {
				return nil, fmt.Errorf("splot: line %d: group without parent feature", i+1)
			}
			roots = append(roots, n)
		} else {
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, n)
		}
		stack = append(stack, n)
	}

	if len(roots) == 0 {
		return nil, errors.New("splot: feature tree has no root")
	}
	return roots, nil
}

func parseLine(line string) (*node, error) {
	kind := kindMember
	rest := line
	if strings.HasPrefix(rest, ":") {
		rest = rest[1:]
		if len(rest) > 0 && strings.ContainsRune("rmog", rune(rest[0])) && (len(rest) == 1 || rest[1] == ' ' || rest[1] == '\t' || rest[1] == '(' || rest[1] == '[') {
			kind = nodeKind(rest[0])
			rest = rest[1:]
		}
	}
	rest = strings.TrimSpace(rest)

	if kind == kindGroup {
		match := groupPattern.FindStringSubmatch(rest)
		if match == nil {
			return nil, fmt.Errorf("malformed group %q", line)
		}
		return &node{kind: kind, id: strings.TrimSpace(match[1]), min: match[2], max: match[3]}, nil
	}

	if rest == "" {
		return nil, fmt.Errorf("feature without name %q", line)
	}
	if match := featurePattern.FindStringSubmatch(rest); match != nil {
		name := strings.TrimSpace(match[1])
		id := strings.TrimSpace(match[2])
		if name == "" {
			name = id
		}
		return &node{kind: kind, name: name, id: id}, nil
	}
	return &node{kind: kind, name: rest, id: rest}, nil
}

func indentWidth(line string) int {
	width := 0
	for _, r := range line {
		switch r {
		case '\t':
			width += 4
		case ' ':
			width++
		default:
			return width
		}
	}
	return width
}

type literal struct {
	id      string
	negated bool
}

var orSeparator = regexp.MustCompile(`(?i)\s+or\s+`)

// parseConstraints reads CNF clauses of the form "C1: ~_r_1 or _r_2".
func parseConstraints(block string) ([][]literal, error) {
	var clauses [][]literal
	for i, raw := range strings.Split(block, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if idx := strings.Index(line, ":"); idx >= 0 {
			line = strings.TrimSpace(line[idx+1:])
		}
		var clause []literal
		for _, part := range orSeparator.Split(line, -1) {
			term := strings.TrimSpace(part)
			negated := strings.HasPrefix(term, "~")
			term = strings.TrimSpace(strings.TrimPrefix(term, "~"))
			if term == "" {
				return nil, fmt.Errorf("splot: constraint line %d: empty literal", i+1)
			}
			clause = append(clause, literal{id: term, negated: negated})
		}
		clauses = append(clauses, clause)
	}
	return clauses, nil
}
