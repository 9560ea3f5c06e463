package varxml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// cell is a typed VariaMos graph element: a feature, a bundle or a relation.
// Relations carry their endpoints on a nested mxCell.
type cell struct {
	tag    string
	id     string
	kind   string
	attrs  map[string]string
	source string
	target string
}

func (c *cell) attr(name string) string {
	return strings.TrimSpace(c.attrs[name])
}

// parseCells streams the document and returns every element that carries a
// "type" attribute, in document order.
func parseCells(text string) ([]*cell, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("varxml: model is empty")
	}

	decoder := xml.NewDecoder(strings.NewReader(text))
	decoder.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var (
		cells   []*cell
		open    []*cell
		sawRoot bool
	)
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("varxml: decode: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			sawRoot = true
			attrs := attrMap(el.Attr)
			var current *cell
			if len(open) > 0 {
				current = open[len(open)-1]
			}
			if el.Name.Local == "mxCell" && current != nil {
				if current.source == "" {
					current.source = attrs["source"]
				}
				if current.target == "" {
					current.target = attrs["target"]
				}
			}
			if kind, ok := attrs["type"]; ok && el.Name.Local != "mxCell" {
				c := &cell{tag: el.Name.Local, id: attrs["id"], kind: strings.ToLower(strings.TrimSpace(kind)), attrs: attrs}
				cells = append(cells, c)
				open = append(open, c)
			} else {
				open = append(open, current)
			}
		case xml.EndElement:
			if len(open) > 0 {
				open = open[:len(open)-1]
			}
		}
	}
	if !sawRoot {
		return nil, errors.New("varxml: document has no root element")
	}
	return cells, nil
}

func attrMap(attrs []xml.Attr) map[string]string {
	out := make(map[string]string, len(attrs))
	for _, attr := range attrs {
		out[attr.Name.Local] = attr.Value
	}
	return out
}
