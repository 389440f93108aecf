package xmltree

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/ancoleman/panflow-sub001/internal/engineerr"
)

// Parse reads a single well-formed XML document from r whose root
// element is expected to be "config" and returns it as a
// Document. Parsing is structural only: it does not validate PAN-OS
// semantics (that is internal/validate's job).
func Parse(r io.Reader) (*Document, error) {
	root, err := parseRoot(r)
	if err != nil {
		return nil, err
	}
	if root.Tag != "config" {
		return nil, engineerr.Newf(engineerr.ParseError, "expected root element <config>, found <%s>", root.Tag)
	}
	return NewDocument(root), nil
}

// ParseFragment reads a single well-formed XML element of any tag (used
// to round-trip subtrees through ElementToDict/DictToElement and to
// build fixtures for kinds below <config>).
func ParseFragment(r io.Reader) (*Node, error) {
	return parseRoot(r)
}

func parseRoot(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader

	var root *Node
	var stack []*Node

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, engineerr.Wrap(engineerr.ParseError, err, "failed to parse XML")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := NewNode(t.Name.Local)
			for _, a := range t.Attr {
				n.Attrs = append(n.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.AppendChild(n)
			} else if root == nil {
				root = n
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, engineerr.New(engineerr.ParseError, "unbalanced XML: unexpected end element")
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				cur := stack[len(stack)-1]
				text := string(t)
				if strings.TrimSpace(text) != "" {
					cur.Text += text
				}
			}
		}
	}

	if root == nil {
		return nil, engineerr.New(engineerr.ParseError, "no root element found")
	}
	return root, nil
}

// charsetReader is permissive: PAN-OS exports are UTF-8, but some
// historical configs declare other IANA charset labels without actually
// using non-ASCII bytes. Rather than pull in a charset-decoding library
// for a label that's almost always a lie, treat every declared charset
// as raw bytes and let the XML decoder's own UTF-8 validation catch
// genuine problems.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8", "us-ascii", "ascii":
		return input, nil
	default:
		return input, nil
	}
}

// ParseString is a convenience wrapper around Parse for tests and small
// embedded fixtures.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// ParseFragmentString is a convenience wrapper around ParseFragment.
func ParseFragmentString(s string) (*Node, error) {
	return ParseFragment(strings.NewReader(s))
}
