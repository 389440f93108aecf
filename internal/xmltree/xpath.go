package xmltree

import (
	"strconv"
	"strings"

	"github.com/ancoleman/panflow-sub001/internal/engineerr"
)

// segment is one "/"-delimited step of an XPath expression, e.g.
// entry[@name='web'], *, entry[2], or device-group.
type segment struct {
	descendant bool // true if preceded by "//"
	tag        string
	wildcard   bool
	nameEq     string // from [@name='...'], empty if absent
	hasNameEq  bool
	position   int // from [N], 0 if absent
}

// parseXPath splits a PAN-OS-style absolute XPath into segments. Supports
// the subset the engine actually produces: tag names, "*", "[@name='x']"
// predicates, and "[N]" positional predicates, with "//" anywhere for
// descendant search.
func parseXPath(path string) ([]segment, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, engineerr.New(engineerr.InvalidXPath, "empty xpath")
	}
	if !strings.HasPrefix(path, "/") {
		return nil, engineerr.Newf(engineerr.InvalidXPath, "xpath must be absolute: %q", path)
	}

	// path always starts with "/", so the first split element is "".
	// Drop it here rather than in the loop below, so only a genuine "//"
	// (descendant search) produces a further empty part to react to -
	// the single leading slash marking "this path is absolute" must not
	// itself be read as "the first step is a descendant step".
	raw := strings.Split(path, "/")[1:]
	var segs []segment
	descendant := false
	for _, part := range raw {
		if part == "" {
			if descendant {
				return nil, engineerr.Newf(engineerr.InvalidXPath, "malformed xpath: %q", path)
			}
			descendant = true
			continue
		}
		seg, err := parseSegment(part)
		if err != nil {
			return nil, err
		}
		seg.descendant = descendant
		descendant = false
		segs = append(segs, seg)
	}
	if len(segs) == 0 {
		return nil, engineerr.Newf(engineerr.InvalidXPath, "xpath has no steps: %q", path)
	}
	return segs, nil
}

func parseSegment(part string) (segment, error) {
	seg := segment{}
	tag := part
	if i := strings.Index(part, "["); i >= 0 {
		if !strings.HasSuffix(part, "]") {
			return seg, engineerr.Newf(engineerr.InvalidXPath, "malformed predicate: %q", part)
		}
		tag = part[:i]
		pred := part[i+1 : len(part)-1]
		if strings.HasPrefix(pred, "@name=") {
			val := strings.TrimPrefix(pred, "@name=")
			val = strings.Trim(val, `'"`)
			seg.nameEq = val
			seg.hasNameEq = true
		} else if n, err := strconv.Atoi(pred); err == nil {
			seg.position = n
		} else {
			return seg, engineerr.Newf(engineerr.InvalidXPath, "unsupported predicate: %q", pred)
		}
	}
	if tag == "*" {
		seg.wildcard = true
	}
	seg.tag = tag
	return seg, nil
}

func matchesSegment(n *Node, seg segment) bool {
	if !seg.wildcard && n.Tag != seg.tag {
		return false
	}
	if seg.hasNameEq && n.Name() != seg.nameEq {
		return false
	}
	return true
}

// evalFrom evaluates the remaining segments starting at the given set of
// context nodes, honoring positional predicates relative to same-tag
// siblings.
func evalFrom(contexts []*Node, segs []segment) []*Node {
	if len(segs) == 0 {
		return contexts
	}
	seg := segs[0]
	rest := segs[1:]

	var next []*Node
	for _, ctx := range contexts {
		var candidates []*Node
		if seg.descendant {
			candidates = descendantsOf(ctx)
		} else {
			candidates = ctx.Children
		}

		if seg.position > 0 {
			// Positional predicate: Nth matching-tag child (1-indexed).
			count := 0
			for _, c := range candidates {
				if (seg.wildcard || c.Tag == seg.tag) && !seg.descendant {
					count++
					if count == seg.position {
						next = append(next, c)
						break
					}
				}
			}
			continue
		}

		for _, c := range candidates {
			if matchesSegment(c, seg) {
				next = append(next, c)
			}
		}
	}
	return evalFrom(next, rest)
}

func descendantsOf(n *Node) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(cur *Node) {
		for _, c := range cur.Children {
			out = append(out, c)
			walk(c)
		}
	}
	walk(n)
	return out
}

// Eval evaluates an absolute XPath expression against root (root must
// satisfy the first segment, typically "config") and returns every
// matching node in document order.
func Eval(root *Node, path string) ([]*Node, error) {
	segs, err := parseXPath(path)
	if err != nil {
		return nil, err
	}
	if !matchesSegment(root, segs[0]) || segs[0].descendant {
		return nil, nil
	}
	return evalFrom([]*Node{root}, segs[1:]), nil
}

// EvalRelative evaluates path's steps directly against node's children
// (node itself is not checked against any segment), used by the
// Criteria DSL's "xpath:" predicate to test a raw XPath
// predicate against a single candidate element rather than the whole
// document.
func EvalRelative(node *Node, path string) ([]*Node, error) {
	segs, err := parseXPath("/" + strings.TrimPrefix(strings.TrimSpace(path), "/"))
	if err != nil {
		return nil, err
	}
	return evalFrom([]*Node{node}, segs), nil
}
