// Package criteria implements the filter_objects/merge-filter-file
// Criteria DSL: a map whose keys are either a plain field
// name (compared by equality or list membership), a special token
// (has-tag, value), or a string prefixed with "xpath:" carrying a raw
// XPath predicate evaluated against the candidate element.
package criteria

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ancoleman/panflow-sub001/internal/engineerr"
	"github.com/ancoleman/panflow-sub001/internal/entity"
	"github.com/ancoleman/panflow-sub001/internal/xmltree"
)

// Criteria is one filter/merge predicate set. Values are whatever a
// YAML filter file or caller literal provides: a string, a bool, or a
// list of strings.
type Criteria map[string]any

const xpathPrefix = "xpath:"

// hasTagToken and valueToken are the two special field tokens
// recognized beyond plain-field and "xpath:" keys.
const (
	hasTagToken = "has-tag"
	valueToken  = "value"
)

// Match reports whether el satisfies every key in c (conjunction: an
// empty Criteria matches everything).
func Match(el *xmltree.Node, c Criteria) (bool, error) {
	for key, want := range c {
		ok, err := matchOne(el, key, want)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func matchOne(el *xmltree.Node, key string, want any) (bool, error) {
	switch {
	case strings.HasPrefix(key, xpathPrefix):
		pred := strings.TrimPrefix(key, xpathPrefix)
		matches, err := xmltree.EvalRelative(el, pred)
		if err != nil {
			return false, engineerr.Wrap(engineerr.InvalidXPath, err, "criteria: xpath predicate "+pred)
		}
		return len(matches) > 0, nil

	case key == hasTagToken:
		tag, ok := want.(string)
		if !ok {
			return false, engineerr.Newf(engineerr.InvalidArgument, "criteria: has-tag expects a string, got %T", want)
		}
		for _, t := range (entity.ObjectView{Node: el}).Tags() {
			if t == tag {
				return true, nil
			}
		}
		return false, nil

	case key == valueToken:
		return matchValue(entity.NewAddress(el).Value(), want), nil

	default:
		return matchField(el, key, want), nil
	}
}

// matchField resolves a plain field name against el: the "name"
// attribute, any other attribute, a scalar child's text, or a
// tag/member-style child's member list (membership instead of equality).
func matchField(el *xmltree.Node, field string, want any) bool {
	if field == "name" {
		return matchValue(el.Name(), want)
	}
	if v, ok := el.Attr(field); ok {
		return matchValue(v, want)
	}
	child := el.Child(field)
	if child == nil {
		return false
	}
	if members := child.ChildrenByTag("member"); len(members) > 0 {
		return matchMembers(child.MemberNames(), want)
	}
	return matchValue(xmltree.TextOf(child), want)
}

// matchValue compares a single scalar against want, which may be a
// string, bool, or []string (membership rather than equality).
func matchValue(actual string, want any) bool {
	switch w := want.(type) {
	case string:
		return actual == w
	case bool:
		b, err := strconv.ParseBool(actual)
		return err == nil && b == w
	case []string:
		for _, s := range w {
			if s == actual {
				return true
			}
		}
		return false
	case []any:
		for _, s := range w {
			if fmt.Sprint(s) == actual {
				return true
			}
		}
		return false
	default:
		return fmt.Sprint(want) == actual
	}
}

// matchMembers reports whether any of want's values names a member of
// members.
func matchMembers(members []string, want any) bool {
	wanted := toStrings(want)
	for _, w := range wanted {
		for _, m := range members {
			if m == w {
				return true
			}
		}
	}
	return false
}

func toStrings(v any) []string {
	switch w := v.(type) {
	case string:
		return []string{w}
	case []string:
		return w
	case []any:
		out := make([]string, 0, len(w))
		for _, e := range w {
			out = append(out, fmt.Sprint(e))
		}
		return out
	default:
		return []string{fmt.Sprint(v)}
	}
}

// Filter returns every "entry" child of container satisfying c, in
// document order.
func Filter(container *xmltree.Node, c Criteria) ([]*xmltree.Node, error) {
	var out []*xmltree.Node
	if container == nil {
		return out, nil
	}
	for _, entry := range container.ChildrenByTag("entry") {
		ok, err := Match(entry, c)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, entry)
		}
	}
	return out, nil
}

// LoadFile parses a YAML filter file
// into a Criteria map.
func LoadFile(r io.Reader) (Criteria, error) {
	var c Criteria
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&c); err != nil {
		if err == io.EOF {
			return Criteria{}, nil
		}
		return nil, engineerr.Wrap(engineerr.ParseError, err, "criteria: failed to parse filter file")
	}
	if c == nil {
		c = Criteria{}
	}
	return c, nil
}
