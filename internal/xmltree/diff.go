package xmltree

import "fmt"

// DiffChangeType tags the kind of change a DiffItem represents.
type DiffChangeType string

const (
	DiffAdded     DiffChangeType = "added"
	DiffRemoved   DiffChangeType = "removed"
	DiffChanged   DiffChangeType = "changed"
	DiffUnchanged DiffChangeType = "unchanged"
)

// DiffItem is one entry in a tree diff.
type DiffItem struct {
	Type         DiffChangeType
	Path         string
	SourceValue  string
	TargetValue  string
}

// Diff compares source and target subtrees and returns a flat list of
// DiffItems. Siblings are paired first by @name, then by positional
// order, then by a similarity score (tag match 0.3 + text equality 0.3 +
// attribute Jaccard 0.4; threshold 0.5 to pair).
func Diff(source, target *Node) []DiffItem {
	return diffNodes(source, target, "")
}

func diffNodes(source, target *Node, path string) []DiffItem {
	var items []DiffItem

	if source == nil && target == nil {
		return items
	}
	if source == nil {
		items = append(items, DiffItem{Type: DiffAdded, Path: path, TargetValue: describeNode(target)})
		return items
	}
	if target == nil {
		items = append(items, DiffItem{Type: DiffRemoved, Path: path, SourceValue: describeNode(source)})
		return items
	}

	selfChanged := source.Text != target.Text || !attrsEqual(source.Attrs, target.Attrs)
	if selfChanged {
		items = append(items, DiffItem{
			Type:        DiffChanged,
			Path:        path,
			SourceValue: describeNode(source),
			TargetValue: describeNode(target),
		})
	} else {
		items = append(items, DiffItem{Type: DiffUnchanged, Path: path, SourceValue: describeNode(source)})
	}

	pairs := pairChildren(source.Children, target.Children)
	for _, p := range pairs {
		childPath := path + "/" + childLabel(p.src, p.tgt)
		items = append(items, diffNodes(p.src, p.tgt, childPath)...)
	}

	return items
}

func childLabel(src, tgt *Node) string {
	n := src
	if n == nil {
		n = tgt
	}
	if name, ok := n.Attr("name"); ok {
		return fmt.Sprintf("%s[@name='%s']", n.Tag, name)
	}
	return n.Tag
}

type childPair struct {
	src, tgt *Node
}

// pairChildren matches source and target children: first by (tag,
// @name), then leftover same-tag children by positional order, then any
// remaining pairs by similarity score above the 0.5 threshold. Anything
// left unmatched on either side becomes an added/removed DiffItem.
func pairChildren(src, tgt []*Node) []childPair {
	srcRemaining := append([]*Node(nil), src...)
	tgtRemaining := append([]*Node(nil), tgt...)
	var pairs []childPair

	// Pass 1: match by (tag, @name).
	for i := 0; i < len(srcRemaining); i++ {
		s := srcRemaining[i]
		name, hasName := s.Attr("name")
		if !hasName {
			continue
		}
		for j := 0; j < len(tgtRemaining); j++ {
			t := tgtRemaining[j]
			tname, ok := t.Attr("name")
			if ok && t.Tag == s.Tag && tname == name {
				pairs = append(pairs, childPair{s, t})
				srcRemaining = removeAt(srcRemaining, i)
				tgtRemaining = removeAt(tgtRemaining, j)
				i--
				break
			}
		}
	}

	// Pass 2: match remaining same-tag, unnamed children positionally.
	var stillSrc []*Node
	for _, s := range srcRemaining {
		if _, hasName := s.Attr("name"); hasName {
			stillSrc = append(stillSrc, s)
			continue
		}
		matched := false
		for j, t := range tgtRemaining {
			if _, hasName := t.Attr("name"); hasName {
				continue
			}
			if t.Tag == s.Tag {
				pairs = append(pairs, childPair{s, t})
				tgtRemaining = removeAt(tgtRemaining, j)
				matched = true
				break
			}
		}
		if !matched {
			stillSrc = append(stillSrc, s)
		}
	}
	srcRemaining = stillSrc

	// Pass 3: similarity scoring, but only among unnamed leftovers. A
	// named child that failed to match by @name in pass 1 is a distinct
	// entity, not a fuzzy-matching candidate - it is a pure add/remove.
	var unnamedSrc, namedSrc []*Node
	for _, s := range srcRemaining {
		if _, hasName := s.Attr("name"); hasName {
			namedSrc = append(namedSrc, s)
		} else {
			unnamedSrc = append(unnamedSrc, s)
		}
	}
	var unnamedTgt, namedTgt []*Node
	for _, t := range tgtRemaining {
		if _, hasName := t.Attr("name"); hasName {
			namedTgt = append(namedTgt, t)
		} else {
			unnamedTgt = append(unnamedTgt, t)
		}
	}

	var unmatchedSrc []*Node
	for _, s := range unnamedSrc {
		bestJ := -1
		bestScore := 0.0
		for j, t := range unnamedTgt {
			score := similarity(s, t)
			if score > bestScore {
				bestScore = score
				bestJ = j
			}
		}
		if bestJ >= 0 && bestScore >= 0.5 {
			pairs = append(pairs, childPair{s, unnamedTgt[bestJ]})
			unnamedTgt = removeAt(unnamedTgt, bestJ)
		} else {
			unmatchedSrc = append(unmatchedSrc, s)
		}
	}

	for _, s := range append(unmatchedSrc, namedSrc...) {
		pairs = append(pairs, childPair{s, nil})
	}
	for _, t := range append(unnamedTgt, namedTgt...) {
		pairs = append(pairs, childPair{nil, t})
	}

	return pairs
}

func removeAt(nodes []*Node, idx int) []*Node {
	return append(nodes[:idx], nodes[idx+1:]...)
}

// similarity scores two nodes: tag match 0.3 + text equality 0.3 +
// attribute Jaccard 0.4.
func similarity(a, b *Node) float64 {
	score := 0.0
	if a.Tag == b.Tag {
		score += 0.3
	}
	if a.Text == b.Text {
		score += 0.3
	}
	score += 0.4 * attrJaccard(a.Attrs, b.Attrs)
	return score
}

func attrJaccard(a, b []Attr) float64 {
	setA := map[string]string{}
	for _, x := range a {
		setA[x.Name] = x.Value
	}
	setB := map[string]string{}
	for _, x := range b {
		setB[x.Name] = x.Value
	}
	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}
	union := map[string]bool{}
	intersection := 0
	for k, v := range setA {
		union[k] = true
		if bv, ok := setB[k]; ok && bv == v {
			intersection++
		}
	}
	for k := range setB {
		union[k] = true
	}
	if len(union) == 0 {
		return 0
	}
	return float64(intersection) / float64(len(union))
}

func attrsEqual(a, b []Attr) bool {
	if len(a) != len(b) {
		return false
	}
	m := map[string]string{}
	for _, x := range a {
		m[x.Name] = x.Value
	}
	for _, y := range b {
		if v, ok := m[y.Name]; !ok || v != y.Value {
			return false
		}
	}
	return true
}

func describeNode(n *Node) string {
	if n == nil {
		return ""
	}
	if n.Text != "" {
		return n.Text
	}
	if name, ok := n.Attr("name"); ok {
		return name
	}
	return n.Tag
}
