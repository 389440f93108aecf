package xmltree

import "github.com/ancoleman/panflow-sub001/internal/engineerr"

// Merge folds from into into: both must share
// the same tag. For each from-child carrying a "name" attribute, the
// matching into-child of the same tag and name is found and merged
// recursively; unmatched children are appended as deep clones. into's
// own text and attributes are overwritten only if overwrite is true or
// into is currently empty.
func Merge(into, from *Node, overwrite bool) error {
	if into == nil || from == nil {
		return engineerr.New(engineerr.InvalidArgument, "merge requires non-nil into and from")
	}
	if into.Tag != from.Tag {
		return engineerr.Newf(engineerr.InvalidArgument, "merge requires same tag: into=%q from=%q", into.Tag, from.Tag)
	}

	mergeAttrs(into, from, overwrite)
	if overwrite || into.Text == "" {
		into.Text = from.Text
	}

	for _, fc := range from.Children {
		name, named := fc.Attr("name")
		if !named {
			into.AppendChild(CloneDeep(fc))
			continue
		}
		target := into.ChildNamed(fc.Tag, name)
		if target == nil {
			into.AppendChild(CloneDeep(fc))
			continue
		}
		if err := Merge(target, fc, overwrite); err != nil {
			return err
		}
	}
	return nil
}

func mergeAttrs(into, from *Node, overwrite bool) {
	for _, a := range from.Attrs {
		_, present := into.Attr(a.Name)
		if overwrite || !present {
			into.SetAttr(a.Name, a.Value)
		}
	}
}
