package xmltree

import (
	"github.com/clbanning/mxj"

	"github.com/ancoleman/panflow-sub001/internal/engineerr"
)

// ElementToDict converts n (and its subtree) into a generic
// map[string]interface{} representation via clbanning/mxj: a
// structure-preserving, easily-diffed/serialized view of a subtree,
// distinct from the live Node tree used for mutation.
func ElementToDict(n *Node) (mxj.Map, error) {
	xmlBytes := []byte(Serialize(n))
	m, err := mxj.NewMapXml(xmlBytes)
	if err != nil {
		return nil, engineerr.Wrap(engineerr.Internal, err, "element_to_dict: mxj conversion failed")
	}
	return m, nil
}

// DictToElement converts an mxj.Map produced by ElementToDict (or an
// equivalent caller-constructed map) back into a detached Node tree.
func DictToElement(m mxj.Map) (*Node, error) {
	xmlBytes, err := m.Xml()
	if err != nil {
		return nil, engineerr.Wrap(engineerr.Internal, err, "dict_to_element: mxj serialization failed")
	}
	root, err := ParseFragmentString(string(xmlBytes))
	if err != nil {
		return nil, engineerr.Wrap(engineerr.Internal, err, "dict_to_element: reparse failed")
	}
	return root, nil
}
