package xmltree

import (
	"fmt"
	"strings"
)

// Serialize renders n (and its descendants) as an XML fragment, without
// indentation. Attribute values are escaped for double-quoted XML
// attribute syntax; text content is escaped for element content.
func Serialize(n *Node) string {
	var sb strings.Builder
	serializeInto(&sb, n, "", "")
	return sb.String()
}

// PrettyPrint renders the document rooted at n as indented, UTF-8 XML
// with a leading XML declaration.
func PrettyPrint(n *Node) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	serializeInto(&sb, n, "", "  ")
	sb.WriteString("\n")
	return sb.String()
}

func serializeInto(sb *strings.Builder, n *Node, indent, step string) {
	sb.WriteString(indent)
	sb.WriteString("<")
	sb.WriteString(n.Tag)
	for _, a := range n.Attrs {
		fmt.Fprintf(sb, " %s=%q", a.Name, escapeAttr(a.Value))
	}

	if len(n.Children) == 0 && strings.TrimSpace(n.Text) == "" {
		sb.WriteString("/>")
		return
	}

	sb.WriteString(">")
	if len(n.Children) == 0 {
		sb.WriteString(escapeText(n.Text))
	} else {
		childIndent := indent + step
		for _, c := range n.Children {
			if step != "" {
				sb.WriteString("\n")
			}
			serializeInto(sb, c, childIndent, step)
		}
		if step != "" {
			sb.WriteString("\n")
			sb.WriteString(indent)
		}
	}
	sb.WriteString("</")
	sb.WriteString(n.Tag)
	sb.WriteString(">")
}

func escapeAttr(s string) string {
	r := strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;")
	return r.Replace(s)
}

func escapeText(s string) string {
	r := strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;")
	return r.Replace(s)
}
