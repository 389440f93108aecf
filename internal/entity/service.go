package entity

import (
	"github.com/ancoleman/panflow-sub001/internal/xmltree"
)

// Service is the typed view over a <service><entry> element.
type Service struct {
	Node *xmltree.Node
}

func NewService(n *xmltree.Node) Service {
	return Service{Node: n}
}

func (s Service) Name() string {
	return s.Node.Name()
}

// Protocol returns "tcp", "udp", or "" if neither protocol child is
// present (a structurally invalid service).
func (s Service) Protocol() string {
	if s.Node.Child("protocol") == nil {
		return ""
	}
	proto := s.Node.Child("protocol")
	if proto.Child("tcp") != nil {
		return "tcp"
	}
	if proto.Child("udp") != nil {
		return "udp"
	}
	return ""
}

func (s Service) protocolNode(create bool) *xmltree.Node {
	proto := s.Node.Child("protocol")
	if proto == nil {
		if !create {
			return nil
		}
		proto = xmltree.CreateChild(s.Node, "protocol", nil)
	}
	return proto
}

// DestinationPort returns the destination port/range text for the active
// protocol, e.g. "443" or "1024-65535".
func (s Service) DestinationPort() string {
	proto := s.protocolNode(false)
	if proto == nil {
		return ""
	}
	for _, t := range []string{"tcp", "udp"} {
		if p := proto.Child(t); p != nil {
			return xmltree.TextOf(p.Child("port"))
		}
	}
	return ""
}

// SourcePort returns the source port/range text for the active protocol,
// or "" if unset (PAN-OS treats an absent source-port as "any").
func (s Service) SourcePort() string {
	proto := s.protocolNode(false)
	if proto == nil {
		return ""
	}
	for _, t := range []string{"tcp", "udp"} {
		if p := proto.Child(t); p != nil {
			return xmltree.TextOf(p.Child("source-port"))
		}
	}
	return ""
}

// SetPorts sets the protocol, destination port, and (optionally empty)
// source port in one call, replacing whichever protocol sub-element was
// previously present.
func (s Service) SetPorts(protocol, destPort, sourcePort string) {
	proto := s.protocolNode(true)
	for _, t := range []string{"tcp", "udp"} {
		if t != protocol {
			if existing := proto.Child(t); existing != nil {
				proto.RemoveChild(existing)
			}
		}
	}
	protoChild := proto.Child(protocol)
	if protoChild == nil {
		protoChild = xmltree.CreateChild(proto, protocol, nil)
	}
	port := protoChild.Child("port")
	if port == nil {
		port = xmltree.CreateChild(protoChild, "port", nil)
	}
	xmltree.SetText(port, destPort)

	if sourcePort != "" {
		sp := protoChild.Child("source-port")
		if sp == nil {
			sp = xmltree.CreateChild(protoChild, "source-port", nil)
		}
		xmltree.SetText(sp, sourcePort)
	}
}

func (s Service) Description() string {
	return ObjectView{Node: s.Node}.Description()
}

func (s Service) Tags() []string {
	return ObjectView{Node: s.Node}.Tags()
}

// ServiceGroup is the typed view over a <service-group><entry> element.
type ServiceGroup struct {
	Node *xmltree.Node
}

func NewServiceGroup(n *xmltree.Node) ServiceGroup {
	return ServiceGroup{Node: n}
}

func (g ServiceGroup) Name() string {
	return g.Node.Name()
}

func (g ServiceGroup) Members() []string {
	members := g.Node.Child("members")
	if members == nil {
		return nil
	}
	return members.MemberNames()
}

func (g ServiceGroup) SetMembers(names []string) {
	members := g.Node.Child("members")
	if members == nil {
		members = xmltree.CreateChild(g.Node, "members", nil)
	}
	members.SetMemberNames(names)
}

func (g ServiceGroup) Tags() []string {
	return ObjectView{Node: g.Node}.Tags()
}
