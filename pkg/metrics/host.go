package metrics

import (
	"github.com/vango-dev/reactor/pkg/renderer"
	"github.com/vango-dev/reactor/pkg/vdom"
)

// Host wraps h so that every mutation is counted by operation. Reads
// (Parent, NextSibling, Query) are not counted.
func (c *Collector) Host(h renderer.Host) renderer.Host {
	return &host{Host: h, c: c}
}

type host struct {
	renderer.Host
	c *Collector
}

func (h *host) count(op string) {
	h.c.hostOps.WithLabelValues(op).Inc()
}

func (h *host) CreateElement(tag string, svg bool) renderer.Node {
	h.count("create_element")
	return h.Host.CreateElement(tag, svg)
}

func (h *host) CreateText(text string) renderer.Node {
	h.count("create_text")
	return h.Host.CreateText(text)
}

func (h *host) SetText(node renderer.Node, text string) {
	h.count("set_text")
	h.Host.SetText(node, text)
}

func (h *host) SetAttribute(el renderer.Node, key, value string) {
	h.count("set_attribute")
	h.Host.SetAttribute(el, key, value)
}

func (h *host) RemoveAttribute(el renderer.Node, key string) {
	h.count("remove_attribute")
	h.Host.RemoveAttribute(el, key)
}

func (h *host) SetProperty(el renderer.Node, key string, value any) {
	h.count("set_property")
	h.Host.SetProperty(el, key, value)
}

func (h *host) SetStyle(el renderer.Node, name, value string) {
	h.count("set_style")
	h.Host.SetStyle(el, name, value)
}

func (h *host) RemoveStyle(el renderer.Node, name string) {
	h.count("remove_style")
	h.Host.RemoveStyle(el, name)
}

func (h *host) AddEventListener(el renderer.Node, event string, handler vdom.Handler) {
	h.count("add_listener")
	h.Host.AddEventListener(el, event, handler)
}

func (h *host) RemoveEventListener(el renderer.Node, event string) {
	h.count("remove_listener")
	h.Host.RemoveEventListener(el, event)
}

func (h *host) Insert(parent, child, anchor renderer.Node) {
	h.count("insert")
	h.Host.Insert(parent, child, anchor)
}

func (h *host) Remove(parent, child renderer.Node) {
	h.count("remove")
	h.Host.Remove(parent, child)
}
