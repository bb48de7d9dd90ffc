package component

import (
	"html"
	"strings"
)

// RenderHTML produces the initial full HTML for c and its subtree
// (spec.md §4.5). Root render assigns UIDs first so data-uid is stable in
// the string. The result is memoized per component against its mutation
// version; a cache hit short-circuits subtree traversal entirely.
func RenderHTML(c Component) string {
	if c.IsRoot() {
		AssignUIDs(c, "0", false)
	}
	return renderNode(c)
}

func renderNode(c Component) string {
	b := c.base()
	if cached, ok := b.CachedHTML(); ok {
		return cached
	}

	var sb strings.Builder
	sb.WriteString("<")
	sb.WriteString(b.tag)

	if propsStr := serializeProps(b.props); propsStr != "" {
		sb.WriteString(" ")
		sb.WriteString(propsStr)
	}
	if styleStr := serializeStyle(b.style); styleStr != "" {
		sb.WriteString(" style=\"")
		sb.WriteString(styleStr)
		sb.WriteString("\"")
	}

	if !b.inner {
		sb.WriteString("/>")
		out := sb.String()
		b.SetCachedHTML(out)
		return out
	}

	sb.WriteString(">")
	if text, ok := b.InnerText(); ok {
		sb.WriteString(html.EscapeString(text))
	}
	if cl := c.ChildrenList(); cl != nil {
		for _, child := range cl.All() {
			sb.WriteString(renderNode(child))
		}
	}
	sb.WriteString("</")
	sb.WriteString(b.tag)
	sb.WriteString(">")

	out := sb.String()
	b.SetCachedHTML(out)
	return out
}

// serializeProps renders a props Store as space-separated key="value"
// pairs in insertion order. An empty store produces "".
func serializeProps(s *Store) string {
	entries := s.Snapshot()
	if len(entries) == 0 {
		return ""
	}
	parts := make([]string, 0, len(entries))
	for _, kv := range entries {
		parts = append(parts, kv.Key+"=\""+html.EscapeString(kv.Value)+"\"")
	}
	return strings.Join(parts, " ")
}

// serializeStyle renders a style Store as a single "k:v;k2:v2;" string
// suitable for the style="" attribute. An empty store produces "".
func serializeStyle(s *Store) string {
	entries := s.Snapshot()
	if len(entries) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, kv := range entries {
		sb.WriteString(kv.Key)
		sb.WriteString(":")
		sb.WriteString(kv.Value)
		sb.WriteString(";")
	}
	return sb.String()
}
