// Copyright 2025 EasyAgent
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package markup is the thin serializer collaborator named out of scope in
// the parser's own spec: it turns a Result.XML snapshot back into markup
// text. It does not attempt the inverse of everything the parser does —
// in particular it makes no attempt to guess when a text value should be
// wrapped back in a CDATA section; that heuristic is explicitly left out
// (round-tripping through &lt;/&amp; entity escaping is always correct,
// just not always textually identical to the original source).
package markup

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/samhvw8/partial-xml-stream-parser-sub001"
)

// Options controls how Serialize renders a snapshot. The zero value uses
// streamxml's own defaults for TextNodeName/AttributeNamePrefix, so a
// caller serializing a Result produced with custom options must pass the
// matching Options here too.
type Options struct {
	TextNodeName        string
	AttributeNamePrefix string
	Indent              string
}

// DefaultOptions mirrors streamxml.DefaultOptions()'s key conventions.
func DefaultOptions() Options {
	return Options{
		TextNodeName:        "#text",
		AttributeNamePrefix: "@",
		Indent:              "",
	}
}

// Serialize renders items — typically a Result.XML snapshot — back to
// markup text, in the order the items appear.
func Serialize(items []any, opts Options) string {
	if opts.TextNodeName == "" {
		opts.TextNodeName = "#text"
	}
	if opts.AttributeNamePrefix == "" {
		opts.AttributeNamePrefix = "@"
	}

	var b strings.Builder
	for _, item := range items {
		writeItem(&b, item, opts, 0)
	}
	return b.String()
}

func writeItem(b *strings.Builder, item any, o Options, depth int) {
	switch v := item.(type) {
	case *streamxml.Node:
		for _, key := range v.Keys() {
			val, _ := v.Get(key)
			writeElement(b, key, val, o, depth)
		}
	case streamxml.NodeList:
		for _, entry := range v {
			writeItem(b, entry, o, depth)
		}
	default:
		writeIndent(b, o, depth)
		b.WriteString(escapeText(scalarToString(v)))
		b.WriteByte('\n')
	}
}

func writeElement(b *strings.Builder, name string, value any, o Options, depth int) {
	if list, isList := value.(streamxml.NodeList); isList {
		for _, entry := range list {
			writeElement(b, name, entry, o, depth)
		}
		return
	}

	node, isNode := value.(*streamxml.Node)
	if !isNode {
		writeIndent(b, o, depth)
		fmt.Fprintf(b, "<%s>%s</%s>\n", name, escapeText(scalarToString(value)), name)
		return
	}

	attrs, children := splitAttributes(node, o)

	writeIndent(b, o, depth)
	b.WriteByte('<')
	b.WriteString(name)
	for _, a := range attrs {
		fmt.Fprintf(b, ` %s="%s"`, strings.TrimPrefix(a.key, o.AttributeNamePrefix), escapeAttr(a.val))
	}

	if len(children) == 0 {
		b.WriteString("/>\n")
		return
	}
	b.WriteString(">\n")

	for _, c := range children {
		if c.key == o.TextNodeName {
			writeScalarChildren(b, c.val, o, depth+1)
			continue
		}
		writeElement(b, c.key, c.val, o, depth+1)
	}

	writeIndent(b, o, depth)
	fmt.Fprintf(b, "</%s>\n", name)
}

func writeScalarChildren(b *strings.Builder, value any, o Options, depth int) {
	if list, ok := value.(streamxml.NodeList); ok {
		for _, v := range list {
			writeIndent(b, o, depth)
			b.WriteString(escapeText(scalarToString(v)))
			b.WriteByte('\n')
		}
		return
	}
	writeIndent(b, o, depth)
	b.WriteString(escapeText(scalarToString(value)))
	b.WriteByte('\n')
}

type keyVal struct {
	key string
	val any
}

// splitAttributes separates node's attribute keys (AttributeNamePrefix) and
// text key from its element children, preserving insertion order within
// each group; attributes are additionally stable-sorted by name for
// deterministic output regardless of scan order.
func splitAttributes(node *streamxml.Node, o Options) (attrs, rest []keyVal) {
	for _, key := range node.Keys() {
		val, _ := node.Get(key)
		if strings.HasPrefix(key, o.AttributeNamePrefix) && key != o.TextNodeName {
			attrs = append(attrs, keyVal{key, val})
			continue
		}
		rest = append(rest, keyVal{key, val})
	}
	sort.SliceStable(attrs, func(i, j int) bool { return attrs[i].key < attrs[j].key })
	return attrs, rest
}

func writeIndent(b *strings.Builder, o Options, depth int) {
	if o.Indent == "" {
		return
	}
	b.WriteString(strings.Repeat(o.Indent, depth))
}

func scalarToString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func escapeText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

func escapeAttr(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
