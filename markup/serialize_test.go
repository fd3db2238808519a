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

package markup_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	streamxml "github.com/samhvw8/partial-xml-stream-parser-sub001"
	"github.com/samhvw8/partial-xml-stream-parser-sub001/markup"
)

func parseWhole(t *testing.T, doc string, opts ...streamxml.ParserOption) []any {
	t.Helper()
	p := streamxml.NewParser(opts...)
	_, err := p.ParseStream(doc)
	require.NoError(t, err)
	res, err := p.ParseStream(nil)
	require.NoError(t, err)
	return res.XML
}

func flatten(v any) any {
	switch t := v.(type) {
	case *streamxml.Node:
		m := make(map[string]any, t.Len())
		for _, k := range t.Keys() {
			val, _ := t.Get(k)
			m[k] = flatten(val)
		}
		return m
	case streamxml.NodeList:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = flatten(e)
		}
		return out
	default:
		return v
	}
}

func flattenAll(xml []any) []any {
	out := make([]any, len(xml))
	for i, v := range xml {
		out[i] = flatten(v)
	}
	return out
}

// TestSerializeReparseRoundTrip checks that serializing a parsed tree and
// feeding the result back through a fresh parser reproduces the same
// shape, once the newlines Serialize inserts between sibling tags (which
// reparse as insignificant whitespace text) are normalized away.
func TestSerializeReparseRoundTrip(t *testing.T) {
	doc := `<root id="1"><item>a</item><item>b</item></root>`
	original := parseWhole(t, doc)

	serialized := markup.Serialize(original, markup.DefaultOptions())
	require.Contains(t, serialized, "<root")

	reparsed := parseWhole(t, serialized)
	if diff := cmp.Diff(trimText(flattenAll(original)), trimText(flattenAll(reparsed))); diff != "" {
		t.Errorf("round-trip mismatch (-original +reparsed):\n%s", diff)
	}
}

// trimText trims every string value in a flattened tree and drops any that
// become empty, undoing the leading/trailing newlines Serialize's own
// formatting mixes into adjacent text content (and the now purely
// whitespace-only text runs those newlines create between sibling tags)
// so the comparison focuses on actual document content.
func trimText(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			trimmed := trimText(val)
			if s, ok := trimmed.(string); ok && s == "" {
				continue
			}
			out[k] = trimmed
		}
		return out
	case []any:
		out := make([]any, 0, len(t))
		for _, e := range t {
			trimmed := trimText(e)
			if s, ok := trimmed.(string); ok && s == "" {
				continue
			}
			out = append(out, trimmed)
		}
		return out
	case string:
		return strings.TrimSpace(t)
	default:
		return v
	}
}

func TestSerializeRendersAttributesAndNestedElements(t *testing.T) {
	xml := parseWhole(t, `<root a="1" b="x"><child>hi</child></root>`)
	got := markup.Serialize(xml, markup.DefaultOptions())

	require.Contains(t, got, `a="1"`)
	require.Contains(t, got, `b="x"`)
	require.Contains(t, got, "<child>")
	require.Contains(t, got, "hi")
	require.Contains(t, got, "</child>")
	require.Contains(t, got, "</root>")
}

func TestSerializeEscapesReservedCharacters(t *testing.T) {
	xml := parseWhole(t, `<root>a &lt; b &amp; c</root>`)
	got := markup.Serialize(xml, markup.DefaultOptions())

	require.Contains(t, got, "&lt;")
	require.Contains(t, got, "&amp;")
	require.NotContains(t, got, "a < b")
}

func TestSerializeRendersRepeatedChildrenAsSiblings(t *testing.T) {
	xml := parseWhole(t, `<root><item>a</item><item>b</item></root>`)
	got := markup.Serialize(xml, markup.DefaultOptions())

	require.Equal(t, 2, countSubstring(got, "<item>"))
	require.Equal(t, 2, countSubstring(got, "</item>"))
}

func countSubstring(s, sub string) int {
	count := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			count++
			i += len(sub) - 1
		}
	}
	return count
}
