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

package streamxml

import "testing"

func TestParseAttributesQuoteStyles(t *testing.T) {
	n := newNode()
	parseAttributes(`id="1" name='bob' title=plain`, "@", false, n)

	want := map[string]any{"@id": "1", "@name": "bob", "@title": "plain"}
	if n.Len() != len(want) {
		t.Fatalf("got %d attributes, want %d: keys=%v", n.Len(), len(want), n.Keys())
	}
	for k, v := range want {
		got, ok := n.Get(k)
		if !ok || got != v {
			t.Errorf("Get(%q) = %v, %v, want %v, true", k, got, ok, v)
		}
	}
}

func TestParseAttributesMixedQuotesDoNotLeak(t *testing.T) {
	// The backreference in attrScanner is exactly what lets a value contain
	// the other quote character without terminating early.
	n := newNode()
	parseAttributes(`a="it's fine" b='she said "hi"'`, "@", false, n)

	if got, _ := n.Get("@a"); got != "it's fine" {
		t.Errorf("Get(\"@a\") = %v, want \"it's fine\"", got)
	}
	if got, _ := n.Get("@b"); got != `she said "hi"` {
		t.Errorf("Get(\"@b\") = %v, want `she said \"hi\"`", got)
	}
}

func TestParseAttributesBareNameIsTrue(t *testing.T) {
	n := newNode()
	parseAttributes(`disabled id="1"`, "@", false, n)

	if got, _ := n.Get("@disabled"); got != true {
		t.Errorf("Get(\"@disabled\") = %#v, want true", got)
	}
}

func TestParseAttributesPreservesSourceOrder(t *testing.T) {
	n := newNode()
	parseAttributes(`z="1" a="2" m="3"`, "@", false, n)

	want := []string{"@z", "@a", "@m"}
	got := n.Keys()
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseAttributesEntityDecodesValues(t *testing.T) {
	n := newNode()
	parseAttributes(`label="a &amp; b"`, "@", false, n)

	if got, _ := n.Get("@label"); got != "a & b" {
		t.Errorf("Get(\"@label\") = %v, want \"a & b\"", got)
	}
}

func TestParseAttributesPrimitiveCoercion(t *testing.T) {
	n := newNode()
	parseAttributes(`id="1" ok="true" name="bob"`, "@", true, n)

	if got, _ := n.Get("@id"); got != float64(1) {
		t.Errorf("Get(\"@id\") = %#v, want float64(1)", got)
	}
	if got, _ := n.Get("@ok"); got != true {
		t.Errorf("Get(\"@ok\") = %#v, want true", got)
	}
	if got, _ := n.Get("@name"); got != "bob" {
		t.Errorf("Get(\"@name\") = %#v, want \"bob\"", got)
	}
}

func TestParseAttributesEmptyStringIsNoOp(t *testing.T) {
	n := newNode()
	parseAttributes("", "@", false, n)
	if n.Len() != 0 {
		t.Errorf("Len() = %d, want 0 for an empty attribute string", n.Len())
	}
}
