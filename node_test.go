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

func TestNodeSetPreservesInsertionOrder(t *testing.T) {
	n := newNode()
	n.Set("c", 1)
	n.Set("a", 2)
	n.Set("b", 3)
	n.Set("a", 99) // re-set must not move "a"

	want := []string{"c", "a", "b"}
	got := n.Keys()
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	v, ok := n.Get("a")
	if !ok || v != 99 {
		t.Errorf("Get(\"a\") = %v, %v, want 99, true", v, ok)
	}
}

func TestNodeDeleteKeepsRemainingOrder(t *testing.T) {
	n := newNode()
	n.Set("x", 1)
	n.Set("y", 2)
	n.Set("z", 3)
	n.Delete("y")

	want := []string{"x", "z"}
	got := n.Keys()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Keys() after delete = %v, want %v", got, want)
	}
	if _, ok := n.Get("y"); ok {
		t.Errorf("Get(\"y\") reported present after Delete")
	}
	n.Delete("missing") // must be a no-op, not a panic
}

func TestNodeLenAndSoleKeyIs(t *testing.T) {
	n := newNode()
	if n.Len() != 0 {
		t.Errorf("Len() on empty node = %d, want 0", n.Len())
	}
	n.Set("#text", "hi")
	if n.Len() != 1 {
		t.Errorf("Len() = %d, want 1", n.Len())
	}
	if !n.soleKeyIs("#text") {
		t.Errorf("soleKeyIs(\"#text\") = false, want true")
	}
	n.Set("child", newNode())
	if n.soleKeyIs("#text") {
		t.Errorf("soleKeyIs(\"#text\") = true after adding a second key, want false")
	}
}

func TestAddValueToObjectFirstInsert(t *testing.T) {
	n := newNode()
	addValueToObject(n, "#text", "hello", "#text")
	v, ok := n.Get("#text")
	if !ok || v != "hello" {
		t.Errorf("Get(\"#text\") = %v, %v, want \"hello\", true", v, ok)
	}
}

func TestAddValueToObjectConcatenatesRepeatedText(t *testing.T) {
	n := newNode()
	addValueToObject(n, "#text", "hel", "#text")
	addValueToObject(n, "#text", "lo", "#text")
	v, _ := n.Get("#text")
	if v != "hello" {
		t.Errorf("Get(\"#text\") = %v, want \"hello\"", v)
	}
}

func TestAddValueToObjectPromotesRepeatedNonTextToList(t *testing.T) {
	n := newNode()
	child1 := newNode()
	child1.Set("#text", "one")
	child2 := newNode()
	child2.Set("#text", "two")

	addValueToObject(n, "item", child1, "#text")
	addValueToObject(n, "item", child2, "#text")

	v, ok := n.Get("item")
	if !ok {
		t.Fatalf("Get(\"item\") missing")
	}
	list, ok := v.(NodeList)
	if !ok || len(list) != 2 {
		t.Fatalf("Get(\"item\") = %#v, want a 2-element NodeList", v)
	}
	if list[0] != any(child1) || list[1] != any(child2) {
		t.Errorf("NodeList order/contents wrong: %#v", list)
	}
}

func TestAddValueToObjectThirdRepeatAppendsToExistingList(t *testing.T) {
	n := newNode()
	addValueToObject(n, "item", "a", "#text")
	addValueToObject(n, "item", "b", "#text")
	addValueToObject(n, "item", "c", "#text")

	v, _ := n.Get("item")
	list, ok := v.(NodeList)
	if !ok || len(list) != 3 {
		t.Fatalf("Get(\"item\") = %#v, want a 3-element NodeList", v)
	}
}

func TestAddValueToObjectNonStringTextDoesNotConcatenate(t *testing.T) {
	n := newNode()
	addValueToObject(n, "#text", float64(1), "#text")
	addValueToObject(n, "#text", float64(2), "#text")

	v, _ := n.Get("#text")
	if _, ok := v.(NodeList); !ok {
		t.Errorf("Get(\"#text\") = %#v (%T), want a NodeList since values weren't strings", v, v)
	}
}

func TestArenaAllocAndGet(t *testing.T) {
	a := newArena()
	if a.get(noNode) != nil {
		t.Errorf("get(noNode) = non-nil, want nil")
	}
	r1 := a.alloc()
	r2 := a.alloc()
	if r1 == r2 {
		t.Errorf("alloc() returned the same ref twice: %v", r1)
	}
	n1 := a.get(r1)
	if n1 == nil {
		t.Fatalf("get(%v) = nil", r1)
	}
	n1.Set("tag", "a")
	if got, _ := a.get(r1).Get("tag"); got != "a" {
		t.Errorf("get(%v).Get(\"tag\") = %v, want \"a\"", r1, got)
	}
	if a.get(nodeRef(99)) != nil {
		t.Errorf("get(99) = non-nil for an out-of-range ref, want nil")
	}
}

func TestArenaReset(t *testing.T) {
	a := newArena()
	a.alloc()
	a.alloc()
	a.reset()
	if len(a.cells) != 0 {
		t.Errorf("reset() left %d cells, want 0", len(a.cells))
	}
}
