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

// Node is an open-order mapping from string keys to values: a value is a
// string, a number, a bool, another *Node, or a NodeList of any of the
// preceding. It pairs "keys []string" with "values map[string]any" for
// O(1) lookup with stable iteration order, narrowed to the parser's closed
// value set — this type only ever needs Get/Set/Delete/Keys/Len, not a
// general path-navigation or JSON-marshal surface.
type Node struct {
	keys   []string
	values map[string]any
}

// NodeList is an ordered list of values, used for any key that has
// received more than one value that could not be merged (repeated child
// elements, or repeated text-key values that are not both strings, such as
// coerced primitives).
type NodeList []any

func newNode() *Node {
	return &Node{values: make(map[string]any, 4)}
}

// Get returns the value stored under key and whether it was present.
func (n *Node) Get(key string) (any, bool) {
	v, ok := n.values[key]
	return v, ok
}

// Set inserts or overwrites key, appending it to the key order only the
// first time it is seen.
func (n *Node) Set(key string, value any) {
	if _, exists := n.values[key]; !exists {
		n.keys = append(n.keys, key)
	}
	n.values[key] = value
}

// Delete removes key, keeping the remaining key order stable.
func (n *Node) Delete(key string) {
	if _, exists := n.values[key]; !exists {
		return
	}
	delete(n.values, key)
	for i, k := range n.keys {
		if k == key {
			n.keys = append(n.keys[:i], n.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys of n in insertion order. The returned slice must
// not be mutated by the caller.
func (n *Node) Keys() []string {
	return n.keys
}

// Len reports the number of distinct keys in n.
func (n *Node) Len() int {
	return len(n.keys)
}

// soleKeyIs reports whether n has exactly one key and it equals key. Used
// by the closing-tag handler to detect a "textOnly" node eligible for
// text-collapse (§4.3), and by the interleaved-tag recovery path to detect
// an "orphan shell" (a node whose only key is itself, created
// speculatively and never populated).
func (n *Node) soleKeyIs(key string) bool {
	return len(n.keys) == 1 && n.keys[0] == key
}

// addValueToObject implements §4.1's tree-builder contract: insert value
// under key into obj, collapsing repeated text under textKey into a single
// concatenated string and otherwise promoting repeats to an ordered
// NodeList, preserving insertion order of distinct keys.
//
// Per the decision recorded in DESIGN.md, text concatenation under textKey
// fires whenever both the existing and new values are strings, independent
// of AlwaysCreateTextNode — that option governs only the separate
// text-collapse-on-close optimization in the closing-tag handler, not
// whether sequential text chunks merge here.
func addValueToObject(obj *Node, key string, value any, textKey string) {
	existing, ok := obj.Get(key)
	if !ok {
		obj.Set(key, value)
		return
	}

	if key == textKey {
		if es, isStr := existing.(string); isStr {
			if ns, isStr2 := value.(string); isStr2 {
				obj.Set(key, es+ns)
				return
			}
		}
	}

	if lst, isList := existing.(NodeList); isList {
		obj.Set(key, append(lst, value))
		return
	}

	obj.Set(key, NodeList{existing, value})
}
