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

func TestDecodeXmlEntitiesNamed(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"a &lt; b", "a < b"},
		{"a &gt; b", "a > b"},
		{"Tom &amp; Jerry", "Tom & Jerry"},
		{"say &quot;hi&quot;", `say "hi"`},
		{"it&apos;s", "it's"},
		{"no entities here", "no entities here"},
		{"", ""},
	}
	for _, c := range cases {
		if got := decodeXmlEntities(c.in); got != c.want {
			t.Errorf("decodeXmlEntities(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDecodeXmlEntitiesNumeric(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"&#65;", "A"},
		{"&#x41;", "A"},
		{"&#X41;", "A"},
		{"&#9731;", "☃"},
	}
	for _, c := range cases {
		if got := decodeXmlEntities(c.in); got != c.want {
			t.Errorf("decodeXmlEntities(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDecodeXmlEntitiesLeavesUnknownAlone(t *testing.T) {
	cases := []string{
		"&nbsp;",
		"just an & with no terminator",
		"&;",
		"&#;",
		"&#xZZ;",
	}
	for _, in := range cases {
		if got := decodeXmlEntities(in); got != in {
			t.Errorf("decodeXmlEntities(%q) = %q, want it left unchanged", in, got)
		}
	}
}

func TestTryParsePrimitiveBooleans(t *testing.T) {
	cases := map[string]bool{"true": true, "True": true, "TRUE": true, "false": false, "False": false, "FALSE": false}
	for in, want := range cases {
		got := tryParsePrimitive(in)
		b, ok := got.(bool)
		if !ok || b != want {
			t.Errorf("tryParsePrimitive(%q) = %#v, want %v", in, got, want)
		}
	}
}

func TestTryParsePrimitiveNumbers(t *testing.T) {
	cases := map[string]float64{
		"0":    0,
		"42":   42,
		"-7":   -7,
		"3.14": 3.14,
		"-0.5": -0.5,
	}
	for in, want := range cases {
		got := tryParsePrimitive(in)
		f, ok := got.(float64)
		if !ok || f != want {
			t.Errorf("tryParsePrimitive(%q) = %#v, want %v", in, got, want)
		}
	}
}

func TestTryParsePrimitiveRejectsNonCanonicalForms(t *testing.T) {
	// These would not round-trip through strconv.FormatInt/FormatFloat, so
	// they must be left as plain strings rather than silently normalized.
	cases := []string{"007", "1.", "+5", "1.50", "0x10", ""}
	for _, in := range cases {
		got := tryParsePrimitive(in)
		if got != in {
			t.Errorf("tryParsePrimitive(%q) = %#v, want the string unchanged", in, got)
		}
	}
}

func TestTryParsePrimitiveLeavesOrdinaryTextAlone(t *testing.T) {
	cases := []string{"hello", "Text1", "  42", "42  ", "-"}
	for _, in := range cases {
		got := tryParsePrimitive(in)
		if got != in {
			t.Errorf("tryParsePrimitive(%q) = %#v, want the string unchanged", in, got)
		}
	}
}
