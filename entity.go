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

import (
	"strconv"
	"strings"
)

// namedEntities are the five entities XML defines outright; anything else
// (HTML entities like &nbsp;, or a bare "&" with no recognizable
// reference) is left untouched per §4.2.
var namedEntities = map[string]string{
	"&lt;":   "<",
	"&gt;":   ">",
	"&amp;":  "&",
	"&quot;": `"`,
	"&apos;": "'",
}

// decodeXmlEntities replaces &lt; &gt; &amp; &quot; &apos; and numeric
// references (&#N; and &#xH;) with their characters, leaving any other
// ampersand sequence untouched.
func decodeXmlEntities(s string) string {
	if !strings.ContainsRune(s, '&') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != '&' {
			b.WriteByte(s[i])
			continue
		}

		semi := strings.IndexByte(s[i:], ';')
		if semi < 0 {
			b.WriteByte(s[i])
			continue
		}
		semi += i

		entity := s[i : semi+1]
		if repl, ok := namedEntities[entity]; ok {
			b.WriteString(repl)
			i = semi
			continue
		}

		if r, ok := decodeNumericEntity(entity); ok {
			b.WriteRune(r)
			i = semi
			continue
		}

		// Not a recognized reference: pass the "&" through untouched and
		// let the scan continue from the very next byte.
		b.WriteByte('&')
	}

	return b.String()
}

// decodeNumericEntity parses &#N; (decimal) and &#xH; / &#XH; (hex) forms.
// entity must include the leading "&#" and trailing ";".
func decodeNumericEntity(entity string) (rune, bool) {
	if !strings.HasPrefix(entity, "&#") || !strings.HasSuffix(entity, ";") {
		return 0, false
	}
	body := entity[2 : len(entity)-1]
	if body == "" {
		return 0, false
	}

	base := 10
	if body[0] == 'x' || body[0] == 'X' {
		base = 16
		body = body[1:]
	}
	if body == "" {
		return 0, false
	}

	v, err := strconv.ParseInt(body, base, 32)
	if err != nil || v < 0 {
		return 0, false
	}
	return rune(v), true
}

// tryParsePrimitive returns true/false for the case-insensitive boolean
// literals, a float64 for a string that is the canonical decimal
// representation of the number it parses to, and s unchanged otherwise.
// "007" and "1." are deliberately left as strings: they would not
// round-trip back to themselves via strconv.FormatFloat/Itoa.
func tryParsePrimitive(s string) any {
	switch s {
	case "true", "True", "TRUE":
		return true
	case "false", "False", "FALSE":
		return false
	}

	if s == "" {
		return s
	}
	c := s[0]
	if c != '-' && (c < '0' || c > '9') {
		return s
	}

	if n, ok := parseCanonicalInt(s); ok {
		return n
	}
	if f, ok := parseCanonicalFloat(s); ok {
		return f
	}
	return s
}

// parseCanonicalInt accepts only strings that are exactly
// strconv.FormatInt(v, 10), so leading zeros, a trailing dot, or a "+"
// sign are rejected and left to the caller as plain strings.
func parseCanonicalInt(s string) (float64, bool) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	if strconv.FormatInt(v, 10) != s {
		return 0, false
	}
	return float64(v), true
}

// parseCanonicalFloat accepts only strings that round-trip exactly through
// strconv.FormatFloat with the shortest representation that parses back to
// the same value, rejecting forms like "1." or "1.50".
func parseCanonicalFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if strconv.FormatFloat(f, 'g', -1, 64) != s {
		return 0, false
	}
	return f, true
}
