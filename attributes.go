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

import "github.com/dlclark/regexp2"

// attrScanner recognizes one name(=('value'|"value"|unquoted))? token per
// match. The quoted alternative uses a backreference (\k<q>) so a single
// pattern matches both '...' and "..." without requiring the value's
// content to avoid the other quote character — something RE2-backed
// regexp cannot express, which is why this scanner is built on
// github.com/dlclark/regexp2 rather than the standard library.
var attrScanner = regexp2.MustCompile(
	`(?<name>[^\s=/"'<>]+)(?:\s*=\s*(?:(?<q>['"])(?<val>.*?)\k<q>|(?<uval>[^\s"'=<>]+)))?`,
	regexp2.None,
)

// parseAttributes scans attrsString for name/value tokens per §4.2,
// prefixing every name with prefix, entity-decoding every value, and
// recording a literal boolean true for a bare name with no "=". When
// parsePrimitives is set, values are additionally passed through
// tryParsePrimitive. Matches are written directly into into, in the order
// encountered, so a node's attribute keys preserve source order the same
// way its child keys do.
func parseAttributes(attrsString, prefix string, parsePrimitives bool, into *Node) {
	if attrsString == "" {
		return
	}

	m, err := attrScanner.FindStringMatch(attrsString)
	for err == nil && m != nil {
		nameGroup := m.GroupByName("name")
		if nameGroup == nil || len(nameGroup.Captures) == 0 {
			m, err = attrScanner.FindNextMatch(m)
			continue
		}
		name := nameGroup.String()
		if name == "" {
			m, err = attrScanner.FindNextMatch(m)
			continue
		}

		var value any = true
		if vg := m.GroupByName("val"); vg != nil && len(vg.Captures) > 0 {
			value = decodeAttrValue(vg.String(), parsePrimitives)
		} else if vg := m.GroupByName("uval"); vg != nil && len(vg.Captures) > 0 {
			value = decodeAttrValue(vg.String(), parsePrimitives)
		}

		into.Set(prefix+name, value)
		m, err = attrScanner.FindNextMatch(m)
	}
}

func decodeAttrValue(raw string, parsePrimitives bool) any {
	decoded := decodeXmlEntities(raw)
	if parsePrimitives {
		return tryParsePrimitive(decoded)
	}
	return decoded
}
