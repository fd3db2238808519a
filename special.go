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

import "strings"

// performSpecialScan handles Comment, Doctype, and XmlDecl: skip from
// startOffset to the first occurrence of marker. Since the residual buffer
// always retains every byte back to startOffset while this is incomplete,
// resuming is just re-running this same scan against the grown buffer.
func (ctx *parseContext) performSpecialScan(kind specialConstructKind, startOffset int, marker string) {
	buf := ctx.buffer
	idx := strings.Index(buf[startOffset:], marker)
	if idx < 0 {
		ctx.incomplete = &specialConstructIncomplete{kind: kind, marker: marker, startOffset: startOffset}
		ctx.cursor = startOffset
		return
	}
	ctx.cursor = startOffset + idx + len(marker)
	ctx.incomplete = nil
}

// hasPrefixFold reports whether s starts with prefix, matching the ASCII
// letters of prefix case-insensitively (used for "<?xml" and "<!DOCTYPE",
// both of which real-world generators sometimes emit in the wrong case).
func hasPrefixFold(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	return strings.EqualFold(s[:len(prefix)], prefix)
}
