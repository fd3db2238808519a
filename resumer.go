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

// resumeIncomplete implements §4.4: given the incomplete-structure state
// left by the previous chunk and the now-larger buffer, either resolve the
// construct immediately or determine that more data is still needed.
//
// Comment/Doctype/XmlDecl and the bare tag-start case just reposition the
// cursor and clear the marker, letting the ordinary dispatch in tokenizer.go
// re-examine the (now more complete) construct from scratch. CDATA and
// stop-node content resume in place, since they carry extra bookkeeping
// (already-emitted text, nesting depth) dispatch doesn't know about.
func (ctx *parseContext) resumeIncomplete(o ParserOptions, cache *stopNodeScannerCache) {
	switch st := ctx.incomplete.(type) {
	case *tagStartIncomplete:
		ctx.cursor = st.startOffset
		if len(ctx.buffer) > st.startOffset+1 {
			ctx.incomplete = nil
		}

	case *specialConstructIncomplete:
		ctx.cursor = st.startOffset
		ctx.incomplete = nil

	case *tagFragmentIncomplete:
		ctx.cursor = st.startOffset
		if st.hasProvisional {
			ctx.reparse = &reparseSegment{parent: st.parent, fragment: st.provisionalText}
		}
		ctx.incomplete = nil

	case *cdataIncomplete:
		ctx.performCDATAScan(o, st.startOffset, st.partialData)

	case *stopNodeContentIncomplete:
		ctx.driveStopNodeScan(o, cache, st.tagName, st.target, st.contentStart, st.depth, st.partialText)
	}
}
