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

const cdataOpen = "<![CDATA["
const cdataClose = "]]>"

// performCDATAScan handles both a fresh "<![CDATA[" and a resumed one.
// startOffset is where "<![CDATA[" begins; alreadyEmitted is the raw
// content already written into the current node on a prior call (empty on
// first entry). Only the portion of the content beyond alreadyEmitted is
// ever inserted while the section is still open, so growing the same
// construct across chunks never duplicates text. Once the close marker is
// found, when ParsePrimitives is set the whole captured content is coerced
// to a primitive regardless of whether it spanned one chunk or several: any
// provisional string content already inserted is retracted first, then the
// coerced value takes its place, so chunking never changes the result's
// type.
func (ctx *parseContext) performCDATAScan(o ParserOptions, startOffset int, alreadyEmitted string) {
	buf := ctx.buffer
	contentStart := startOffset + len(cdataOpen)
	if contentStart > len(buf) {
		contentStart = len(buf)
	}

	idx := strings.Index(buf[contentStart:], cdataClose)
	if idx < 0 {
		full := buf[contentStart:]
		ctx.emitCDATADelta(o, full, alreadyEmitted)
		ctx.incomplete = &cdataIncomplete{startOffset: startOffset, partialData: full}
		ctx.cursor = startOffset
		return
	}

	full := buf[contentStart : contentStart+idx]
	if alreadyEmitted == "" {
		if o.ParsePrimitives {
			ctx.insertValue(o, tryParsePrimitive(full))
		} else {
			ctx.insertRawText(o, full)
		}
	} else if o.ParsePrimitives {
		parent := noNode
		if len(ctx.stack) > 0 {
			parent = ctx.stack[len(ctx.stack)-1].node
		}
		ctx.retractProvisional(o, parent, alreadyEmitted)
		ctx.insertValue(o, tryParsePrimitive(full))
	} else {
		ctx.emitCDATADelta(o, full, alreadyEmitted)
	}
	ctx.cursor = contentStart + idx + len(cdataClose)
	ctx.incomplete = nil
}

func (ctx *parseContext) emitCDATADelta(o ParserOptions, full, alreadyEmitted string) {
	if len(alreadyEmitted) > len(full) {
		alreadyEmitted = ""
	}
	delta := full[len(alreadyEmitted):]
	if delta == "" {
		return
	}
	ctx.insertRawText(o, delta)
}
