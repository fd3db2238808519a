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
	"strings"

	"github.com/go-logr/logr"
)

// stackFrame is one entry of the open-element stack from §3's tree model.
// path is the dotted ancestor path used for stop-node path matching;
// textOnly starts true and flips to false the moment any child element
// (as opposed to plain text) is attached, which is exactly the condition
// the text-collapse optimization in closeTag checks.
type stackFrame struct {
	tagName  string
	node     nodeRef
	path     string
	textOnly bool
}

// parseContext is the mutable state a Parser advances one chunk at a time:
// the residual buffer and cursor, the node arena, the open-element stack
// and root accumulator, and whatever incomplete-structure/reparse-segment
// state the previous chunk left behind. It holds everything the tokenizer
// and resumer touch; Parser itself only adds the public surface (mutex,
// session id, settings) around one of these.
type parseContext struct {
	buffer string
	cursor int

	arena       *arena
	accumulator []any
	stack       []stackFrame
	current     nodeRef

	incomplete incompleteState
	reparse    *reparseSegment
	stopCache  *stopNodeScannerCache

	rootGateBuf      strings.Builder
	plainTextBuilder strings.Builder
	rootDecisionMade bool
	treatAsPlainText bool

	everEmitted bool

	logger logr.Logger
}

func newParseContext(logger logr.Logger) *parseContext {
	return &parseContext{
		arena:     newArena(),
		current:   noNode,
		stopCache: newStopNodeScannerCache(),
		logger:    logger,
	}
}

// currentPath returns the dotted path name would have if opened right now.
func (ctx *parseContext) currentPath(name string) string {
	if len(ctx.stack) == 0 {
		return name
	}
	return ctx.stack[len(ctx.stack)-1].path + "." + name
}

// topFrame returns a pointer into the live stack slice so callers can flip
// textOnly in place, or nil when the stack is empty.
func (ctx *parseContext) topFrame() *stackFrame {
	if len(ctx.stack) == 0 {
		return nil
	}
	return &ctx.stack[len(ctx.stack)-1]
}

// insertTextRun implements the plain-text half of §4.3's text-run rule:
// decode entities, suppress a whitespace-only root run when IgnoreWhitespace
// is set, optionally coerce the rest to a primitive, and insert.
func (ctx *parseContext) insertTextRun(o ParserOptions, raw string) {
	decoded := decodeXmlEntities(raw)
	if decoded == "" {
		return
	}
	whitespaceOnly := strings.TrimSpace(decoded) == ""
	if whitespaceOnly && len(ctx.stack) == 0 && o.IgnoreWhitespace {
		return
	}

	var value any = decoded
	if o.ParsePrimitives && !whitespaceOnly {
		value = tryParsePrimitive(decoded)
	}
	ctx.insertValue(o, value)
}

// insertRawText inserts s as text without entity decoding, used for CDATA
// content, stop-node raw capture, and literal fallback/maxDepth text.
func (ctx *parseContext) insertRawText(o ParserOptions, s string) {
	if s == "" {
		return
	}
	ctx.insertValue(o, s)
}

// insertValue writes value under the current pointer's text key, or
// appends it to the root accumulator when the stack is empty.
func (ctx *parseContext) insertValue(o ParserOptions, value any) {
	if len(ctx.stack) == 0 {
		ctx.appendAccumulator(value)
		return
	}
	node := ctx.arena.get(ctx.stack[len(ctx.stack)-1].node)
	addValueToObject(node, o.TextNodeName, value, o.TextNodeName)
}

// appendAccumulator appends value as a new top-level item, concatenating
// onto the previous item when both are strings (the accumulator-level
// analogue of addValueToObject's text-concatenation rule).
func (ctx *parseContext) appendAccumulator(value any) {
	n := len(ctx.accumulator)
	if n > 0 {
		if prev, ok := ctx.accumulator[n-1].(string); ok {
			if next, ok2 := value.(string); ok2 {
				ctx.accumulator[n-1] = prev + next
				return
			}
		}
	}
	ctx.accumulator = append(ctx.accumulator, value)
}

// retractProvisional undoes a previously inserted provisional fragment,
// per §3's reparse-segment hint contract. It is idempotent: a fragment no
// longer present as an exact suffix is simply not found, and the call is a
// no-op.
func (ctx *parseContext) retractProvisional(o ParserOptions, parent nodeRef, fragment string) {
	if fragment == "" {
		return
	}
	if parent == noNode {
		ctx.retractFromAccumulator(fragment)
		return
	}
	node := ctx.arena.get(parent)
	if node == nil {
		return
	}
	existing, ok := node.Get(o.TextNodeName)
	if !ok {
		return
	}
	switch v := existing.(type) {
	case string:
		if strings.HasSuffix(v, fragment) {
			if rest := v[:len(v)-len(fragment)]; rest == "" {
				node.Delete(o.TextNodeName)
			} else {
				node.Set(o.TextNodeName, rest)
			}
		}
	case NodeList:
		for i := len(v) - 1; i >= 0; i-- {
			if s, ok2 := v[i].(string); ok2 && s == fragment {
				v = append(v[:i], v[i+1:]...)
				break
			}
		}
		switch len(v) {
		case 0:
			node.Delete(o.TextNodeName)
		case 1:
			node.Set(o.TextNodeName, v[0])
		default:
			node.Set(o.TextNodeName, v)
		}
	}
}

func (ctx *parseContext) retractFromAccumulator(fragment string) {
	n := len(ctx.accumulator)
	if n == 0 {
		return
	}
	last, ok := ctx.accumulator[n-1].(string)
	if !ok || !strings.HasSuffix(last, fragment) {
		return
	}
	remainder := last[:len(last)-len(fragment)]
	if remainder == "" {
		ctx.accumulator = ctx.accumulator[:n-1]
		return
	}
	ctx.accumulator[n-1] = remainder
}

// compact implements the residual-buffer invariant from §9: after a chunk
// is processed, the buffer is sliced off everything before the cursor, and
// any offset recorded inside the live incomplete state is rebased by the
// same amount. This relies on every incomplete-setting branch parking the
// cursor at the construct's own start (the lone '<', the opening marker of
// a CDATA/special/stop-node-content run), never past it, so the bytes a
// resume needs are never the ones sliced away.
func (ctx *parseContext) compact() {
	shift := ctx.cursor
	if shift == 0 {
		return
	}
	ctx.buffer = ctx.buffer[shift:]
	ctx.cursor = 0

	switch st := ctx.incomplete.(type) {
	case *tagStartIncomplete:
		st.startOffset -= shift
	case *tagFragmentIncomplete:
		st.startOffset -= shift
	case *specialConstructIncomplete:
		st.startOffset -= shift
	case *cdataIncomplete:
		st.startOffset -= shift
	case *stopNodeContentIncomplete:
		st.contentStart -= shift
	}
}
