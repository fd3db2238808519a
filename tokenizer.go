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

// step advances the parse by exactly one token recognition. The driving
// loop only calls this once any construct left incomplete by a prior chunk
// has already been resolved by resumeIncomplete, so step always starts
// from a clean dispatch; every branch either advances the cursor past a
// complete token or sets incomplete state and parks the cursor at that
// construct's own start, which is what lets the loop terminate.
func (ctx *parseContext) step(o ParserOptions, cache *stopNodeScannerCache) {
	ctx.dispatch(o, cache)
}

func (ctx *parseContext) dispatch(o ParserOptions, cache *stopNodeScannerCache) {
	buf := ctx.buffer
	i := ctx.cursor

	if buf[i] != '<' {
		ctx.scanText(o)
		return
	}
	if i+1 >= len(buf) {
		ctx.incomplete = &tagStartIncomplete{startOffset: i}
		ctx.cursor = i
		return
	}

	rest := buf[i:]
	switch {
	case hasPrefixFold(rest, "<?xml"):
		ctx.performSpecialScan(specialXMLDecl, i, "?>")
	case strings.HasPrefix(rest, "<!--"):
		ctx.performSpecialScan(specialComment, i, "-->")
	case strings.HasPrefix(rest, cdataOpen):
		ctx.performCDATAScan(o, i, "")
	case hasPrefixFold(rest, "<!DOCTYPE"):
		ctx.performSpecialScan(specialDoctype, i, ">")
	case rest[1] == '/':
		ctx.handleClosing(o, cache, i, rest)
	default:
		ctx.handleOpening(o, cache, i, rest)
	}
}

// scanText consumes a plain-text run up to the next '<' or the buffer end.
// A run that reaches the buffer end is always complete as far as this
// chunk is concerned (more text arriving later just concatenates), so
// nothing here ever sets incomplete state.
func (ctx *parseContext) scanText(o ParserOptions) {
	buf := ctx.buffer
	start := ctx.cursor
	end := len(buf)
	if idx := strings.IndexByte(buf[start:], '<'); idx >= 0 {
		end = start + idx
	}
	ctx.cursor = end
	ctx.insertTextRun(o, buf[start:end])
}

func (ctx *parseContext) handleClosing(o ParserOptions, cache *stopNodeScannerCache, i int, rest string) {
	if loc := closingTagRegex.FindStringSubmatchIndex(rest); loc != nil {
		ctx.closeTag(o, rest[loc[2]:loc[3]], i+loc[1])
		return
	}
	ctx.scanFallback(o, i)
}

func (ctx *parseContext) handleOpening(o ParserOptions, cache *stopNodeScannerCache, i int, rest string) {
	if loc := openingTagRegex.FindStringSubmatchIndex(rest); loc != nil {
		name := rest[loc[2]:loc[3]]
		attrsStr := rest[loc[4]:loc[5]]
		selfClosing := rest[loc[6]:loc[7]] == "/"
		ctx.openTag(o, cache, name, attrsStr, selfClosing, i, i+loc[1])
		return
	}
	ctx.scanFallback(o, i)
}

// scanFallback implements §4.3's "fallback text on malformed <...>": grab
// the bytes from '<' up to the next '<' or the buffer end. If that run
// reaches the buffer end and still looks like an unterminated tag (no '>'
// seen yet), it is tag-fragment incomplete state rather than text.
// Otherwise — including a "<1abc>"-style string that has a '>' but never
// matched either tag regex — it is ordinary, fully-decoded text.
func (ctx *parseContext) scanFallback(o ParserOptions, i int) {
	buf := ctx.buffer
	end := len(buf)
	if idx := strings.IndexByte(buf[i+1:], '<'); idx >= 0 {
		end = i + 1 + idx
	}
	fragment := buf[i:end]

	if end == len(buf) && looksUnterminated(fragment) {
		closing := len(fragment) >= 2 && fragment[1] == '/'
		ctx.beginTagFragment(o, closing, i, fragment)
		ctx.cursor = i
		return
	}

	ctx.cursor = end
	ctx.insertTextRun(o, fragment)
}

func looksUnterminated(fragment string) bool {
	return !strings.Contains(fragment, ">")
}

// beginTagFragment records a provisional OpeningTagIncomplete or
// ClosingTagIncomplete and speculatively inserts fragment as text so a
// live view of the document is available even mid-tag. If a reparse hint
// for this same parent is already pending (this chunk's fallback run is a
// continuation of a prior one), the older, shorter provisional text is
// retracted first so the two never stack.
func (ctx *parseContext) beginTagFragment(o ParserOptions, closing bool, startOffset int, fragment string) {
	parent := ctx.current
	if ctx.reparse != nil && ctx.reparse.parent == parent {
		ctx.retractProvisional(o, parent, ctx.reparse.fragment)
		ctx.reparse = nil
	}
	ctx.insertValue(o, fragment)
	ctx.incomplete = &tagFragmentIncomplete{
		closing:         closing,
		startOffset:     startOffset,
		partialText:     fragment,
		parent:          parent,
		provisionalText: fragment,
		hasProvisional:  true,
	}
}

// openTag implements §4.3's opening-tag handler: retract any pending
// reparse hint, enforce maxDepth, parse attributes, attach the new node to
// its parent, and either start raw-capture for a stop-node or push a fresh
// stack frame.
func (ctx *parseContext) openTag(o ParserOptions, cache *stopNodeScannerCache, name, attrsStr string, selfClosing bool, startOffset, tagEnd int) {
	if ctx.reparse != nil {
		if ctx.reparse.parent == ctx.current {
			ctx.retractProvisional(o, ctx.reparse.parent, ctx.reparse.fragment)
		}
		ctx.reparse = nil
	}

	path := ctx.currentPath(name)

	if o.MaxDepth != nil && len(ctx.stack) >= *o.MaxDepth {
		raw := ctx.buffer[startOffset:tagEnd]
		ctx.cursor = tagEnd
		ctx.incomplete = nil
		ctx.insertRawText(o, raw)
		return
	}

	ref := ctx.arena.alloc()
	node := ctx.arena.get(ref)
	parseAttributes(attrsStr, o.AttributeNamePrefix, o.ParsePrimitives, node)

	ctx.attachChild(o, name, ref)

	ctx.cursor = tagEnd
	ctx.incomplete = nil

	if selfClosing {
		return
	}

	if isStopNode(o.StopNodes, name, path) {
		ctx.scanStopNodeBody(o, cache, name, ref, tagEnd)
		return
	}

	ctx.stack = append(ctx.stack, stackFrame{tagName: name, node: ref, path: path, textOnly: true})
	ctx.current = ref
}

// attachChild wires a freshly created child node into its parent (or the
// root accumulator), marking the parent non-textOnly. Shared by ordinary
// elements and stop-nodes, since both attach exactly the same way; only
// what happens to their body differs.
func (ctx *parseContext) attachChild(o ParserOptions, name string, ref nodeRef) {
	child := ctx.arena.get(ref)
	top := ctx.topFrame()
	if top == nil {
		wrapper := newNode()
		wrapper.Set(name, child)
		ctx.accumulator = append(ctx.accumulator, wrapper)
		return
	}
	parentNode := ctx.arena.get(top.node)
	addValueToObject(parentNode, name, child, o.TextNodeName)
	top.textOnly = false
}

// closeTag implements §4.3's closing-tag handler, including the
// interleaved-tag recovery path: search the stack top-down for tagName;
// if absent, the closer is literal text; if found at index k, every frame
// strictly above k is "interrupted" and gets unwound back into text before
// popping down to and including k, after which the text-collapse
// optimization is applied.
func (ctx *parseContext) closeTag(o ParserOptions, tagName string, tagEnd int) {
	if ctx.reparse != nil {
		if ctx.reparse.parent == ctx.current {
			ctx.retractProvisional(o, ctx.reparse.parent, ctx.reparse.fragment)
		}
		ctx.reparse = nil
	}

	k := -1
	for idx := len(ctx.stack) - 1; idx >= 0; idx-- {
		if ctx.stack[idx].tagName == tagName {
			k = idx
			break
		}
	}

	if k < 0 {
		raw := ctx.buffer[ctx.cursor:tagEnd]
		ctx.cursor = tagEnd
		ctx.incomplete = nil
		ctx.insertRawText(o, raw)
		if top := ctx.topFrame(); top != nil {
			top.textOnly = false
		}
		return
	}

	seen := make(map[string]bool, len(ctx.stack)-k)
	for idx := len(ctx.stack) - 1; idx > k; idx-- {
		name := ctx.stack[idx].tagName
		if seen[name] {
			continue
		}
		seen[name] = true
		ctx.recoverInterruptedFrame(o, idx)
	}

	closingFrame := ctx.stack[k]
	ctx.stack = ctx.stack[:k]

	ctx.applyTextCollapse(o, closingFrame)

	if top := ctx.topFrame(); top != nil {
		ctx.current = top.node
	} else {
		ctx.current = noNode
	}

	ctx.cursor = tagEnd
	ctx.incomplete = nil
}

// recoverInterruptedFrame unwinds the still-open frame at idx: remove its
// node from its parent (it is always the exact node just placed there at
// open time, so this is a plain reference removal, falling back to an
// empty/orphan-shell match for safety) and re-inject its opening tag text
// as literal content of that parent.
func (ctx *parseContext) recoverInterruptedFrame(o ParserOptions, idx int) {
	frame := ctx.stack[idx]
	node := ctx.arena.get(frame.node)
	literal := "<" + frame.tagName + ">"

	if idx == 0 {
		ctx.removeChildFromAccumulator(frame.tagName, node)
		ctx.appendAccumulator(literal)
		return
	}

	parentNode := ctx.arena.get(ctx.stack[idx-1].node)
	removeChildFromParent(parentNode, frame.tagName, node)
	addValueToObject(parentNode, o.TextNodeName, literal, o.TextNodeName)
	ctx.stack[idx-1].textOnly = false
}

// applyTextCollapse implements the closing-tag optimization from §4.3:
// when AlwaysCreateTextNode is false and the closed frame never held
// anything but text, replace the element node with its bare text value in
// the parent (or the accumulator).
func (ctx *parseContext) applyTextCollapse(o ParserOptions, frame stackFrame) {
	if o.AlwaysCreateTextNode || !frame.textOnly {
		return
	}
	node := ctx.arena.get(frame.node)
	if !node.soleKeyIs(o.TextNodeName) {
		return
	}
	textValue, _ := node.Get(o.TextNodeName)

	if top := ctx.topFrame(); top != nil {
		parentNode := ctx.arena.get(top.node)
		replaceChildInParent(parentNode, frame.tagName, node, textValue)
		return
	}
	ctx.replaceInAccumulator(frame.tagName, node, textValue)
}

func (ctx *parseContext) removeChildFromAccumulator(tagName string, child *Node) {
	for i := len(ctx.accumulator) - 1; i >= 0; i-- {
		wrapper, ok := ctx.accumulator[i].(*Node)
		if !ok || !wrapper.soleKeyIs(tagName) {
			continue
		}
		v, _ := wrapper.Get(tagName)
		if matchesChild(v, tagName, child) {
			ctx.accumulator = append(ctx.accumulator[:i], ctx.accumulator[i+1:]...)
			return
		}
	}
}

func (ctx *parseContext) replaceInAccumulator(tagName string, child *Node, replacement any) {
	for i, item := range ctx.accumulator {
		wrapper, ok := item.(*Node)
		if !ok || !wrapper.soleKeyIs(tagName) {
			continue
		}
		if v, _ := wrapper.Get(tagName); v == child {
			ctx.accumulator[i] = replacement
			return
		}
	}
}

func removeChildFromParent(parentNode *Node, tagName string, child *Node) {
	if parentNode == nil {
		return
	}
	existing, ok := parentNode.Get(tagName)
	if !ok {
		return
	}
	switch v := existing.(type) {
	case *Node:
		if matchesChild(v, tagName, child) {
			parentNode.Delete(tagName)
		}
	case NodeList:
		for i := len(v) - 1; i >= 0; i-- {
			nd, ok := v[i].(*Node)
			if ok && matchesChild(nd, tagName, child) {
				v = append(v[:i], v[i+1:]...)
				break
			}
		}
		switch len(v) {
		case 0:
			parentNode.Delete(tagName)
		case 1:
			parentNode.Set(tagName, v[0])
		default:
			parentNode.Set(tagName, v)
		}
	}
}

func replaceChildInParent(parentNode *Node, tagName string, child *Node, replacement any) {
	if parentNode == nil {
		return
	}
	existing, ok := parentNode.Get(tagName)
	if !ok {
		return
	}
	switch v := existing.(type) {
	case *Node:
		if v == child {
			parentNode.Set(tagName, replacement)
		}
	case NodeList:
		for i := len(v) - 1; i >= 0; i-- {
			if nd, ok := v[i].(*Node); ok && nd == child {
				v[i] = replacement
				parentNode.Set(tagName, v)
				return
			}
		}
	}
}

// matchesChild reports whether candidate is the same node reference as
// child, or — as a defensive fallback for the case it no longer is —
// an empty/orphan shell for tagName that is safe to treat as equivalent.
func matchesChild(candidate any, tagName string, child *Node) bool {
	nd, ok := candidate.(*Node)
	if !ok {
		return false
	}
	if nd == child {
		return true
	}
	return isRemovableOrphan(nd, tagName)
}

func isRemovableOrphan(n *Node, tagName string) bool {
	if n.Len() == 0 {
		return true
	}
	if !n.soleKeyIs(tagName) {
		return false
	}
	inner, _ := n.Get(tagName)
	innerNode, ok := inner.(*Node)
	return ok && innerNode.Len() == 0
}
