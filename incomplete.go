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

// incompleteState is the tagged variant from §3 ("Incomplete-structure
// state"): null (nil) when the buffer ended on a clean boundary, otherwise
// one of the concrete types below. Per §9's design note this is modeled as
// an algebraic type — one Go type per construct kind, each naming only the
// fields it needs — rather than one struct with a pile of optional fields.
type incompleteState interface {
	isIncompleteState()
}

// tagStartIncomplete is set when the buffer ends at the single byte '<'.
// startOffset lets the resumer tell whether any new byte has actually
// arrived after it.
type tagStartIncomplete struct {
	startOffset int
}

func (*tagStartIncomplete) isIncompleteState() {}

// tagFragmentIncomplete covers OpeningTagIncomplete and
// ClosingTagIncomplete: an opening or closing tag whose '>' has not
// arrived yet. closing distinguishes the two. parent is the node into
// which provisionalText was speculatively written (noNode if the
// fragment surfaced before any element was open, i.e. at the
// accumulator), and hasProvisional records whether any text was actually
// inserted (beginTagFragment, which creates this state, always inserts the
// fragment; a chunk ending in a lone "<" sets tagStartIncomplete instead).
type tagFragmentIncomplete struct {
	closing         bool
	startOffset     int
	partialText     string
	parent          nodeRef
	provisionalText string
	hasProvisional  bool
}

func (*tagFragmentIncomplete) isIncompleteState() {}

// specialConstructKind distinguishes the three "skip to a closing marker"
// constructs that otherwise share identical resume logic.
type specialConstructKind int

const (
	specialComment specialConstructKind = iota
	specialDoctype
	specialXMLDecl
)

// specialConstructIncomplete covers Comment, Doctype, and XmlDecl: a
// construct awaiting its closing marker ("-->", ">", "?>"). Carries the
// marker to search for and the offset the construct started at.
type specialConstructIncomplete struct {
	kind        specialConstructKind
	marker      string
	startOffset int
}

func (*specialConstructIncomplete) isIncompleteState() {}

// cdataIncomplete covers Cdata: CDATA awaiting "]]>". partialData is the
// content already delivered across prior chunks, kept separately so the
// eventual completion can concatenate it with the final segment without
// duplicating the bytes already emitted provisionally as text.
type cdataIncomplete struct {
	startOffset int
	partialData string
}

func (*cdataIncomplete) isIncompleteState() {}

// stopNodeContentIncomplete covers StopNodeContent: inside a stop-node
// awaiting its matching close. depth tracks nesting among same-named opens
// seen so far within the raw body; target is the stop-node's own node,
// into which each chunk's newly arrived part of the body is written
// directly; partialText is the raw body written so far.
type stopNodeContentIncomplete struct {
	tagName      string
	depth        int
	contentStart int
	target       nodeRef
	partialText  string
}

func (*stopNodeContentIncomplete) isIncompleteState() {}

// reparseSegment is the hint described in §3 ("Reparse-segment hint"): set
// when the previous chunk's tail was a partial tag fragment that was
// provisionally emitted as text under some parent node. If the current
// chunk reveals the fragment was actually a tag, tag handlers use this to
// retract the provisional text before building the real element.
type reparseSegment struct {
	parent   nodeRef
	fragment string
}
