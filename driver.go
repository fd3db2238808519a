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
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Metadata carries the one piece of bookkeeping a caller needs alongside
// each snapshot: whether the document is still being assembled.
type Metadata struct {
	Partial bool
}

// Result is the snapshot returned from every Parser.ParseStream call: the
// root accumulator as it stands after this chunk, plus Metadata.Partial.
type Result struct {
	Metadata Metadata
	XML      []any
}

// Parser is the public entry point: a chunk-at-a-time driver wrapping one
// parseContext. All mutable state is guarded by a single RWMutex so a
// Parser can safely be shared across goroutines (a caller feeding chunks
// from one goroutine while another inspects SessionID, say).
type Parser struct {
	mu        sync.RWMutex
	settings  parserSettings
	ctx       *parseContext
	sessionID uuid.UUID
}

// NewParser builds a Parser from zero or more options layered onto
// DefaultOptions(). An invalid combination of options (Validate returning
// an error) falls back to DefaultOptions() entirely rather than starting
// from a half-applied, possibly-inconsistent configuration.
func NewParser(opts ...ParserOption) *Parser {
	settings := defaultParserSettings()
	for _, opt := range opts {
		opt(&settings)
	}
	if err := settings.options.Validate(); err != nil {
		settings.options = DefaultOptions()
	}

	return &Parser{
		settings:  settings,
		ctx:       newParseContext(settings.logger),
		sessionID: uuid.New(),
	}
}

// SessionID identifies this Parser's lifetime for log correlation; it is
// regenerated whenever Reset is called.
func (p *Parser) SessionID() uuid.UUID {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.sessionID
}

// Reset drops all accumulated state and arena-allocated nodes and starts a
// fresh session, per §6's entry-object contract.
func (p *Parser) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ctx = newParseContext(p.settings.logger)
	p.sessionID = uuid.New()
	p.settings.logger.V(1).Info("parser reset", "session", p.sessionID)
}

// ParseStream feeds one chunk through the parser and returns the resulting
// snapshot, per §4.5. chunk must be a string, a fmt.Stringer, or nil
// (signalling end of stream); anything else is ErrInvalidChunkType.
func (p *Parser) ParseStream(chunk any) (Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if chunk == nil {
		return p.handleEOF(), nil
	}

	var s string
	switch v := chunk.(type) {
	case string:
		s = v
	case fmt.Stringer:
		s = v.String()
	default:
		return Result{}, ErrInvalidChunkType
	}

	return p.appendChunk(s), nil
}

func (p *Parser) appendChunk(s string) Result {
	ctx := p.ctx
	o := p.settings.options

	if len(o.AllowedRootNodes) > 0 && !ctx.rootDecisionMade {
		forXML, decided := ctx.routeRootGate(o, s)
		if ctx.treatAsPlainText {
			return p.snapshotPlainText(true)
		}
		if !decided {
			return p.snapshot(true)
		}
		s = forXML
	} else if ctx.treatAsPlainText {
		ctx.plainTextBuilder.WriteString(s)
		return p.snapshotPlainText(true)
	}

	ctx.buffer += s
	if ctx.buffer != "" {
		ctx.everEmitted = true
	}

	ctx.resumeIncomplete(o, ctx.stopCache)
	for ctx.incomplete == nil && ctx.cursor < len(ctx.buffer) {
		ctx.step(o, ctx.stopCache)
	}
	ctx.compact()

	// §8 invariant 3, in reverse: partial is derived from what's actually
	// left open, not assumed true just because this wasn't the EOF call —
	// a chunk that completes the document resolves partial=false right
	// away, with no need to wait for an explicit EOF.
	return p.snapshot(len(ctx.stack) > 0 || ctx.incomplete != nil)
}

// handleEOF implements §4.5's end-of-stream rules. A suspended "special"
// state (Comment/Doctype/XmlDecl) whose partial is the only residue is
// discarded as if the construct had never started, and partial becomes
// false (assuming nothing else is still open). Everything else that was
// still incomplete — a tag fragment, a stop-node body, CDATA, a bare
// trailing '<' — keeps whatever it already emitted provisionally as final
// content, but the structure itself never resolved, so the session stays
// partial even though no more chunks are coming.
func (p *Parser) handleEOF() Result {
	ctx := p.ctx
	o := p.settings.options

	if len(o.AllowedRootNodes) > 0 && !ctx.rootDecisionMade {
		ctx.decideRootGate(true, ctx.rootGateBuf.String())
		ctx.rootGateBuf.Reset()
		return p.snapshotPlainText(false)
	}
	if ctx.treatAsPlainText {
		return p.snapshotPlainText(false)
	}

	if _, ok := ctx.incomplete.(*specialConstructIncomplete); ok {
		ctx.incomplete = nil
	}
	if ctx.incomplete != nil {
		ctx.reparse = nil
		return p.snapshot(true)
	}
	ctx.reparse = nil

	return p.snapshot(len(ctx.stack) > 0)
}

func (p *Parser) snapshot(partial bool) Result {
	ctx := p.ctx
	if !ctx.everEmitted && len(ctx.accumulator) == 0 {
		return Result{Metadata: Metadata{Partial: partial}, XML: nil}
	}
	xml := make([]any, len(ctx.accumulator))
	copy(xml, ctx.accumulator)
	return Result{Metadata: Metadata{Partial: partial}, XML: xml}
}

func (p *Parser) snapshotPlainText(partial bool) Result {
	return Result{
		Metadata: Metadata{Partial: partial},
		XML:      []any{p.ctx.plainTextBuilder.String()},
	}
}

// routeRootGate implements the root-gating pre-filter from §4.5: while no
// decision has been made, incoming bytes are diverted into rootGateBuf
// instead of the streaming buffer. It returns the bytes that should now be
// fed to the tokenizer (only once "XML parsing" is decided) and whether a
// decision was reached this call.
func (ctx *parseContext) routeRootGate(o ParserOptions, s string) (forXML string, decided bool) {
	ctx.rootGateBuf.WriteString(s)
	buffered := ctx.rootGateBuf.String()
	trimmed := strings.TrimLeft(buffered, " \t\r\n")

	if trimmed == "" {
		return "", false
	}

	if trimmed[0] != '<' {
		ctx.decideRootGate(true, buffered)
		return "", true
	}

	loc := openingTagRegex.FindStringSubmatchIndex(trimmed)
	if loc == nil {
		if looksLikePartialOpeningTag(trimmed) {
			return "", false
		}
		ctx.decideRootGate(true, buffered)
		return "", true
	}

	name := trimmed[loc[2]:loc[3]]
	if containsString(o.AllowedRootNodes, name) {
		ctx.decideRootGate(false, "")
		ctx.rootGateBuf.Reset()
		return buffered, true
	}

	ctx.decideRootGate(true, buffered)
	return "", true
}

func (ctx *parseContext) decideRootGate(plainText bool, buffered string) {
	ctx.rootDecisionMade = true
	ctx.treatAsPlainText = plainText
	if plainText {
		ctx.plainTextBuilder.WriteString(buffered)
		ctx.rootGateBuf.Reset()
	}
	ctx.logger.V(1).Info("root gate decided", "plainText", plainText)
}

func looksLikePartialOpeningTag(trimmed string) bool {
	if strings.ContainsRune(trimmed, '>') {
		return false
	}
	if len(trimmed) == 0 || trimmed[0] != '<' {
		return false
	}
	if len(trimmed) == 1 {
		return true
	}
	c := trimmed[1]
	return c != '!' && c != '/'
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
