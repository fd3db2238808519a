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
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
)

// stopNodeKind classifies a configured stopNodes entry, used only to
// decide the priority order when more than one entry could match the same
// tag (§9 Open Question, resolved here as
// exact path > suffix path > wildcard path > simple name).
type stopNodeKind int

const (
	stopNodeSimple stopNodeKind = iota
	stopNodeWildcardPath
	stopNodeSuffixPath
	stopNodeExactPath
)

// isStopNode reports whether tagName at dotted path path is configured as
// a stop-node, applying the priority order from §9. Self-closing tags are
// never stop-nodes; callers check that separately before calling this.
func isStopNode(stopNodes []string, tagName, path string) bool {
	best := -1
	for _, pattern := range stopNodes {
		kind, ok := matchStopNodePattern(pattern, tagName, path)
		if !ok {
			continue
		}
		if int(kind) > best {
			best = int(kind)
		}
	}
	return best >= 0
}

func matchStopNodePattern(pattern, tagName, path string) (stopNodeKind, bool) {
	if !strings.Contains(pattern, ".") && !strings.Contains(pattern, "*") {
		if pattern == tagName {
			return stopNodeSimple, true
		}
		return 0, false
	}

	if pattern == path {
		return stopNodeExactPath, true
	}
	if strings.HasSuffix(path, "."+pattern) {
		return stopNodeSuffixPath, true
	}
	if wildcardMatchesPath(pattern, path) {
		return stopNodeWildcardPath, true
	}
	return 0, false
}

// wildcardMatchesPath matches pattern against path (and against path's
// trailing suffix) segment-by-segment, where "*" in pattern matches
// exactly one path segment.
func wildcardMatchesPath(pattern, path string) bool {
	if !strings.Contains(pattern, "*") {
		return false
	}
	patternSegs := strings.Split(pattern, ".")
	pathSegs := strings.Split(path, ".")

	if segmentsMatch(patternSegs, pathSegs) {
		return true
	}
	if len(pathSegs) > len(patternSegs) {
		suffix := pathSegs[len(pathSegs)-len(patternSegs):]
		if segmentsMatch(patternSegs, suffix) {
			return true
		}
	}
	return false
}

func segmentsMatch(pattern, segs []string) bool {
	if len(pattern) != len(segs) {
		return false
	}
	for i, p := range pattern {
		if p == "*" {
			continue
		}
		if p != segs[i] {
			return false
		}
	}
	return true
}

// openingTagRegex and closingTagRegex are the stdlib regexes used at the
// opening/closing-tag recognition layer, where RE2 semantics (no
// backreferences, no lookaround) are plenty since the grammar is a simple
// name token.
var (
	openingTagRegex = regexp.MustCompile(`^<([A-Za-z_][-A-Za-z0-9_:.]*)((?:\s[^<>]*?)?)(/?)>`)
	closingTagRegex = regexp.MustCompile(`^</([A-Za-z_][-A-Za-z0-9_:.]*)\s*>`)
)

// stopNodeScannerCache caches, per tag name, the compiled regexp2 pattern
// used to scan a stop-node's body for same-named nested opens/closes so
// depth can be tracked across chunk boundaries. Compilation is the
// expensive part (per §9's "Regex caching" design note); the cache is
// owned by one parser context and discarded with it.
type stopNodeScannerCache struct {
	byTagName map[string]*regexp2.Regexp
}

func newStopNodeScannerCache() *stopNodeScannerCache {
	return &stopNodeScannerCache{byTagName: make(map[string]*regexp2.Regexp)}
}

// get returns the cached scanner for tagName, compiling and caching it on
// first use. The pattern finds either an opening "<name" (followed by
// whitespace, "/" or ">") or a closing "</name>", so the caller can track
// nesting depth by which alternative matched.
func (c *stopNodeScannerCache) get(tagName string) *regexp2.Regexp {
	if re, ok := c.byTagName[tagName]; ok {
		return re
	}
	escaped := regexp2.Escape(tagName)
	pattern := `<` + escaped + `(?=[\s/>])|</` + escaped + `\s*>`
	re := regexp2.MustCompile(pattern, regexp2.None)
	c.byTagName[tagName] = re
	return re
}

// scanStopNodeBody begins the raw-capture scan for a freshly opened
// stop-node rooted at target, whose content starts at contentStart.
func (ctx *parseContext) scanStopNodeBody(o ParserOptions, cache *stopNodeScannerCache, tagName string, target nodeRef, contentStart int) {
	ctx.logger.V(2).Info("entering stop-node body", "tag", tagName)
	ctx.driveStopNodeScan(o, cache, tagName, target, contentStart, 0, "")
}

// driveStopNodeScan implements §4.3's stop-node raw-capture and §4.4's
// StopNodeContent resume in one place: it tracks nesting depth among
// same-named opens/closes from scanPos onward, and either finds the
// matching close at depth 0 or runs out of buffer. alreadyEmitted is the
// raw text already written into target on a prior call, used both to avoid
// emitting it twice and (via its length) to work out where the previous
// scan left off, so a resumed scan never re-walks bytes it already
// accounted for in depth. A same-named open or close that was cut off at
// the end of alreadyEmitted was never matched (nor counted), so the scan
// resumes from its '<' instead.
func (ctx *parseContext) driveStopNodeScan(o ParserOptions, cache *stopNodeScannerCache, tagName string, target nodeRef, contentStart, startDepth int, alreadyEmitted string) {
	re := cache.get(tagName)
	buf := ctx.buffer
	depth := startDepth

	scanPos := contentStart + len(alreadyEmitted)
	if lt := strings.LastIndexByte(alreadyEmitted, '<'); lt >= 0 {
		tail := alreadyEmitted[lt:]
		openTok, closeTok := "<"+tagName, "</"+tagName
		if strings.HasPrefix(openTok, tail) || strings.HasPrefix(closeTok, tail) ||
			(strings.HasPrefix(tail, closeTok) && strings.TrimSpace(tail[len(closeTok):]) == "") {
			scanPos = contentStart + lt
		}
	}
	if scanPos > len(buf) {
		scanPos = len(buf)
	}

	m, err := re.FindStringMatchStartingAt(buf, scanPos)
	for err == nil && m != nil {
		matched := m.String()
		if strings.HasPrefix(matched, "</") {
			if depth == 0 {
				closeStart := m.Index
				raw := buf[contentStart:closeStart]
				ctx.emitStopNodeDelta(o, target, raw, alreadyEmitted)
				ctx.cursor = m.Index + m.Length
				ctx.incomplete = nil
				return
			}
			depth--
		} else {
			depth++
		}
		m, err = re.FindNextMatch(m)
	}

	raw := buf[contentStart:]
	ctx.emitStopNodeDelta(o, target, raw, alreadyEmitted)
	ctx.incomplete = &stopNodeContentIncomplete{
		tagName:      tagName,
		depth:        depth,
		contentStart: contentStart,
		target:       target,
		partialText:  raw,
	}
	ctx.cursor = contentStart
}

// emitStopNodeDelta writes the portion of full beyond what alreadyEmitted
// already covers into target's text key, raw (no entity decoding, no
// nested-tag parsing), per §4.3's stop-node contract.
func (ctx *parseContext) emitStopNodeDelta(o ParserOptions, target nodeRef, full, alreadyEmitted string) {
	if len(alreadyEmitted) > len(full) {
		alreadyEmitted = ""
	}
	delta := full[len(alreadyEmitted):]
	if delta == "" {
		return
	}
	node := ctx.arena.get(target)
	addValueToObject(node, o.TextNodeName, delta, o.TextNodeName)
}
