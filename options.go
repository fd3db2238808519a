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
	"github.com/go-logr/logr"
	"github.com/pkg/errors"
)

// ParserOptions holds the user-visible configuration for a Parser. Every
// field has a documented default; the zero value of ParserOptions is not
// useful on its own, which is why NewParser always starts from
// DefaultOptions() and layers ParserOption values on top.
type ParserOptions struct {
	// TextNodeName is the key under which text content is stored.
	TextNodeName string

	// AttributeNamePrefix is prepended to every attribute name.
	AttributeNamePrefix string

	// StopNodes lists bare tag names or dotted paths whose body is captured
	// raw. Dotted entries match by suffix; "*" globs exactly one segment.
	StopNodes []string

	// MaxDepth, when non-nil, demotes any opening tag that would push the
	// stack beyond this depth to literal text.
	MaxDepth *int

	// AlwaysCreateTextNode, when false, collapses a closed element whose
	// only content was text to the bare text value in its parent.
	AlwaysCreateTextNode bool

	// ParsePrimitives applies tryParsePrimitive to text nodes and attribute
	// values.
	ParsePrimitives bool

	// AllowedRootNodes gates the stream: non-empty means non-matching
	// top-level input is returned as a plain-text stream instead of parsed.
	AllowedRootNodes []string

	// IgnoreWhitespace suppresses whitespace-only text runs at document
	// root.
	IgnoreWhitespace bool
}

// DefaultOptions returns the parser's documented defaults.
func DefaultOptions() ParserOptions {
	return ParserOptions{
		TextNodeName:         "#text",
		AttributeNamePrefix:  "@",
		StopNodes:            nil,
		MaxDepth:             nil,
		AlwaysCreateTextNode: true,
		ParsePrimitives:      false,
		AllowedRootNodes:     nil,
		IgnoreWhitespace:     false,
	}
}

// Validate checks invariants that would otherwise make the parser behave
// unpredictably: an empty TextNodeName or a negative MaxDepth is rejected.
// An empty AttributeNamePrefix is accepted.
func (o ParserOptions) Validate() error {
	if o.TextNodeName == "" {
		return errors.New("streamxml: textNodeName must not be empty")
	}
	if o.MaxDepth != nil && *o.MaxDepth < 0 {
		return errors.New("streamxml: maxDepth must not be negative")
	}
	return nil
}

// ParserOption mutates a ParserOptions value plus the ambient,
// Go-native-only settings (logger) that sit alongside it: the functional
// options idiom, adapted here to compose with a plain options struct
// instead of replacing it, since ParserOptions must remain representable
// as a single struct literal a caller can build directly.
type ParserOption func(*parserSettings)

type parserSettings struct {
	options ParserOptions
	logger  logr.Logger
}

func defaultParserSettings() parserSettings {
	return parserSettings{
		options: DefaultOptions(),
		logger:  logr.Discard(),
	}
}

// WithOptions overrides the full ParserOptions struct in one call. This is
// the primary entry point for callers that already have a ParserOptions
// value assembled elsewhere (e.g. decoded from JSON/YAML).
func WithOptions(o ParserOptions) ParserOption {
	return func(s *parserSettings) {
		s.options = o
	}
}

// WithLogger attaches a structured logger for chunk-boundary diagnostics.
// Omitted, the session logs nothing (logr.Discard()).
func WithLogger(l logr.Logger) ParserOption {
	return func(s *parserSettings) {
		s.logger = l
	}
}

// WithTextNodeName overrides ParserOptions.TextNodeName.
func WithTextNodeName(name string) ParserOption {
	return func(s *parserSettings) { s.options.TextNodeName = name }
}

// WithAttributeNamePrefix overrides ParserOptions.AttributeNamePrefix.
func WithAttributeNamePrefix(prefix string) ParserOption {
	return func(s *parserSettings) { s.options.AttributeNamePrefix = prefix }
}

// WithStopNodes overrides ParserOptions.StopNodes.
func WithStopNodes(names ...string) ParserOption {
	return func(s *parserSettings) { s.options.StopNodes = names }
}

// WithMaxDepth overrides ParserOptions.MaxDepth.
func WithMaxDepth(depth int) ParserOption {
	return func(s *parserSettings) { s.options.MaxDepth = &depth }
}

// WithAlwaysCreateTextNode overrides ParserOptions.AlwaysCreateTextNode.
func WithAlwaysCreateTextNode(always bool) ParserOption {
	return func(s *parserSettings) { s.options.AlwaysCreateTextNode = always }
}

// WithParsePrimitives overrides ParserOptions.ParsePrimitives.
func WithParsePrimitives(parse bool) ParserOption {
	return func(s *parserSettings) { s.options.ParsePrimitives = parse }
}

// WithAllowedRootNodes overrides ParserOptions.AllowedRootNodes.
func WithAllowedRootNodes(names ...string) ParserOption {
	return func(s *parserSettings) { s.options.AllowedRootNodes = names }
}

// WithIgnoreWhitespace overrides ParserOptions.IgnoreWhitespace.
func WithIgnoreWhitespace(ignore bool) ParserOption {
	return func(s *parserSettings) { s.options.IgnoreWhitespace = ignore }
}
