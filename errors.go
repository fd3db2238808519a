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

import "github.com/pkg/errors"

// Error definitions for the parser. Per the parser's lenient contract these
// are the only two conditions that ever reach a caller; everything else
// (unbalanced tags, unclosed CDATA, dangling closers, malformed attributes)
// is absorbed as literal text or left as partial state.
var (
	// ErrInvalidChunkType is returned when ParseStream is given a chunk that
	// is neither a string, a fmt.Stringer, the empty string, nor nil (EOF).
	// It is a plain sentinel: callers are expected to branch on it with
	// errors.Is, not to treat it as a bug report.
	ErrInvalidChunkType = errors.New("streamxml: invalid chunk type")

	// ErrInternalStateCorrupt signals a broken parser invariant (for example
	// a stack frame whose node index falls outside the arena). It is never
	// user-reachable in a correct build; raising it wraps the assertion
	// site so the caller's error log carries a stack trace.
	ErrInternalStateCorrupt = errors.New("streamxml: internal state corrupt")
)

// wrapCorrupt attaches call-site context to ErrInternalStateCorrupt without
// losing its identity for errors.Is comparisons.
func wrapCorrupt(context string) error {
	return errors.Wrap(ErrInternalStateCorrupt, context)
}
