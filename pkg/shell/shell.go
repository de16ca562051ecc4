// Package shell provides the interactive terminal connection used by node
// shells: a minimal send/expect contract plus an SSH-backed implementation.
package shell

import (
	"errors"
	"regexp"
	"time"
)

// ErrTimeout is returned by Expect when no pattern matched in time.
var ErrTimeout = errors.New("timed out waiting for output")

// DefaultTimeout is used by callers that have no better idea.
const DefaultTimeout = 30 * time.Second

// Connection is one live interactive terminal session. Send writes one line
// of input; Expect blocks until any of the patterns matches the accumulated
// output, returning the index of the matching pattern and the output
// preceding the match. Matched output is consumed; on EOF the remaining
// unmatched output is returned together with io.EOF.
type Connection interface {
	Send(line string) error
	Expect(timeout time.Duration, patterns ...*regexp.Regexp) (int, string, error)
	Close() error
}
