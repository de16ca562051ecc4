// Package vtysh drives the vtysh configuration shell of an OpenSwitch node
// over an interactive terminal connection.
//
// Newer OpenSwitch images support the `set prompt` command, which replaces
// the shell prompt with a unique sentinel so that expect matching cannot be
// fooled by command output. The driver probes for that support on start and
// falls back to matching standard prompts when it is missing.
package vtysh

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/HPENetworking/topology-openswitch/pkg/shell"
	"github.com/HPENetworking/topology-openswitch/pkg/util"
)

// promptTpl matches a vtysh prompt along with its configuration context,
// e.g. "switch(config-if)# ".
const promptTpl = `(\r\n)?%s(\([-\w\s]+\))?[#>] `

const (
	// forcedPromptValue is what `set prompt` installs as the vtysh prompt.
	forcedPromptValue = "X@~~==::VTYSH_PROMPT::==~~@X"
	// bashForcedValue is the sentinel the host framework installs as the
	// bash prompt before vtysh is started.
	bashForcedValue = "@~~==::BASH_PROMPT::==~~@"
)

// Prompt patterns for the vtysh and bash shells of an OpenSwitch node.
var (
	ForcedPrompt   = regexp.MustCompile(fmt.Sprintf(promptTpl, forcedPromptValue))
	StandardPrompt = regexp.MustCompile(fmt.Sprintf(promptTpl, `[-\w]+`))

	BashForcedPrompt   = regexp.MustCompile(`(\r\n)?` + bashForcedValue)
	BashStandardPrompt = regexp.MustCompile(`(\r\n)?root@[-\w]+:~# `)
	// The prompt changes on rbac enabled images.
	BashNonRootPrompt = regexp.MustCompile(`(\r\n)?[-\w]+:~\$ `)
)

const startAttempts = 10

// promptRetryDelay is the wait between `set prompt` attempts on images that
// apply the new prompt with a delay. Overridden in tests.
var promptRetryDelay = time.Second

// Shell is one vtysh session on top of an interactive connection. The
// connection is owned by the caller; Exit leaves it at the bash prompt.
type Shell struct {
	conn    shell.Connection
	log     *logrus.Entry
	timeout time.Duration
	forced  bool
	started bool
}

// NewShell wraps a connection to an OpenSwitch node. The node identifier is
// only used for log context.
func NewShell(node string, conn shell.Connection) *Shell {
	return &Shell{
		conn:    conn,
		log:     util.WithShell(node, "vtysh"),
		timeout: shell.DefaultTimeout,
	}
}

// Start launches vtysh on the connection and probes for `set prompt`
// support. vtysh is started through stdbuf in line-buffered mode so that
// output preceding an abrupt exit is still delivered.
func (s *Shell) Start() error {
	if s.started {
		return errors.New("vtysh already started")
	}

	started := false
	for attempt := 0; attempt < startAttempts; attempt++ {
		if err := s.conn.Send("stdbuf -oL vtysh"); err != nil {
			return fmt.Errorf("starting vtysh: %w", err)
		}
		index, before, err := s.conn.Expect(s.timeout, StandardPrompt, BashForcedPrompt)
		if err != nil {
			return fmt.Errorf("starting vtysh: %w", err)
		}
		if index == 0 {
			started = true
			break
		}
		// Landed back on the bash prompt: vtysh did not come up.
		s.log.Warnf("unable to start vtysh, received output: %q", before)
	}
	if !started {
		return fmt.Errorf("unable to start vtysh after %d attempts", startAttempts)
	}

	forced, err := s.determineSetPrompt()
	if err != nil {
		return fmt.Errorf("determining set prompt support: %w", err)
	}
	s.forced = forced
	s.started = true
	return nil
}

// determineSetPrompt probes whether this image's vtysh supports the
// `set prompt` command. Images that do apply the forced prompt, sometimes
// after a delay; images that don't answer with an error message followed by
// a standard prompt.
func (s *Shell) determineSetPrompt() (bool, error) {
	for attempt := 0; attempt < startAttempts; attempt++ {
		if err := s.conn.Send("set prompt " + forcedPromptValue); err != nil {
			return false, err
		}
		// The forced pattern is listed first: a standard-prompt pattern also
		// matches inside the forced prompt value, and Expect gives the first
		// listed pattern precedence.
		index, _, err := s.conn.Expect(s.timeout, ForcedPrompt, StandardPrompt)
		if err != nil {
			return false, err
		}
		if index == 0 {
			return true, nil
		}
		// Standard prompt: either the command does not exist or the image
		// has not applied the new prompt yet. Wait and retry.
		time.Sleep(promptRetryDelay)
	}
	return false, nil
}

// SupportsSetPrompt reports whether the image accepted `set prompt`.
func (s *Shell) SupportsSetPrompt() bool { return s.forced }

// Prompt returns the pattern matching this session's vtysh prompt.
func (s *Shell) Prompt() *regexp.Regexp {
	if s.forced {
		return ForcedPrompt
	}
	return StandardPrompt
}

// Run executes one command and returns the output printed before the next
// prompt.
func (s *Shell) Run(command string) (string, error) {
	if !s.started {
		return "", errors.New("vtysh not started")
	}
	if err := s.conn.Send(command); err != nil {
		return "", fmt.Errorf("running %q: %w", command, err)
	}
	_, output, err := s.conn.Expect(s.timeout, s.Prompt())
	if err != nil {
		return "", fmt.Errorf("running %q: %w", command, err)
	}
	return output, nil
}

// Exit attempts a clean exit from vtysh back to bash. Failures are logged as
// warnings and never returned: teardown must go on regardless of the state
// the shell was left in.
func (s *Shell) Exit() error {
	if !s.started {
		return nil
	}
	s.started = false

	// `end` first, to leave any configuration context. The hostname command
	// may have changed the prompt, so both prompt flavors are accepted.
	if err := s.conn.Send("end"); err != nil {
		s.log.Warnf("exiting the vtysh shell failed: %v", err)
		return nil
	}
	if _, _, err := s.conn.Expect(s.timeout, ForcedPrompt, StandardPrompt); err != nil {
		s.log.Warnf("exiting the vtysh shell failed: %v", err)
		return nil
	}

	if err := s.conn.Send("exit"); err != nil {
		s.log.Warnf("exiting the vtysh shell failed: %v", err)
		return nil
	}
	_, _, err := s.conn.Expect(
		s.timeout, BashForcedPrompt, BashStandardPrompt, BashNonRootPrompt)
	if err != nil && !errors.Is(err, io.EOF) {
		s.log.Warnf("exiting the vtysh shell failed: %v", err)
	}
	return nil
}
