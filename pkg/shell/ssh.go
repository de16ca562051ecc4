package shell

import (
	"fmt"
	"io"
	"net"
	"regexp"
	"time"

	"golang.org/x/crypto/ssh"
)

// SSHConfig holds what Dial needs to reach a device over SSH.
type SSHConfig struct {
	Host     string // host or host:port, port defaults to 22
	User     string
	Password string
}

// SSHConnection is a Connection over an SSH session with a requested pty.
type SSHConnection struct {
	client  *ssh.Client
	session *ssh.Session
	stdin   io.WriteCloser
	m       *matcher
}

// Dial opens an SSH session to the device and starts a login shell on a pty.
func Dial(cfg SSHConfig) (*SSHConnection, error) {
	config := &ssh.ClientConfig{
		User: cfg.User,
		Auth: []ssh.AuthMethod{
			ssh.Password(cfg.Password),
		},
		// Lab/test environment — production would verify host keys.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         DefaultTimeout,
	}

	addr := cfg.Host
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = addr + ":22"
	}
	client, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		return nil, fmt.Errorf("SSH dial %s: %w", cfg.Host, err)
	}

	session, err := client.NewSession()
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("SSH session: %w", err)
	}

	modes := ssh.TerminalModes{
		ssh.ECHO:          0,
		ssh.TTY_OP_ISPEED: 115200,
		ssh.TTY_OP_OSPEED: 115200,
	}
	if err := session.RequestPty("xterm", 24, 80, modes); err != nil {
		session.Close()
		client.Close()
		return nil, fmt.Errorf("request pty: %w", err)
	}

	stdin, err := session.StdinPipe()
	if err != nil {
		session.Close()
		client.Close()
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := session.StdoutPipe()
	if err != nil {
		session.Close()
		client.Close()
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}

	if err := session.Shell(); err != nil {
		session.Close()
		client.Close()
		return nil, fmt.Errorf("start shell: %w", err)
	}

	c := &SSHConnection{
		client:  client,
		session: session,
		stdin:   stdin,
		m:       newMatcher(),
	}
	go c.m.run(stdout)
	return c, nil
}

// Send writes one line of input to the remote shell.
func (c *SSHConnection) Send(line string) error {
	if _, err := io.WriteString(c.stdin, line+"\n"); err != nil {
		return fmt.Errorf("send %q: %w", line, err)
	}
	return nil
}

// Expect waits for any of the patterns on the session output.
func (c *SSHConnection) Expect(timeout time.Duration, patterns ...*regexp.Regexp) (int, string, error) {
	return c.m.expect(timeout, patterns...)
}

// Close tears the session and the SSH connection down.
func (c *SSHConnection) Close() error {
	c.stdin.Close()
	c.session.Close()
	return c.client.Close()
}
