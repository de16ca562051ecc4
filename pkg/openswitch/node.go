// Package openswitch implements the OpenSwitch node family for the topology
// test framework.
//
// OpenSwitch itself is an abstract class: concrete device drivers register
// themselves below it and declare the capability attributes they support.
// The attribute mechanism (capability properties, provenance errors on
// failed lookups, teardown advisory) comes from pkg/attributes; this package
// binds it to the node lifecycle the host framework drives.
package openswitch

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/HPENetworking/topology-openswitch/pkg/attributes"
	"github.com/HPENetworking/topology-openswitch/pkg/util"
)

// hier is the class hierarchy shared by every OpenSwitch driver. It is
// populated by driver registration during setup and read-only afterwards.
var hier = attributes.New("OpenSwitch")

// Hierarchy returns the OpenSwitch class hierarchy.
func Hierarchy() *attributes.Hierarchy { return hier }

// RegisterClass adds a device class below the OpenSwitch root. Concrete
// drivers call this from their setup code.
func RegisterClass(spec attributes.ClassSpec) (*attributes.Class, error) {
	return hier.Register(spec)
}

// MustRegisterClass is RegisterClass for static driver registration; it
// panics on error.
func MustRegisterClass(spec attributes.ClassSpec) *attributes.Class {
	return hier.MustRegister(spec)
}

// Shell is the teardown surface a node needs from its shells. The concrete
// shell types (vtysh, bash) live in their own packages.
type Shell interface {
	Exit() error
}

// Node is one OpenSwitch device under test: an identifier assigned by the
// host framework, the capability attributes of its concrete class, and the
// interactive shells registered on it.
//
// Lifecycle is construct → use → Close, driven by the host framework. Close
// runs the capability usage audit.
type Node struct {
	identifier string
	attrs      *attributes.Instance
	shells     map[string]Shell
	shellOrder []string
	log        *logrus.Entry
	closed     bool
}

// NewNode creates a node of the given concrete class.
func NewNode(identifier string, class *attributes.Class) (*Node, error) {
	if identifier == "" {
		return nil, fmt.Errorf("creating node: empty identifier")
	}
	attrs, err := class.NewInstance()
	if err != nil {
		return nil, fmt.Errorf("creating node %s: %w", identifier, err)
	}
	return &Node{
		identifier: identifier,
		attrs:      attrs,
		shells:     make(map[string]Shell),
		log:        util.WithNode(identifier),
	}, nil
}

// Identifier returns the node identifier assigned by the host framework.
func (n *Node) Identifier() string { return n.identifier }

// Class returns the node's concrete device class.
func (n *Node) Class() *attributes.Class { return n.attrs.Class() }

// Get reads a capability attribute. See attributes.Instance.Get for the
// failure classification.
func (n *Node) Get(name string) (any, error) { return n.attrs.Get(name) }

// Set writes a capability attribute.
func (n *Node) Set(name string, value any) error { return n.attrs.Set(name, value) }

// Delete clears a capability attribute's value. The attribute itself stays
// on the class and can be set again.
func (n *Node) Delete(name string) error { return n.attrs.Delete(name) }

// Accessed returns the capability attributes read or written so far.
func (n *Node) Accessed() []string { return n.attrs.Accessed() }

// AddShell registers a named shell on the node. Registering the same name
// twice replaces the shell but keeps its teardown position.
func (n *Node) AddShell(name string, s Shell) {
	if _, ok := n.shells[name]; !ok {
		n.shellOrder = append(n.shellOrder, name)
	}
	n.shells[name] = s
}

// Shell returns the named shell.
func (n *Node) Shell(name string) (Shell, bool) {
	s, ok := n.shells[name]
	return s, ok
}

// Shells returns the registered shell names in registration order.
func (n *Node) Shells() []string {
	out := make([]string, len(n.shellOrder))
	copy(out, n.shellOrder)
	return out
}

// Close exits the node's shells and tears down the attribute instance,
// which runs the capability usage audit. Shell exit failures are logged and
// do not stop teardown.
func (n *Node) Close() error {
	if n.closed {
		return attributes.ErrClosed
	}
	n.closed = true
	for _, name := range n.shellOrder {
		if err := n.shells[name].Exit(); err != nil {
			n.log.Warnf("exiting shell %s: %v", name, err)
		}
	}
	return n.attrs.Close()
}
