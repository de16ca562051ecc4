package openswitch

import (
	"bytes"
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/HPENetworking/topology-openswitch/pkg/attributes"
	"github.com/HPENetworking/topology-openswitch/pkg/util"
)

// testHierarchy builds a private hierarchy so tests do not leak classes into
// the package-level OpenSwitch registry.
func testHierarchy(t *testing.T) *attributes.Hierarchy {
	t.Helper()
	h := attributes.New("OpenSwitch")
	specs := []attributes.ClassSpec{
		{
			Name: "OpenSwitch8320",
			Capabilities: []attributes.Capability{
				{Name: "services_address", Description: "address of the services interface"},
				{Name: "console_address", Description: "address of the console interface"},
			},
		},
		{Name: "OpenSwitchVsim"},
		{
			Name:    "OpenSwitchVsimDocker",
			Parents: []string{"OpenSwitchVsim"},
			Capabilities: []attributes.Capability{
				{Name: "container_id", Description: "docker container id"},
			},
		},
	}
	for _, spec := range specs {
		if _, err := h.Register(spec); err != nil {
			t.Fatalf("Register(%s): %v", spec.Name, err)
		}
	}
	return h
}

func mustNode(t *testing.T, h *attributes.Hierarchy, class, identifier string) *Node {
	t.Helper()
	c, ok := h.Lookup(class)
	if !ok {
		t.Fatalf("class %s not registered", class)
	}
	n, err := NewNode(identifier, c)
	if err != nil {
		t.Fatalf("NewNode(%s): %v", identifier, err)
	}
	return n
}

type fakeShell struct {
	exited int
	fail   error
}

func (s *fakeShell) Exit() error {
	s.exited++
	return s.fail
}

func TestNewNode_Validation(t *testing.T) {
	h := testHierarchy(t)
	c, _ := h.Lookup("OpenSwitch8320")

	if _, err := NewNode("", c); err == nil {
		t.Error("NewNode with empty identifier should fail")
	}
	if _, err := NewNode("sw1", h.Root()); !errors.Is(err, attributes.ErrAbstractClass) {
		t.Errorf("NewNode on abstract root error = %v, want %v", err, attributes.ErrAbstractClass)
	}
}

func TestNode_Attributes(t *testing.T) {
	h := testHierarchy(t)
	n := mustNode(t, h, "OpenSwitch8320", "sw1")

	if n.Identifier() != "sw1" {
		t.Errorf("Identifier() = %q, want sw1", n.Identifier())
	}
	if n.Class().Name() != "OpenSwitch8320" {
		t.Errorf("Class() = %s, want OpenSwitch8320", n.Class().Name())
	}

	if err := n.Set("services_address", "10.0.0.1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got, err := n.Get("services_address"); err != nil || got != "10.0.0.1" {
		t.Errorf("Get() = %v, %v, want 10.0.0.1, nil", got, err)
	}
	if err := n.Delete("services_address"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	var deletedErr *attributes.DeletedAttributeError
	if _, err := n.Get("services_address"); !errors.As(err, &deletedErr) {
		t.Errorf("Get after Delete error = %v, want DeletedAttributeError", err)
	}

	if got := n.Accessed(); !reflect.DeepEqual(got, []string{"services_address"}) {
		t.Errorf("Accessed() = %v", got)
	}
}

func TestNode_WrongClassDiagnosis(t *testing.T) {
	h := testHierarchy(t)
	n := mustNode(t, h, "OpenSwitchVsim", "sw1")

	_, err := n.Get("services_address")
	var wrongErr *attributes.WrongAttributeError
	if !errors.As(err, &wrongErr) {
		t.Fatalf("Get error = %v, want WrongAttributeError", err)
	}
	if !reflect.DeepEqual(wrongErr.AvailableIn, []string{"OpenSwitch8320"}) {
		t.Errorf("AvailableIn = %v, want [OpenSwitch8320]", wrongErr.AvailableIn)
	}
}

func TestNode_Shells(t *testing.T) {
	h := testHierarchy(t)
	n := mustNode(t, h, "OpenSwitch8320", "sw1")

	bash := &fakeShell{}
	vty := &fakeShell{}
	n.AddShell("bash", bash)
	n.AddShell("vtysh", vty)

	if got, ok := n.Shell("vtysh"); !ok || got != Shell(vty) {
		t.Error("Shell(vtysh) should return the registered shell")
	}
	if _, ok := n.Shell("telnet"); ok {
		t.Error("Shell(telnet) should not exist")
	}
	if got := n.Shells(); !reflect.DeepEqual(got, []string{"bash", "vtysh"}) {
		t.Errorf("Shells() = %v, want [bash vtysh]", got)
	}

	// Replacement keeps the registration position.
	bash2 := &fakeShell{}
	n.AddShell("bash", bash2)
	if got := n.Shells(); !reflect.DeepEqual(got, []string{"bash", "vtysh"}) {
		t.Errorf("Shells() after replace = %v, want [bash vtysh]", got)
	}

	if err := n.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if bash2.exited != 1 || vty.exited != 1 {
		t.Errorf("shell exits = %d, %d, want 1, 1", bash2.exited, vty.exited)
	}
	if bash.exited != 0 {
		t.Error("replaced shell should not be exited")
	}
}

func TestNode_Close_ShellFailureDoesNotStopTeardown(t *testing.T) {
	h := testHierarchy(t)
	n := mustNode(t, h, "OpenSwitch8320", "sw1")
	n.AddShell("vtysh", &fakeShell{fail: errors.New("connection lost")})

	var buf bytes.Buffer
	util.SetLogOutput(&buf)
	defer util.SetLogOutput(os.Stderr)

	if err := n.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !strings.Contains(buf.String(), "connection lost") {
		t.Errorf("shell failure should be logged, got %q", buf.String())
	}
	if err := n.Close(); !errors.Is(err, attributes.ErrClosed) {
		t.Errorf("second Close error = %v, want %v", err, attributes.ErrClosed)
	}
}

func TestNode_Close_Advisory(t *testing.T) {
	h := testHierarchy(t)
	n := mustNode(t, h, "OpenSwitchVsimDocker", "sw1")

	// Nothing specific to OpenSwitchVsimDocker is ever touched.
	var buf bytes.Buffer
	util.SetLogOutput(&buf)
	defer util.SetLogOutput(os.Stderr)

	if err := n.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "OpenSwitchVsimDocker") || !strings.Contains(out, "OpenSwitchVsim") {
		t.Errorf("advisory %q should name both classes", out)
	}
}

func TestRegisterClass_PackageHierarchy(t *testing.T) {
	class, err := RegisterClass(attributes.ClassSpec{
		Name: "OpenSwitchNodeTestOnly",
		Capabilities: []attributes.Capability{
			{Name: "node_test_only_cap", Description: "doc"},
		},
	})
	if err != nil {
		t.Fatalf("RegisterClass: %v", err)
	}
	if _, ok := Hierarchy().Lookup("OpenSwitchNodeTestOnly"); !ok {
		t.Error("class should be visible through Hierarchy()")
	}

	n, err := NewNode("sw1", class)
	if err != nil {
		t.Fatalf("NewNode: %v", err)
	}
	if err := n.Set("node_test_only_cap", 1); err != nil {
		t.Errorf("Set: %v", err)
	}
}
