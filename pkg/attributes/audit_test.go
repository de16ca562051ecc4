package attributes

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/HPENetworking/topology-openswitch/pkg/util"
)

func TestRecommend_MoreGeneralClassSufficed(t *testing.T) {
	h := buildHierarchy(t)
	inst := mustInstance(t, h, "Child4")

	// Only the capability Child4 inherits from Child2 is touched.
	if err := inst.Set("child_2_only_0", "value"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := inst.Get("child_2_only_0"); err != nil {
		t.Fatalf("Get: %v", err)
	}

	general, ok := inst.Recommend()
	if !ok {
		t.Fatal("Recommend() found nothing, want Child2")
	}
	if general.Name() != "Child2" {
		t.Errorf("Recommend() = %s, want Child2", general.Name())
	}
}

func TestRecommend_OwnCapabilityUsed(t *testing.T) {
	h := buildHierarchy(t)
	inst := mustInstance(t, h, "Child4")

	if err := inst.Set("child_4_only_0", 1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok := inst.Recommend(); ok {
		t.Error("Recommend() should find nothing when the class's own capability was used")
	}
}

func TestRecommend_NothingAccessed(t *testing.T) {
	h := buildHierarchy(t)
	inst := mustInstance(t, h, "Child4")

	// Nothing touched: the most general concrete ancestor suffices.
	general, ok := inst.Recommend()
	if !ok {
		t.Fatal("Recommend() found nothing, want Child1")
	}
	if general.Name() != "Child1" {
		t.Errorf("Recommend() = %s, want Child1", general.Name())
	}
}

func TestRecommend_OnlyAbstractAncestors(t *testing.T) {
	h := buildHierarchy(t)
	inst := mustInstance(t, h, "Child1")

	// Child1's only ancestor is the abstract root, which cannot be
	// recommended.
	if _, ok := inst.Recommend(); ok {
		t.Error("Recommend() should skip abstract ancestors")
	}
}

func TestRecommend_SkipsAbstractIntermediate(t *testing.T) {
	h := buildHierarchy(t)
	if _, err := h.Register(ClassSpec{
		Name:     "AbstractMid",
		Parents:  []string{"Child1"},
		Abstract: true,
	}); err != nil {
		t.Fatalf("Register(AbstractMid): %v", err)
	}
	if _, err := h.Register(ClassSpec{
		Name:    "Leaf",
		Parents: []string{"AbstractMid"},
		Capabilities: []Capability{
			{Name: "leaf_only", Description: "leaf_only doc"},
		},
	}); err != nil {
		t.Fatalf("Register(Leaf): %v", err)
	}

	inst := mustInstance(t, h, "Leaf")
	general, ok := inst.Recommend()
	if !ok {
		t.Fatal("Recommend() found nothing, want Child1")
	}
	if general.Name() != "Child1" {
		t.Errorf("Recommend() = %s, want Child1 (AbstractMid is not instantiable)", general.Name())
	}
}

func TestClose_EmitsAdvisory(t *testing.T) {
	h := buildHierarchy(t)
	inst := mustInstance(t, h, "Child4")
	if err := inst.Set("child_2_only_0", "value"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var buf bytes.Buffer
	util.SetLogOutput(&buf)
	defer util.SetLogOutput(os.Stderr)

	if err := inst.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Child4") || !strings.Contains(out, "Child2") {
		t.Errorf("advisory %q should name both Child4 and Child2", out)
	}
}

func TestClose_SilentWhenClassWasRight(t *testing.T) {
	h := buildHierarchy(t)
	inst := mustInstance(t, h, "Child4")
	if err := inst.Set("child_4_only_0", 1); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var buf bytes.Buffer
	util.SetLogOutput(&buf)
	defer util.SetLogOutput(os.Stderr)

	if err := inst.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected advisory output: %q", buf.String())
	}
}

func TestClose_Twice(t *testing.T) {
	h := buildHierarchy(t)
	inst := mustInstance(t, h, "Child4")
	if err := inst.Set("child_4_only_0", 1); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if err := inst.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := inst.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("second Close error = %v, want %v", err, ErrClosed)
	}
}
