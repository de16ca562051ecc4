// Package attributes implements the capability attribute mechanism shared by
// all OpenSwitch node classes.
//
// Device classes form an explicit hierarchy rooted at one abstract class.
// Each class declares zero or more capability attributes (name plus a
// human-readable description); instances expose get/set/delete accessors for
// every capability declared on the class or inherited from its ancestors.
// When a lookup fails, the resolver searches the declared hierarchy to tell
// apart "deleted", "belongs to a sibling class" and "exists nowhere", and on
// Close an instance reports whether a more general class would have been
// enough for the capabilities that were actually touched.
package attributes

import (
	"fmt"
)

// Capability is one declared capability attribute: a name and the
// description shown in provenance diagnostics and capability listings.
type Capability struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Class is one node in the device class hierarchy. Classes are created
// through Hierarchy.Register and are immutable afterwards except for the
// subclass links maintained by later registrations.
type Class struct {
	name      string
	parents   []*Class
	abstract  bool
	declared  []Capability
	declIndex map[string]int
	children  []*Class
	hierarchy *Hierarchy

	// effective capability set, computed lazily by effectiveSet.
	effective map[string]Capability
	effOrder  []string
}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// Abstract reports whether the class can be instantiated.
func (c *Class) Abstract() bool { return c.abstract }

// Parents returns the class's direct parents in declaration order.
func (c *Class) Parents() []*Class {
	out := make([]*Class, len(c.parents))
	copy(out, c.parents)
	return out
}

// Declared returns the capabilities declared directly on this class, in
// declaration order. Inherited capabilities are not included.
func (c *Class) Declared() []Capability {
	out := make([]Capability, len(c.declared))
	copy(out, c.declared)
	return out
}

// DeclaresDirectly reports whether the class itself declares the named
// capability, as opposed to inheriting it.
func (c *Class) DeclaresDirectly(name string) bool {
	_, ok := c.declIndex[name]
	return ok
}

// Capabilities returns the class's effective capability set: everything it
// declares plus everything inherited from its ancestors, in a deterministic
// root-first order. A redeclaration in a more specific class shadows the
// inherited description.
func (c *Class) Capabilities() []Capability {
	eff := c.effectiveSet()
	out := make([]Capability, 0, len(c.effOrder))
	for _, name := range c.effOrder {
		out = append(out, eff[name])
	}
	return out
}

// Describe returns the description of a capability in the class's effective
// set. The second return is false when the class neither declares nor
// inherits the name.
func (c *Class) Describe(name string) (string, bool) {
	cap, ok := c.effectiveSet()[name]
	if !ok {
		return "", false
	}
	return cap.Description, true
}

// Has reports whether the named capability is in the class's effective set.
func (c *Class) Has(name string) bool {
	_, ok := c.effectiveSet()[name]
	return ok
}

// effectiveSet computes and memoizes the union of declared capabilities over
// the class and all its ancestors. Parents are merged first (in declaration
// order, earlier parents winning ties between siblings), then the class's
// own declarations overlay the result.
func (c *Class) effectiveSet() map[string]Capability {
	if c.effective != nil {
		return c.effective
	}
	eff := make(map[string]Capability)
	var order []string
	for _, parent := range c.parents {
		parentEff := parent.effectiveSet()
		for _, name := range parent.effOrder {
			if _, seen := eff[name]; seen {
				continue
			}
			order = append(order, name)
			eff[name] = parentEff[name]
		}
	}
	for _, cap := range c.declared {
		if _, seen := eff[cap.Name]; !seen {
			order = append(order, cap.Name)
		}
		eff[cap.Name] = cap
	}
	c.effective = eff
	c.effOrder = order
	return eff
}

// Ancestors returns every ancestor of the class exactly once, breadth-first
// from the direct parents toward the root, parents in declaration order.
func (c *Class) Ancestors() []*Class {
	var out []*Class
	seen := map[*Class]bool{c: true}
	queue := append([]*Class(nil), c.parents...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		out = append(out, cur)
		queue = append(queue, cur.parents...)
	}
	return out
}

// ClassSpec describes one class for Hierarchy.Register.
type ClassSpec struct {
	// Name is the class name, unique within the hierarchy.
	Name string
	// Parents names already-registered parent classes, most significant
	// first. Empty means the class derives directly from the root.
	Parents []string
	// Abstract marks the class as non-instantiable.
	Abstract bool
	// Capabilities are the capability attributes declared directly on the
	// class, in declaration order.
	Capabilities []Capability
}

// Hierarchy is the explicit class registry for one device family. It is
// populated during setup and read-only afterwards, so instances may share it
// without synchronization.
type Hierarchy struct {
	root   *Class
	byName map[string]*Class
}

// New creates a hierarchy whose root is an abstract class with the given
// name and directly declared capabilities.
func New(rootName string, caps ...Capability) *Hierarchy {
	h := &Hierarchy{byName: make(map[string]*Class)}
	root := &Class{
		name:      rootName,
		abstract:  true,
		declared:  append([]Capability(nil), caps...),
		declIndex: indexCapabilities(caps),
		hierarchy: h,
	}
	h.root = root
	h.byName[rootName] = root
	return h
}

// Root returns the hierarchy's abstract root class.
func (h *Hierarchy) Root() *Class { return h.root }

// Lookup returns the class registered under name.
func (h *Hierarchy) Lookup(name string) (*Class, bool) {
	c, ok := h.byName[name]
	return c, ok
}

// Register adds a class to the hierarchy. Parents must already be
// registered; an empty parent list attaches the class directly under the
// root. Capability names must be unique within the class (duplicates across
// unrelated classes are expected and legal).
func (h *Hierarchy) Register(spec ClassSpec) (*Class, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("registering class: empty name")
	}
	if _, ok := h.byName[spec.Name]; ok {
		return nil, fmt.Errorf("registering class %s: %w", spec.Name, ErrClassExists)
	}
	seen := make(map[string]bool, len(spec.Capabilities))
	for _, cap := range spec.Capabilities {
		if cap.Name == "" {
			return nil, fmt.Errorf("registering class %s: empty capability name", spec.Name)
		}
		if seen[cap.Name] {
			return nil, fmt.Errorf(
				"registering class %s: capability %s declared twice", spec.Name, cap.Name)
		}
		seen[cap.Name] = true
	}

	parents := make([]*Class, 0, len(spec.Parents))
	for _, name := range spec.Parents {
		parent, ok := h.byName[name]
		if !ok {
			return nil, fmt.Errorf(
				"registering class %s: parent %s: %w", spec.Name, name, ErrClassNotFound)
		}
		parents = append(parents, parent)
	}
	if len(parents) == 0 {
		parents = append(parents, h.root)
	}

	c := &Class{
		name:      spec.Name,
		parents:   parents,
		abstract:  spec.Abstract,
		declared:  append([]Capability(nil), spec.Capabilities...),
		declIndex: indexCapabilities(spec.Capabilities),
		hierarchy: h,
	}
	h.byName[spec.Name] = c
	for _, parent := range parents {
		parent.children = append(parent.children, c)
	}
	return c, nil
}

// MustRegister is Register for static setup code; it panics on error.
func (h *Hierarchy) MustRegister(spec ClassSpec) *Class {
	c, err := h.Register(spec)
	if err != nil {
		panic(err)
	}
	return c
}

// Subclasses returns every class declared below the root, each exactly once,
// in a deterministic depth-first preorder following registration order.
// Classes reachable through more than one parent appear only on first visit.
func (h *Hierarchy) Subclasses() []*Class {
	var out []*Class
	seen := map[*Class]bool{h.root: true}
	var walk func(c *Class)
	walk = func(c *Class) {
		for _, child := range c.children {
			if seen[child] {
				continue
			}
			seen[child] = true
			out = append(out, child)
			walk(child)
		}
	}
	walk(h.root)
	return out
}

// DeclaringClasses returns the names of every concrete class in the
// hierarchy that declares the named capability directly (not by
// inheritance), in traversal order. This is the provenance search behind
// WrongAttributeError.
func (h *Hierarchy) DeclaringClasses(name string) []string {
	var owners []string
	for _, c := range h.Subclasses() {
		if c.abstract {
			continue
		}
		if c.DeclaresDirectly(name) {
			owners = append(owners, c.name)
		}
	}
	return owners
}

func indexCapabilities(caps []Capability) map[string]int {
	idx := make(map[string]int, len(caps))
	for i, cap := range caps {
		idx[cap.Name] = i
	}
	return idx
}
