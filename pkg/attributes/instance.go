package attributes

import (
	"fmt"
	"sort"
)

// Instance is one live object of a concrete class. It holds the private
// value slots backing the class's capability properties and records which
// capabilities were actually touched, for the teardown advisory.
//
// Instances are not safe for concurrent use; the host framework drives
// construction, use and teardown from a single logical thread.
type Instance struct {
	class    *Class
	slots    map[string]any
	accessed map[string]struct{}
	closed   bool
}

// NewInstance creates an instance of the given class. Abstract classes
// cannot be instantiated.
func (c *Class) NewInstance() (*Instance, error) {
	if c.abstract {
		return nil, fmt.Errorf("class %s: %w", c.name, ErrAbstractClass)
	}
	return &Instance{
		class:    c,
		slots:    make(map[string]any),
		accessed: make(map[string]struct{}),
	}, nil
}

// Class returns the instance's concrete class.
func (i *Instance) Class() *Class { return i.class }

// Get reads a capability value. A read of a declared capability is recorded
// for the teardown advisory even when it fails because the slot was deleted.
//
// Lookup failures are classified: DeletedAttributeError when the capability
// is declared on the instance's class but the backing slot is absent,
// WrongAttributeError when the name is declared by other concrete classes in
// the hierarchy, and ErrUnknownAttribute when it exists nowhere.
func (i *Instance) Get(name string) (any, error) {
	if !i.class.Has(name) {
		return nil, i.resolve(name)
	}
	i.accessed[name] = struct{}{}
	value, ok := i.slots[name]
	if !ok {
		return nil, &DeletedAttributeError{Attribute: name, Class: i.class.name}
	}
	return value, nil
}

// Set writes a capability value. Writing a name the class does not carry
// fails with the same classification as Get.
func (i *Instance) Set(name string, value any) error {
	if !i.class.Has(name) {
		return i.resolve(name)
	}
	i.accessed[name] = struct{}{}
	i.slots[name] = value
	return nil
}

// Delete removes the private slot backing a capability. The property itself
// remains on the class: a later Set restores the value, while a Get in
// between fails with DeletedAttributeError.
func (i *Instance) Delete(name string) error {
	if !i.class.Has(name) {
		return i.resolve(name)
	}
	if _, ok := i.slots[name]; !ok {
		return &DeletedAttributeError{Attribute: name, Class: i.class.name}
	}
	delete(i.slots, name)
	return nil
}

// Accessed returns the names of the capabilities read or written so far,
// sorted. Duplicate accesses collapse; the set never shrinks.
func (i *Instance) Accessed() []string {
	out := make([]string, 0, len(i.accessed))
	for name := range i.accessed {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// resolve classifies a failed lookup of an undeclared name: a provenance
// search over the hierarchy, falling back to plain unknown-attribute
// semantics when no concrete class declares the name.
func (i *Instance) resolve(name string) error {
	if owners := i.class.hierarchy.DeclaringClasses(name); len(owners) > 0 {
		return &WrongAttributeError{
			Attribute:   name,
			Class:       i.class.name,
			AvailableIn: owners,
		}
	}
	return fmt.Errorf("attribute %s was not found in class %s: %w",
		name, i.class.name, ErrUnknownAttribute)
}
