package attributes

import (
	"github.com/HPENetworking/topology-openswitch/pkg/util"
)

// Recommend computes the most general concrete ancestor of the instance's
// class whose effective capability set still covers every capability the
// instance actually touched. The walk goes from the concrete class toward
// the root and stops at the first ancestor that no longer covers the
// accessed set; abstract classes are passed through but never recommended.
//
// The second return is false when no ancestor improves on the instance's own
// class.
func (i *Instance) Recommend() (*Class, bool) {
	best := i.class
	for _, ancestor := range i.class.Ancestors() {
		if !covers(ancestor, i.accessed) {
			break
		}
		if !ancestor.abstract {
			best = ancestor
		}
	}
	if best == i.class {
		return nil, false
	}
	return best, true
}

// Close tears the instance down and runs the usage audit exactly once. When
// a more general class would have covered everything the instance touched,
// an advisory warning naming both classes is logged. The audit is advisory
// only: it never fails Close, and any fault inside it is discarded.
func (i *Instance) Close() error {
	if i.closed {
		return ErrClosed
	}
	i.closed = true
	func() {
		defer func() {
			// Teardown must survive a broken hierarchy.
			_ = recover()
		}()
		if general, ok := i.Recommend(); ok {
			util.Logger.WithField("class", i.class.name).Warnf(
				"instance of class %s only used capabilities of class %s, which could have been used instead",
				i.class.name, general.name,
			)
		}
	}()
	return nil
}

// covers reports whether every accessed capability is in the class's
// effective set.
func covers(c *Class, accessed map[string]struct{}) bool {
	eff := c.effectiveSet()
	for name := range accessed {
		if _, ok := eff[name]; !ok {
			return false
		}
	}
	return true
}
