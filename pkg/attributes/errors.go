package attributes

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for registry and lookup failures
var (
	ErrClassExists      = errors.New("class already registered")
	ErrClassNotFound    = errors.New("class not registered")
	ErrAbstractClass    = errors.New("abstract class cannot be instantiated")
	ErrUnknownAttribute = errors.New("unknown attribute")
	ErrClosed           = errors.New("instance already closed")
)

// WrongAttributeError reports a capability that does not exist on the asked
// class but is declared by one or more other concrete classes in the
// hierarchy. It means the caller instantiated the wrong device subtype.
type WrongAttributeError struct {
	Attribute   string
	Class       string
	AvailableIn []string
}

func (e *WrongAttributeError) Error() string {
	return fmt.Sprintf(
		"attribute %s was not found in class %s, this attribute is available in %s",
		e.Attribute, e.Class, strings.Join(e.AvailableIn, ", "),
	)
}

// DeletedAttributeError reports a capability that is declared on the
// instance's class but whose value slot is absent. The caller may recover by
// assigning the attribute again.
type DeletedAttributeError struct {
	Attribute string
	Class     string
}

func (e *DeletedAttributeError) Error() string {
	return fmt.Sprintf(
		"attribute %s is declared in class %s but is not present in the instance, has it been deleted?",
		e.Attribute, e.Class,
	)
}
