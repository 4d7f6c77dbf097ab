package registry

import "fmt"

// DuplicateToolError reports an attempt to rebind an already-registered name.
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %q is already registered", e.Name)
}

// UnknownToolError reports a lookup of a name that was never registered.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("tool %q is not registered", e.Name)
}

// InvalidToolError reports a malformed registration (empty name, nil func).
type InvalidToolError struct {
	Reason string
}

func (e *InvalidToolError) Error() string {
	return "invalid tool registration: " + e.Reason
}
