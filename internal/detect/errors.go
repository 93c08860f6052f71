package detect

import "fmt"

// UnresolvedSignalError reports a configured signal missing from the trace,
// or a lookup of a name a watcher does not follow. Scope is set instead of
// Interface in the second case.
type UnresolvedSignalError struct {
	Interface string
	Scope     string
	Role      string
	Name      string
}

func (e *UnresolvedSignalError) Error() string {
	if e.Interface == "" {
		return fmt.Sprintf("scope %q: %s signal %q not watched", e.Scope, e.Role, e.Name)
	}
	return fmt.Sprintf("interface %q: %s signal %q not found in trace", e.Interface, e.Role, e.Name)
}

// SignalError is a non-fatal decode failure met while evaluating one
// sampling edge.
type SignalError struct {
	Time      uint64
	Interface string
	Role      string
	Signal    string
	Err       error
}

func (e *SignalError) Error() string {
	return fmt.Sprintf("@%d %s: %s %s: %v", e.Time, e.Interface, e.Role, e.Signal, e.Err)
}

func (e *SignalError) Unwrap() error { return e.Err }
