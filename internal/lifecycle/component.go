// Package lifecycle orchestrates startup and shutdown of long-running
// server components.
package lifecycle

import "context"

// Component is a long-running part of the process managed by the Manager.
type Component interface {
	// Start initializes and starts the component. The provided context
	// can signal shutdown or set deadlines. Returns an error if
	// initialization fails.
	Start(ctx context.Context) error

	// Stop gracefully stops the component, letting in-flight operations
	// finish within the context deadline.
	Stop(ctx context.Context) error

	// Name returns the human-readable name of the component, used for
	// logging and error reporting.
	Name() string
}
