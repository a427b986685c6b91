// Package debug routes human-readable trace lines to whatever output the
// platform registers, usually the diagnostic UART. It avoids fmt so it stays
// cheap on the target.
package debug

// Writer receives one complete trace line without the trailing newline.
type Writer func(string)

var (
	// writer is the platform output; a no-op until SetWriter is called
	writer Writer = func(string) {}

	enabled = true
)

// SetWriter sets the platform-specific trace output.
func SetWriter(w Writer) {
	if w == nil {
		w = func(string) {}
	}
	writer = w
}

// SetEnabled turns tracing on or off. Disabled tracing costs one branch.
func SetEnabled(on bool) {
	enabled = on
}

// Enabled reports whether trace output is active.
func Enabled() bool {
	return enabled
}

// Println writes msg as one trace line.
func Println(msg string) {
	if enabled {
		writer(msg)
	}
}
