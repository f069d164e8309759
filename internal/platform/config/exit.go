package config

import (
	"fmt"
	"os"
)

// Exitf prints a formatted fatal message to stderr, runs the optional
// flush hooks (logger sync, telemetry flush) and exits with code 1.
func Exitf(flush []func(), format string, args ...any) {
	for _, fn := range flush {
		if fn != nil {
			fn()
		}
	}
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
