// Command nirmaanctl performs operator tasks against a Nirmaan deployment.
package main

import (
	"os"
)

// set at build time
var version = "dev"

func main() {
	cmd := NewRootCmd()
	cmd.Version = version
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
