// Command gestor browses, inserts into and deletes from the fixed tables of
// the configured data service, in the terminal or as a web server.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}
