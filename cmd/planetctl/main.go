// Command planetctl is a terminal client for the Planet Path API. It drives the
// same resource hooks a mobile screen would and prints their data, empty
// states and error messages.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
