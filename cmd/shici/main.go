// shici is the admin and query CLI: it loads collections into the store and
// runs searches against the same engine the API server uses.
package main

import (
	"fmt"
	"os"

	"shicihub/cmd/shici/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
