// Command storefront exercises the toolkit against a live store:
// resolving products, inspecting the cart, and running cart mutations
// from the terminal, with a serve mode exposing the JSON facade.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
