// Command wirebind binds and presents payloads with schema files, prints
// their JSON Schema and serves the Shopify OAuth handshake.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
