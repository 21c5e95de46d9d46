// Command dashboard serves the ValidProp provider-validation dashboard.
//
// Usage:
//
//	dashboard serve --config config.yaml
//	dashboard watch
//	dashboard snapshot --json
//	dashboard version
package main

import (
	"fmt"
	"os"

	"validprop/cmd/dashboard/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
