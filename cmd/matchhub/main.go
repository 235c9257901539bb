// MatchHub is a hockey companion web app: league tables, pre-match mood
// surveys and the coaching academy.
package main

import (
	"fmt"
	"os"

	"matchhub/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
