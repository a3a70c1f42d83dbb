// Command create-hit-cr posts the face categorisation HIT to the production
// marketplace and prints its ID. It takes no arguments; every run creates a
// new, billable HIT.
package main

import (
	"os"

	"github.com/ljbaker/turkhit/pkg/cli"
	"github.com/ljbaker/turkhit/pkg/hit"
)

func main() {
	os.Exit(cli.Main([]string{"create", "--preset", hit.PresetProduction}))
}
