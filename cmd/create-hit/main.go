// Command create-hit posts the face rating HIT to the sandbox marketplace and
// prints its ID. It takes no arguments.
package main

import (
	"os"

	"github.com/ljbaker/turkhit/pkg/cli"
	"github.com/ljbaker/turkhit/pkg/hit"
)

func main() {
	os.Exit(cli.Main([]string{"create", "--preset", hit.PresetSandbox}))
}
