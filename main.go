package main

import (
	"os"

	"github.com/ljbaker/turkhit/pkg/cli"
)

func main() {
	os.Exit(cli.Main(os.Args[1:]))
}
