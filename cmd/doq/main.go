// # cmd/doq/main.go
package main

import (
	"os"

	"doq/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
