package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/objectfs/bosfs/cmd/bosfs/commands"
)

func main() {
	if err := commands.NewRootCmd(nil).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
		os.Exit(1)
	}
}
