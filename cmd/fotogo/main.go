package main

import (
	"fmt"
	"os"

	"github.com/Roky360/fotogo-bakcend/cmd/fotogo/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
