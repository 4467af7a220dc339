package main

import (
	"os"

	"github.com/YogaBharath-R/ITSM-Agent/cmd/itsm-agent/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
