package main

import (
	"mirrorsync/cmd"
	"os"
)

func main() {
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "run")
	}
	cmd.Execute()
}
