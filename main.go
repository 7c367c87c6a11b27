package main

import "github.com/spyglass-cli/spyglass/cmd"

func main() {
	cmd.Execute()
}
