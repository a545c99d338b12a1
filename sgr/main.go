package main

import "github.com/synapse-garden/sg-resources/cmd"

func main() {
	cmd.Execute()
}
