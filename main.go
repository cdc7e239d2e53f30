package main

import "github.com/agentsmith/agentsmith/cmd"

func main() {
	cmd.Execute()
}
