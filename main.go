package main

import "github.com/luxlabs/claude-monitor/cmd"

func main() {
	cmd.Execute()
}
