package main

import "github.com/tranvictor/safeops/cmd"

func main() {
	cmd.Execute()
}
