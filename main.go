package main

import "github.com/shiftgate/shiftgate/cmd"

func main() {
	cmd.Execute()
}
