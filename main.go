package main

import "github.com/khanhnv2901/cscan-cli/cmd"

var execCmd = cmd.Execute

func main() {
	execCmd()
}
