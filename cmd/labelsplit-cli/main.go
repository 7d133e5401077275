package main

import "labelsplit/cmd/labelsplit-cli/cmd"

func main() {
	cmd.Execute()
}
