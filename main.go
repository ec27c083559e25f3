package main

import "github.com/emrgen/circle/cmd"

func main() {
	cmd.Execute()
}
