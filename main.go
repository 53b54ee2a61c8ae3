package main

import "github.com/notargets/gorupture/cmd"

func main() {
	cmd.Execute()
}
