package main

import "github.com/xvierd/focus-smile/cmd"

func main() {
	cmd.Execute()
}
