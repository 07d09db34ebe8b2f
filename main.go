package main

import "github.com/gembakit/photopair/cmd"

func main() {
	cmd.Execute()
}
