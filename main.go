package main

import "github.com/chriserin/outline/cmd"

func main() {
	cmd.Execute()
}
