package main

import "github.com/dukerupert/remote/cmd"

func main() {
	cmd.Execute()
}
