package main

import "github.com/hmans/moviegraph/cmd"

func main() {
	cmd.Execute()
}
