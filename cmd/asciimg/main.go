package main

import "github.com/blacktop/go-asciimg/cmd/asciimg/cmd"

func main() {
	cmd.Execute()
}
