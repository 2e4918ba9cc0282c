package main

import "toolenv/internal/cli"

func main() {
	cli.Execute()
}
