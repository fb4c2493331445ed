package main

import "github.com/obreasy/obreasy/internal/cli"

func main() {
	cli.Execute()
}
