package main

import "github.com/mcoot/blockfall/internal/cli"

func main() {
	cli.Execute()
}
