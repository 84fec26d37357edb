package main

import "github.com/mcoot/tictacgame-go/internal/cli"

func main() {
	cli.Execute()
}
