package main

import "github.com/Korpiaveli/filingsflow-sub000/internal/cli"

func main() {
	cli.Execute()
}
