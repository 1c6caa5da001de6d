package main

import "github.com/mcoot/wordrush/internal/cli"

func main() {
	cli.Execute()
}
