package main

import "materialization-audit/internal/cli"

func main() {
	cli.Execute()
}
