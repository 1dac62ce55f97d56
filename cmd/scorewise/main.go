package main

import "github.com/scorewise/scorewise/internal/cli"

func main() {
	cli.Execute()
}
