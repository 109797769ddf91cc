package main

import "github.com/docsentry/docsentry/internal/cli"

func main() {
	cli.Execute()
}
