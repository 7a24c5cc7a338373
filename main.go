package main

import "redminereport/internal/cli"

func main() {
	cli.Execute()
}
