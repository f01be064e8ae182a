package main

import "github.com/pfrederiksen/dlt-draws/internal/cli"

func main() {
	cli.Execute()
}
