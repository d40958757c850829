package main

import "galaxymath/internal/cli"

func main() {
	cli.Execute()
}
