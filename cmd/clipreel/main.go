package main

import "clipreel/internal/cli"

func main() {
	cli.Execute()
}
