package main

import "github.com/ppiankov/heapwatch/internal/cli"

func main() {
	cli.Execute()
}
