package main

import "github.com/aalvaropc/cpstool/internal/cli"

func main() {
	cli.Execute()
}
