package main

import "github.com/structdiff/structdiff/internal/cmd"

func main() {
	cmd.Execute()
}
