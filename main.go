package main

import "github.com/tremorlab/tremor-analyzer/cmd"

func main() {
	cmd.Execute()
}
