package main

import (
	"github.com/snapgpt/snapgpt/cmd"
)

func main() {
	cmd.Execute()
}
