package main

import (
	"github.com/volmand/volmand/cmd/volmand/cmd"
)

func main() {
	cmd.Execute()
}
