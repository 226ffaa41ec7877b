package main

import (
	"github.com/ipetrenko/cardshop/cmd"
)

func main() {
	cmd.Start()
}
