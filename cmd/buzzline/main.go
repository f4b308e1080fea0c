package main

import (
	"github.com/chexlabs/buzzline/internal/cli"
)

func main() {
	cli.Execute()
}
