package main

import "github.com/dl-alexandre/gacl/internal/cli"

func main() {
	cli.Execute()
}
