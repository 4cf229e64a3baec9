package main

import "github.com/aweris/assetpipe/cmd/assetpipe/cmd"

func main() {
	cmd.Execute()
}
