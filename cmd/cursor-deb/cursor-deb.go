package main

import "github.com/oshokin/cursor-deb/cmd/cursor-deb/cmd"

func main() {
	cmd.Execute()
}
