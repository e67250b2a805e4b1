package main

import "github.com/phanxgames/worldmap/cmd/worldmap/cmd"

func main() {
	cmd.Execute()
}
