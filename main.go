package main

import "github.com/edmistond/podcastdl/cmd"

func main() {
	cmd.Execute()
}
