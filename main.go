package main

import "gddi/cmd"

func main() {
	cmd.Execute()
}
