package main

import "github.com/kamal-hamza/imgc/cmd"

func main() {
	cmd.Execute()
}
