package main

import "github.com/KaramelBytes/nutriscan-cli/cmd"

func main() {
	cmd.Execute()
}
