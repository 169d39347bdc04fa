package main

import "MePlay/cmd"

func main() {
	cmd.Execute()
}
