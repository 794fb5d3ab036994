package main

import "rimborso/cmd"

func main() {
	cmd.Execute()
}
