package main

import "selectsense/cmd"

func main() {
	cmd.Execute()
}
