package main

import "uiauto/cmd"

func main() {
	cmd.Execute()
}
