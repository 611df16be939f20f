package main

import "github.com/commentify/commentify/cmd"

func main() {
	cmd.Execute()
}
