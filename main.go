package main

import "github.com/jsphweid/pianola/cmd"

func main() {
	cmd.Execute()
}
