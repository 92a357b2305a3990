// Package main is entrypoint for the application
package main

import (
	"fmt"
	"observer/cmd"
)

func main() {
	cmd.Run()
	fmt.Println("observer end")
}
