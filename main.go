// Package main is the entry point for the echotube application
package main

import (
	"github.com/echotube/echotube/cmd"
)

func main() {
	cmd.Execute()
}
