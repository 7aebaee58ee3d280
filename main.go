package main

import (
	"mlsync/cmd"
)

func main() {
	cmd.Execute()
}
