package main

import (
	"os"

	"github.com/JonMunkholm/recordcheck/cmd/recordcheck/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
