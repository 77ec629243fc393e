package main

import (
	"os"

	apibotcmder "github.com/papercomputeco/apibot/cmd/apibot"
)

func main() {
	cmd := apibotcmder.NewApibotCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
