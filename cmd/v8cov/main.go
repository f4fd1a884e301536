package main

import (
	"fmt"
	"os"

	"github.com/zjy-dev/v8cov/cmd/v8cov/app"
)

func main() {
	if err := app.NewV8covCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
