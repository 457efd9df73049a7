package main

import (
	"fmt"
	"os"

	"github.com/hirearn/admin-console/internal/app"
)

func main() {
	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, app.FormatError(err))
		os.Exit(1)
	}
}
