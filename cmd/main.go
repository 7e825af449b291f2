package main

import (
	"os"

	"github.com/GeonYul2/Recruitment-Auto/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
