package main

import (
	"os"

	"code-review-service/internal/cmd"
)

// @title       Code Review Service API
// @version     1.0
// @description Asynchronous AI-assisted merge request review service.
// @BasePath    /
func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
