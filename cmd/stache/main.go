// Command stache renders micro-templates from the command line.
//
// Usage:
//
//	stache render page.html --data data.yaml
//	stache render a.txt b.txt --data data.json --rules rules.yaml --ignore-missing
//	stache render page.html --data data.toml --watch -o page.out.html
//	stache --env-file .env render page.html
//	stache keys page.html
//	stache config-schema
package main

import (
	"context"
	"os"
)

func main() {
	cmd := newRootCmd()
	if err := execute(context.Background(), cmd); err != nil {
		os.Exit(handleError(cmd, err))
	}
}
