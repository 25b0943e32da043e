// Command sass-spec runs HRX-archived Sass spec cases against a Sass
// implementation.
package main

import (
	"os"

	"github.com/pjeweb/sass-spec/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
