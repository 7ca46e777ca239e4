// Command lexbase ingests legal documents into a searchable RAG store.
package main

import (
	"os"

	"github.com/custodia-labs/lexbase/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
