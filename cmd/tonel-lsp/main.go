// Command tonel-lsp is a minimal language server that publishes
// diagnostics for open Tonel documents over stdio.
package main

import (
	"fmt"
	"os"

	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

func main() {
	commonlog.Configure(1, nil)

	srv := newLspServer()
	if err := srv.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "tonel-lsp:", err)
		os.Exit(1)
	}
}
