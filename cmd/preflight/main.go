// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/lebinh/edgeprobe/internal/modules"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	addr := strings.TrimSpace(os.Getenv("ADDR"))
	modulesFile := strings.TrimSpace(os.Getenv("MODULES_FILE"))
	popID := strings.TrimSpace(os.Getenv("POP_ID"))

	if addr == "" {
		warn("ADDR is empty; default in your app may be used.")
	} else {
		ok("ADDR=" + addr)
	}

	if popID == "" {
		warn("POP_ID empty — metrics will carry no pop label.")
	} else {
		ok("POP_ID=" + popID)
	}

	if modulesFile == "" {
		warn("MODULES_FILE empty — only the built-in http_2xx module will be served.")
	} else {
		table, err := modules.Load(modulesFile)
		if err != nil {
			fail("MODULES_FILE does not load: " + err.Error())
		}
		ok(fmt.Sprintf("MODULES_FILE loads (%d modules: %s)",
			len(table.Names()), strings.Join(table.Names(), ",")))
	}

	ok("preflight passed")
}
