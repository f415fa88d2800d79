// Command showrunnerd bootstraps and runs the show runner daemon in the
// foreground: it resolves the runtime tool set, installs it when missing,
// and launches the headless server against the workspace manifest found next
// to the executable.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
)

func main() {
	configPath := flag.String("config", "", "path to the workspace manifest (defaults to showrunner.toml next to the executable)")
	flag.Parse()

	if err := newBootstrapper().run(context.Background(), *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "showrunnerd: %v\n", err)
		os.Exit(1)
	}
}
