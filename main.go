// nmosconn connects an NMOS sender to an NMOS receiver through the
// IS-05 Connection API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"nmosconn/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "nmosconn: %v\n", err)
		os.Exit(1)
	}
}
