// Package main is the entry point for hostctl.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/opmodel/hostctl/internal/cmd"
	oerrors "github.com/opmodel/hostctl/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.NewRootCmd().ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}

	var exitErr *oerrors.ExitError
	if errors.As(err, &exitErr) {
		// The command layer may have printed a detailed report already.
		if !exitErr.Printed {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitErr.Code)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(oerrors.ExitCodeFromError(err))
}
