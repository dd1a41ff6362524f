package main

import (
	"context"
	"fmt"
	"os"

	"github.com/codegoddy/skincare/internal/bootstrap"
)

func main() {
	if err := bootstrap.Run(context.Background()); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "skincare-server failed: %v\n", err)
		os.Exit(1)
	}
}
