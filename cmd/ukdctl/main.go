package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ukd-dev/ukdportal/internal/cli"
	"github.com/ukd-dev/ukdportal/internal/logging"
	"github.com/ukd-dev/ukdportal/internal/server"
	"github.com/ukd-dev/ukdportal/internal/server/config"
	"github.com/ukd-dev/ukdportal/internal/server/services"
)

func main() {
	args := commandArgs(os.Args[1:])
	if len(args) == 0 {
		cli.Usage(os.Stderr)
		os.Exit(2)
	}

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewJSONLogger(os.Stderr, cfg.LogLevel)

	m, err := server.OpenStorage(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer m.Close()

	app := cli.NewApp(services.NewAdminService(m), server.NewImportService(m, cfg, logger), os.Stdin, os.Stdout)
	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, cli.ErrUsage) {
			cli.Usage(os.Stderr)
		}
		m.Close()
		os.Exit(1)
	}
}

// commandArgs drops configuration flags so only the command and its
// positional arguments remain. Flag values are assumed to follow the flag
// either as "-x=v" or as the next argument.
func commandArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && i+1 < len(args) {
				i++
			}
			continue
		}
		out = append(out, a)
	}
	return out
}
