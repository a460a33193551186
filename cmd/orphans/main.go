// orphans prints the artifacts the gateway stored but could not announce, one
// JSON object per line. The gateway holds the ledger lock while running, so
// stop it (or point --dir at a copy) first.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/yourorg/media-gateway/internal/ledger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var dir string
	var remove bool

	flagSet := pflag.NewFlagSet("orphans", pflag.ContinueOnError)
	flagSet.StringVar(&dir, "dir", os.Getenv("ORPHAN_LEDGER_DIR"), "orphan ledger directory")
	flagSet.BoolVar(&remove, "delete", false, "remove each entry after printing it")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if dir == "" {
		return errors.New("--dir or ORPHAN_LEDGER_DIR is required")
	}

	l, err := ledger.Open(dir)
	if err != nil {
		return err
	}
	defer l.Close()

	orphans, err := l.List(context.Background())
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	for _, o := range orphans {
		if err := enc.Encode(o); err != nil {
			return err
		}
		if remove {
			if err := l.Delete(o); err != nil {
				return fmt.Errorf("delete %s: %w", o.ArtifactID, err)
			}
		}
	}
	return nil
}
