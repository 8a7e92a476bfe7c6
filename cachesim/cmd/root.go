// Package cmd provides the command-line interface of cachesim.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/config"
	"github.com/sarchlab/cachesim/mem/cache"
	"github.com/sarchlab/cachesim/trace"
)

const usageLine = "Usage: cachesim [cache size: 128-4096] " +
	"[cache mapping: dm|fa] [cache organization: uc|sc]"

// ErrUsage is returned when the command line cannot be understood.
var ErrUsage = errors.New("invalid arguments")

// Exit codes of the command.
const (
	ExitOK             = 0
	ExitFailure        = 1
	ExitUsage          = 2
	ExitOpen           = 3
	ExitMalformedTrace = 4
	ExitInvalidCache   = 5
)

// newRootCmd creates the root command. Every call returns a fresh command so
// that flags do not leak between runs.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cachesim <cache size> <dm|fa> <uc|sc>",
		Short: "cachesim replays a memory access trace against a cache.",
		Long: `cachesim replays a memory access trace against a cache with ` +
			`64-byte blocks. The cache is either direct-mapped (dm) or ` +
			`fully-associative (fa), and either unified (uc) or split into ` +
			`an instruction and a data cache (sc).`,
		Args:          checkArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          runSimulation,
	}

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})

	flags := rootCmd.Flags()
	flags.String("config", "", "YAML file with run options")
	flags.String("trace", config.DefaultTracePath,
		"trace file to replay, - reads standard input")
	flags.String("record", "", "record every access into this SQLite file")
	flags.String("csv", "", "write every access into this CSV file")
	flags.String("metrics", "",
		"write Prometheus metrics into this file when the run ends")
	flags.Bool("quiet", false, "do not print a line per access")
	flags.Bool("breakdown", false, "print statistics per access kind")
	flags.String("log-level", "WARN", "DEBUG, INFO, WARN, or ERROR")

	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func checkArgs(_ *cobra.Command, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("%w: expected 3 arguments, got %d",
			ErrUsage, len(args))
	}

	return nil
}

// parseCacheConfig turns the positional arguments into a cache
// configuration.
func parseCacheConfig(args []string) (cache.Config, error) {
	capacity, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return cache.Config{}, fmt.Errorf("%w: invalid cache size %q",
			ErrUsage, args[0])
	}

	mapping, ok := cache.ParseMapping(args[1])
	if !ok {
		return cache.Config{}, fmt.Errorf("%w: Unknown cache mapping %q",
			ErrUsage, args[1])
	}

	organization, ok := cache.ParseOrganization(args[2])
	if !ok {
		return cache.Config{}, fmt.Errorf("%w: Unknown cache organization %q",
			ErrUsage, args[2])
	}

	return cache.Config{
		Capacity:     uint32(capacity),
		BlockSize:    cache.DefaultBlockSize,
		Mapping:      mapping,
		Organization: organization,
	}, nil
}

// ExitCode maps an error returned by the command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrUsage), errors.Is(err, config.ErrInvalidOptions):
		return ExitUsage
	case errors.Is(err, trace.ErrOpen):
		return ExitOpen
	case errors.Is(err, trace.ErrMalformedLine):
		return ExitMalformedTrace
	case errors.Is(err, cache.ErrInvalidConfig):
		return ExitInvalidCache
	default:
		return ExitFailure
	}
}

// Execute runs the command with the process arguments and returns the exit
// code.
func Execute() int {
	return run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)

		if errors.Is(err, ErrUsage) {
			fmt.Fprintln(stderr, usageLine)
		}
	}

	return ExitCode(err)
}
