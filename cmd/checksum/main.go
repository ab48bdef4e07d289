// checksum computes and verifies SHA-256 checksums of files.
//
// Usage:
//
//	checksum [flags] compute PATH...
//	checksum [flags] verify HEX|CID PATH
//	checksum [flags] sidecar write|verify PATH
//	checksum [flags] manifest build ROOT OUT
//	checksum [flags] manifest verify ROOT IN
//
// Exit status is 0 on success, 1 when content does not match and 2 when
// content could not be checked.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/iamNilotpal/checksum/config"
	cs "github.com/iamNilotpal/checksum/internal/adapters/checksum"
	"github.com/iamNilotpal/checksum/internal/core/domain"
	"github.com/iamNilotpal/checksum/internal/core/services/checksum"
	"github.com/iamNilotpal/checksum/internal/core/services/manifest"
	"github.com/iamNilotpal/checksum/internal/serialize"
	"github.com/iamNilotpal/checksum/pkg/errors"
	"github.com/iamNilotpal/checksum/pkg/logger"
)

const (
	exitOK       = 0
	exitMismatch = 1
	exitError    = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type app struct {
	checksums *checksum.Service
	logger    *zap.SugaredLogger
	stdout    io.Writer
	stderr    io.Writer
	showCID   bool
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var (
		configPath string
		logLevel   string
		showCID    bool
	)

	flagSet := pflag.NewFlagSet("checksum", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&configPath, "config", "", "path to a YAML configuration file")
	flagSet.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides the config file")
	flagSet.BoolVar(&showCID, "cid", false, "also print the CIDv1 of each computed checksum")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(stderr, flagSet)
			return exitOK
		}
		return exitError
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(stderr, flagSet)
		return exitOK
	}

	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitError
		}
		cfg = loaded
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	log, err := logger.NewWithLevel("checksum", cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "error: invalid log level %q: %v\n", cfg.LogLevel, err)
		return exitError
	}
	defer log.Sync()

	checksums, err := checksum.New(&checksum.Config{Options: cfg.ChecksumOptions(), Logger: log})
	if err != nil {
		if ve := errors.AsValidationError(err); ve != nil {
			log.Errorw("invalid checksum options", "field", ve.Field, "value", ve.Value, "error", ve.Err)
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}

	a := &app{checksums: checksums, logger: log, stdout: stdout, stderr: stderr, showCID: showCID}

	positional := flagSet.Args()
	if len(positional) == 0 {
		printHelp(stderr, flagSet)
		return exitError
	}

	switch command, rest := positional[0], positional[1:]; command {
	case "compute":
		return a.compute(ctx, rest)
	case "verify":
		return a.verify(ctx, rest)
	case "sidecar":
		return a.sidecar(ctx, rest)
	case "manifest":
		return a.manifest(ctx, rest)
	default:
		fmt.Fprintf(stderr, "error: unknown command %q\n", command)
		return exitError
	}
}

func (a *app) compute(ctx context.Context, paths []string) int {
	if len(paths) == 0 {
		return a.usage("compute PATH...")
	}

	code := exitOK
	for _, path := range paths {
		sum, err := a.checksums.ComputeFromFile(ctx, path)
		if err != nil {
			a.fail(err)
			code = exitError
			continue
		}
		a.printChecksum(sum, path)
	}
	return code
}

func (a *app) verify(ctx context.Context, args []string) int {
	if len(args) != 2 {
		return a.usage("verify HEX|CID PATH")
	}

	expected, err := parseExpected(args[0])
	if err != nil {
		a.fail(err)
		return exitError
	}
	return a.report(args[1], func() (bool, error) {
		return a.checksums.MatchesFile(ctx, expected, args[1])
	})
}

func (a *app) sidecar(ctx context.Context, args []string) int {
	if len(args) != 2 {
		return a.usage("sidecar write|verify PATH")
	}

	path := args[1]
	switch args[0] {
	case "write":
		sum, err := a.checksums.WriteSidecar(ctx, path)
		if err != nil {
			a.fail(err)
			return exitError
		}
		a.printChecksum(sum, path)
		return exitOK
	case "verify":
		return a.report(path, func() (bool, error) {
			return a.checksums.VerifySidecar(ctx, path)
		})
	default:
		return a.usage("sidecar write|verify PATH")
	}
}

func (a *app) manifest(ctx context.Context, args []string) int {
	if len(args) != 3 {
		return a.usage("manifest build ROOT OUT | manifest verify ROOT IN")
	}

	manifests, err := manifest.New(&manifest.Config{Checksums: a.checksums, Logger: a.logger})
	if err != nil {
		a.fail(err)
		return exitError
	}
	defer manifests.Close()

	root, file := args[1], args[2]
	switch args[0] {
	case "build":
		m, err := manifests.Build(ctx, root)
		if err != nil {
			a.fail(err)
			return exitError
		}
		if err := manifests.Save(file, m); err != nil {
			a.fail(err)
			return exitError
		}
		fmt.Fprintf(a.stdout, "%d files recorded in %s\n", len(m.Entries), file)
		return exitOK

	case "verify":
		m, err := manifests.Load(file)
		if err != nil {
			a.fail(err)
			return exitError
		}
		result, err := manifests.Verify(ctx, root, m)
		if err != nil {
			a.fail(err)
			return exitError
		}
		out, err := serialize.MarshalIndentJSON(result)
		if err != nil {
			a.fail(err)
			return exitError
		}
		a.stdout.Write(out)
		if !result.OK {
			return exitMismatch
		}
		return exitOK

	default:
		return a.usage("manifest build ROOT OUT | manifest verify ROOT IN")
	}
}

// Accepts the expected checksum as hex or as a sha2-256 CID. Hex parse
// errors are reported when the value is neither.
func parseExpected(value string) (domain.Checksum, error) {
	sum, err := domain.ParseChecksum(value)
	if err == nil {
		return sum, nil
	}
	if fromCID, cidErr := cs.ParseCID(value); cidErr == nil {
		return fromCID, nil
	}
	return domain.Checksum{}, err
}

// Prints sha256sum compatible lines, with the CID appended when requested.
func (a *app) printChecksum(sum domain.Checksum, path string) {
	if !a.showCID {
		fmt.Fprintf(a.stdout, "%s  %s\n", sum.Hex(), path)
		return
	}

	id, err := cs.CID(sum)
	if err != nil {
		a.fail(err)
		fmt.Fprintf(a.stdout, "%s  %s\n", sum.Hex(), path)
		return
	}
	fmt.Fprintf(a.stdout, "%s  %s  %s\n", sum.Hex(), path, id)
}

func (a *app) report(path string, check func() (bool, error)) int {
	match, err := check()
	if err != nil {
		a.fail(err)
		return exitError
	}
	if !match {
		fmt.Fprintf(a.stdout, "%s: FAILED\n", path)
		return exitMismatch
	}
	fmt.Fprintf(a.stdout, "%s: OK\n", path)
	return exitOK
}

func (a *app) fail(err error) {
	a.logger.Debugw("command failed", "category", errors.CategoryOf(err).String(), "error", err)
	fmt.Fprintf(a.stderr, "error: %v\n", err)
}

func (a *app) usage(synopsis string) int {
	fmt.Fprintf(a.stderr, "usage: checksum [flags] %s\n", synopsis)
	return exitError
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `checksum computes and verifies SHA-256 checksums of files.

Usage:
  checksum [flags] compute PATH...
  checksum [flags] verify HEX|CID PATH
  checksum [flags] sidecar write|verify PATH
  checksum [flags] manifest build ROOT OUT
  checksum [flags] manifest verify ROOT IN

Flags:
%s`, flagSet.FlagUsages())
}
