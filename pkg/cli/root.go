package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ljbaker/turkhit/pkg/logutil"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	ExitCodeExecuteFailed = 1
	ExitCodeInvalidConfig = 2
)

const (
	FlagConfig   = "config"
	FlagLogLevel = "log-level"
)

type options struct {
	configPath string
	logLevel   string
	out        io.Writer
}

// configError marks failures that happen before any remote call.
type configError struct {
	error
}

func (e configError) Unwrap() error { return e.error }

// NewRootCommand builds the turkhit command tree. Command output goes to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	o := &options{out: out}

	root := &cobra.Command{
		Use:           "turkhit",
		Short:         "Post experiment HITs to Mechanical Turk",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return logutil.Init(o.logLevel)
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVarP(&o.configPath, FlagConfig, "c", "", "configuration file path (default $TURKHIT_CONFIG or ~/.config/turkhit/config.toml)")
	root.PersistentFlags().StringVar(&o.logLevel, FlagLogLevel, "info", "log level (debug, info, warn, error)")

	root.AddCommand(
		newCreateCommand(o),
		newPreviewCommand(o),
		newAuthCommand(o),
		newLedgerCommand(o),
		newConfigCommand(o),
	)
	return root
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, args []string, out io.Writer) error {
	root := NewRootCommand(out)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// Main runs the command tree and returns the process exit code.
func Main(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := Execute(ctx, args, os.Stdout)
	defer zap.L().Sync()
	if err == nil {
		return 0
	}

	zap.L().Error("turkhit failed", zap.Error(err))
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return ExitCode(err)
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var cfgErr configError
	if errors.As(err, &cfgErr) {
		return ExitCodeInvalidConfig
	}
	return ExitCodeExecuteFailed
}
