package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"hr-sync/internal/config"
	"hr-sync/internal/export"
	"hr-sync/internal/logger"
	"hr-sync/internal/mappers"
	"hr-sync/internal/providers/perfecthr"
	"hr-sync/internal/sftpclient"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitConfig = 2
)

// usageError marks failures caused by missing or bad configuration/flags.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

type options struct {
	since    string
	output   string
	format   string
	raw      bool
	upload   bool
	envFile  string
	logLevel string
	logJSON  bool
}

type app struct {
	stdout io.Writer
	stderr io.Writer
	fs     afero.Fs
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, &app{stdout: os.Stdout, stderr: os.Stderr, fs: afero.NewOsFs()}, os.Args[1:])
	stop()
	os.Exit(code)
}

func execute(ctx context.Context, a *app, args []string) int {
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	logger.Error("sync failed", "err", err)
	var uerr *usageError
	if errors.As(err, &uerr) {
		return exitConfig
	}
	return exitFailed
}

func newRootCmd(a *app) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "syncemployees",
		Short: "Sync employees from Perfect HR",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				return &usageError{err: fmt.Errorf("unexpected arguments: %v", args)}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, a, opts)
		},
	}
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	f := cmd.Flags()
	f.StringVar(&opts.since, "since", "", "ISO-8601 timestamp to fetch updates since")
	f.StringVar(&opts.output, "output", "", "optional output file path for the payload (.br to compress)")
	f.StringVar(&opts.format, "format", "json", "output format: json or yaml")
	f.BoolVar(&opts.raw, "raw", false, "emit records as received, without normalizing")
	f.BoolVar(&opts.upload, "upload", false, "upload the output file via SFTP (requires --output)")
	f.StringVar(&opts.envFile, "env-file", ".env", "env file loaded before reading configuration")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")
	f.BoolVar(&opts.logJSON, "log-json", false, "log as JSON (overrides LOG_JSON)")
	return cmd
}

func run(cmd *cobra.Command, a *app, opts *options) error {
	start := time.Now()

	if err := config.LoadEnvFile(opts.envFile); err != nil {
		return &usageError{err: err}
	}
	cfg := config.Load()
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if cmd.Flags().Changed("log-json") {
		cfg.LogJSON = opts.logJSON
	}

	logger.Init(&logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		Output:     a.stderr,
		JSON:       cfg.LogJSON,
		TimeFormat: "15:04:05",
	})
	log := logger.With("run_id", uuid.NewString())

	if err := cfg.Validate(); err != nil {
		return &usageError{err: err}
	}
	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return &usageError{err: err}
	}
	if opts.upload && opts.output == "" {
		return &usageError{err: errors.New("--upload requires --output")}
	}

	client := perfecthr.New(perfecthr.Config{
		BaseURL:  cfg.PerfectHRBaseURL,
		APIToken: cfg.PerfectHRAPIToken,
		Timeout:  cfg.PerfectHRTimeout(),
	})

	log.Info("Fetching employees from Perfect HR...", "since", opts.since, "timeout", cfg.PerfectHRTimeout())
	fetchStart := time.Now()
	records, err := client.GetEmployees(cmd.Context(), opts.since)
	if err != nil {
		return err
	}
	log.Info("Fetched employees", "count", len(records), "took", time.Since(fetchStart))

	var payload any = mappers.PerfectHRToEmployees(records)
	if opts.raw {
		payload = records
	}

	if opts.output == "" {
		if err := export.Encode(a.stdout, format, payload); err != nil {
			return err
		}
	} else {
		if err := export.WriteFile(a.fs, opts.output, format, payload); err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Wrote %d employees to %s\n", len(records), opts.output)
	}

	if opts.upload {
		if err := uploadOutput(cmd.Context(), a.fs, cfg, opts.output); err != nil {
			return err
		}
		log.Info("Uploaded output", "host", cfg.SFTPHost, "path", sftpclient.Config{RemoteDir: cfg.SFTPDir}.RemotePath(filepath.Base(opts.output)))
	}

	log.Debug("Execution finished", "took", time.Since(start))
	return nil
}

func uploadOutput(ctx context.Context, fs afero.Fs, cfg config.Config, localPath string) error {
	if !cfg.SFTPReady() {
		return &usageError{err: errors.New("--upload needs SFTP_HOST, SFTP_USER and SFTP_PASS")}
	}
	upCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	return sftpclient.UploadFile(upCtx, sftpclient.Config{
		Host:                  cfg.SFTPHost,
		Port:                  cfg.SFTPPort,
		User:                  cfg.SFTPUser,
		Pass:                  cfg.SFTPPass,
		RemoteDir:             cfg.SFTPDir,
		InsecureIgnoreHostKey: cfg.SFTPInsecureIgnoreHostKey,
		KnownHostsFile:        cfg.SFTPKnownHosts,
	}, fs, localPath, filepath.Base(localPath))
}
