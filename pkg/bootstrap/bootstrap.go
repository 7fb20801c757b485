// Package bootstrap runs an embedded installer package.
//
// The whole job is one straight line: load the package out of our own
// executable, copy it to a fresh file in the temp directory, and start the
// Windows Installer on it with our arguments. The installer is started
// detached and never waited for; whatever it does afterwards is its own
// business. Every failure is terminal: the user sees one dialog and the
// process exits with status 1.
package bootstrap

import (
	"os"

	"github.com/hashicorp/go-hclog"
)

// PayloadSource yields the embedded installer package.
type PayloadSource interface {
	Load() ([]byte, error)
}

// Spawner starts the installer from a full command line without waiting
// for it, returning the child PID.
type Spawner interface {
	Spawn(commandLine string) (int, error)
}

// Notifier shows a failure to the user.
type Notifier interface {
	Notify(title, text string) error
}

// Result describes a successful run.
type Result struct {
	TempPath    string
	PayloadSize int
	CommandLine string
	PID         int
}

// Bootstrapper extracts and launches one installer package.
type Bootstrapper struct {
	cfg      Config
	source   PayloadSource
	spawner  Spawner
	notifier Notifier
	logger   hclog.Logger

	newSuffix func() string
	openFile  func(path string) (tempFile, error)
}

// Option configures a Bootstrapper.
type Option func(*Bootstrapper)

// WithLogger sets the logger.
func WithLogger(logger hclog.Logger) Option {
	return func(b *Bootstrapper) {
		b.logger = logger
	}
}

// WithSpawner replaces the process spawner.
func WithSpawner(s Spawner) Option {
	return func(b *Bootstrapper) {
		b.spawner = s
	}
}

// WithNotifier replaces the failure notifier.
func WithNotifier(n Notifier) Option {
	return func(b *Bootstrapper) {
		b.notifier = n
	}
}

// New creates a Bootstrapper. Unset options default to a detached process
// spawner and the platform notifier chosen by cfg.
func New(cfg Config, source PayloadSource, opts ...Option) *Bootstrapper {
	b := &Bootstrapper{
		cfg:       cfg,
		source:    source,
		logger:    hclog.NewNullLogger(),
		newSuffix: uniqueSuffix,
		openFile:  openTempFile,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = hclog.NewNullLogger()
	}
	if b.spawner == nil {
		b.spawner = &ProcessSpawner{Logger: b.logger}
	}
	if b.notifier == nil {
		b.notifier = NewNotifier(cfg, b.logger)
	}
	if b.cfg.TempPrefix == "" {
		b.cfg.TempPrefix = DefaultTempPrefix
	}
	return b
}

// Run installs and reports any failure to the user. It returns the process
// exit status.
func (b *Bootstrapper) Run(args string) int {
	res, err := b.install(args)
	if err != nil {
		b.logger.Error("Setup failed", "kind", err.Kind, "code", err.Code(), "error", err)
		if nErr := b.notifier.Notify(b.cfg.ProductName, err.DialogText()); nErr != nil {
			b.logger.Warn("Failed to show error dialog", "error", nErr)
		}
		return ExitFailure
	}

	b.logger.Info("Installer started", "pid", res.PID, "package", res.TempPath)
	return ExitSuccess
}

// Install performs the extraction and spawn. A returned error is always
// an *Error.
func (b *Bootstrapper) Install(args string) (*Result, error) {
	res, err := b.install(args)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (b *Bootstrapper) install(args string) (*Result, *Error) {
	data, err := b.source.Load()
	if err != nil {
		return nil, &Error{Kind: KindPayload, Err: err}
	}
	b.logger.Debug("Located installer package", "size", len(data))

	dir := b.cfg.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	tempPath, err := b.reserveTempName(dir)
	if err != nil {
		return nil, &Error{Kind: KindTempName, Path: dir, Err: err}
	}
	b.logger.Debug("Reserved temporary file", "path", tempPath)

	if err := b.writeTempFile(tempPath, data); err != nil {
		b.cleanup(tempPath)
		return nil, &Error{Kind: KindWriteTemp, Path: tempPath, Err: err}
	}
	b.logger.Debug("Wrote installer package", "path", tempPath, "bytes", len(data))

	line, err := BuildCommandLine(b.cfg.Installer, tempPath, args, b.cfg.MaxCommandLine)
	if err != nil {
		b.cleanup(tempPath)
		return nil, &Error{Kind: KindSpawn, Err: err}
	}

	pid, err := b.spawner.Spawn(line)
	if err != nil {
		b.cleanup(tempPath)
		return nil, &Error{Kind: KindSpawn, Err: err}
	}

	return &Result{
		TempPath:    tempPath,
		PayloadSize: len(data),
		CommandLine: line,
		PID:         pid,
	}, nil
}
