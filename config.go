package acceptor

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/mbasic-dev/compat-acceptor/flags"
)

// RegistryFilename is the registry file name beneath the base directory.
const RegistryFilename = "game_registry.json"

// Config holds the application configuration. All paths are resolved at
// construction time; components receive them explicitly and keep no
// process-wide mutable path state.
type Config struct {
	BaseDir       string
	ProgramsDir   string // subject program artifacts
	ScenariosDir  string // scripted input files
	GoldenDir     string // stored golden transcripts
	ResultsDir    string // per-run artifacts
	RegistryPath  string
	SubjectBin    string        // subject interpreter executable
	OracleCmd     []string      // when set, the oracle is the comparison baseline
	Timeout       time.Duration // deadline per subject execution
	OracleTimeout time.Duration // deadline per oracle execution
	RunInterval   time.Duration // interval between runs; 0 means run-once
	RunOnce       bool
	HealthzAddr   string
	MetricsAddr   string
	Log           log.Logger
}

// NewConfig creates a new Config from cli context
func NewConfig(ctx *cli.Context, logger log.Logger) (*Config, error) {
	if err := flags.CheckRequired(ctx); err != nil {
		return nil, fmt.Errorf("missing required flags: %w", err)
	}

	baseDir, err := filepath.Abs(ctx.String(flags.BaseDir.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for base directory: %w", err)
	}

	subjectBin := ctx.String(flags.SubjectBin.Name)
	if subjectBin == "" {
		subjectBin = filepath.Join(baseDir, "build", defaultSubjectExe())
	} else if subjectBin, err = filepath.Abs(subjectBin); err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for subject binary: %w", err)
	}

	var oracleCmd []string
	if raw := strings.TrimSpace(ctx.String(flags.OracleCmd.Name)); raw != "" {
		oracleCmd = strings.Fields(raw)
	}

	timeout := ctx.Duration(flags.Timeout.Name)
	if timeout <= 0 {
		return nil, errors.New("timeout must be positive")
	}
	oracleTimeout := ctx.Duration(flags.OracleTimeout.Name)
	if oracleTimeout <= 0 {
		return nil, errors.New("oracle timeout must be positive")
	}

	runInterval := ctx.Duration(flags.RunInterval.Name)

	return &Config{
		BaseDir:       baseDir,
		ProgramsDir:   filepath.Join(baseDir, "programs"),
		ScenariosDir:  filepath.Join(baseDir, "scenarios"),
		GoldenDir:     filepath.Join(baseDir, "golden"),
		ResultsDir:    filepath.Join(baseDir, "results"),
		RegistryPath:  filepath.Join(baseDir, RegistryFilename),
		SubjectBin:    subjectBin,
		OracleCmd:     oracleCmd,
		Timeout:       timeout,
		OracleTimeout: oracleTimeout,
		RunInterval:   runInterval,
		RunOnce:       runInterval == 0,
		HealthzAddr:   ctx.String(flags.HealthzAddr.Name),
		MetricsAddr:   ctx.String(flags.MetricsAddr.Name),
		Log:           logger,
	}, nil
}

// defaultSubjectExe returns the platform-specific subject binary name.
func defaultSubjectExe() string {
	if runtime.GOOS == "windows" {
		return "basic8k.exe"
	}
	return "basic8k"
}

// ProgramPath resolves a subject's program artifact. Absolute paths in
// the registry are honored; relative paths are rooted at ProgramsDir.
func (c *Config) ProgramPath(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(c.ProgramsDir, file)
}
