package flags

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
)

const EnvVarPrefix = "COMPAT_ACCEPTOR"

func prefixEnvVars(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

var (
	BaseDir = &cli.StringFlag{
		Name:    "basedir",
		Value:   ".",
		EnvVars: prefixEnvVars("BASEDIR"),
		Usage:   "Harness working directory holding programs/, scenarios/, golden/, results/ and the registry file",
	}
	SubjectBin = &cli.StringFlag{
		Name:    "subject-bin",
		Value:   "",
		EnvVars: prefixEnvVars("SUBJECT_BIN"),
		Usage:   "Path to the subject interpreter binary. Defaults to <basedir>/build/basic8k",
	}
	OracleCmd = &cli.StringFlag{
		Name:    "oracle-cmd",
		Value:   "",
		EnvVars: prefixEnvVars("ORACLE_CMD"),
		Usage:   "Command line of a reference interpreter to use as the comparison baseline instead of stored golden files (the program file is appended)",
	}
	Timeout = &cli.DurationFlag{
		Name:    "timeout",
		Value:   30 * time.Second,
		EnvVars: prefixEnvVars("TIMEOUT"),
		Usage:   "Wall-clock deadline for one subject process execution",
	}
	OracleTimeout = &cli.DurationFlag{
		Name:    "oracle-timeout",
		Value:   90 * time.Second,
		EnvVars: prefixEnvVars("ORACLE_TIMEOUT"),
		Usage:   "Wall-clock deadline for one oracle process execution",
	}
	RunInterval = &cli.DurationFlag{
		Name:    "run-interval",
		Value:   0,
		EnvVars: prefixEnvVars("RUN_INTERVAL"),
		Usage:   "Interval between test runs (e.g. '1h', '30m'). Set to 0 or omit for run-once mode.",
	}
	HealthzAddr = &cli.StringFlag{
		Name:    "healthz-addr",
		Value:   "",
		EnvVars: prefixEnvVars("HEALTHZ_ADDR"),
		Usage:   "Listen address for the healthz endpoint in continuous mode",
	}
	MetricsAddr = &cli.StringFlag{
		Name:    "metrics-addr",
		Value:   "",
		EnvVars: prefixEnvVars("METRICS_ADDR"),
		Usage:   "Listen address for the Prometheus metrics endpoint in continuous mode",
	}
	LogLevel = &cli.StringFlag{
		Name:    "log-level",
		Value:   "info",
		EnvVars: prefixEnvVars("LOG_LEVEL"),
		Usage:   "Log level: debug, info, warn, error",
	}
)

var requiredFlags = []cli.Flag{
	BaseDir,
}

var optionalFlags = []cli.Flag{
	SubjectBin,
	OracleCmd,
	Timeout,
	OracleTimeout,
	RunInterval,
	HealthzAddr,
	MetricsAddr,
	LogLevel,
}

var Flags []cli.Flag

func init() {
	Flags = append(requiredFlags, optionalFlags...)
}

func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		name := f.Names()[0]
		if !ctx.IsSet(name) && ctx.String(name) == "" {
			return fmt.Errorf("flag %s is required", name)
		}
	}
	return nil
}
