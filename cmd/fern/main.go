package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"fern/internal/evaluator"
	"fern/internal/object"
	"fern/internal/reader"
	"fern/internal/repl"
	"fern/internal/stdlib"
	"fern/internal/util"
)

const DefaultConfigPath = "fern.toml"

var (
	// Version is stamped by the build.
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"

	help    bool
	version bool
	// logging
	logLevel string
	logFile  string
	// run modes
	evalExpr   string
	configPath string
)

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")
	flag.StringVar(&evalExpr, "eval", "", "Evaluate the given expression and exit")
	flag.StringVar(&configPath, "config", DefaultConfigPath, "Path to the configuration file")
	// log config
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
}

func main() {
	flag.Parse()

	config, cfgErr := util.LoadConfiguration(configPath)
	config.Version = Version
	config.BuildDate = BuildDate
	config.Commit = Commit
	// Flags win over the file.
	if logLevel != "" {
		config.LogLevel = logLevel
	}
	if logFile != "" {
		config.LogFile = logFile
	}

	loggerOptions := &slog.HandlerOptions{
		AddSource: false,
		Level:     logLevelFromString(config.LogLevel),
	}
	logWriter := configureLogWriter(config.LogFile)
	slog.SetDefault(slog.New(slog.NewJSONHandler(logWriter, loggerOptions)))

	if cfgErr != nil {
		fmt.Fprintf(os.Stderr, "bad configuration file '%s': %v\n", configPath, cfgErr)
		os.Exit(2)
	}

	if version {
		printVersion()
		return
	}
	if help {
		printHelp()
		return
	}

	ev := evaluator.New()
	ev.MaxDepth = config.MaxDepth
	stdlib.Install(ev.Global)

	switch {
	case evalExpr != "":
		os.Exit(runSource(ev, evalExpr, true))

	case flag.NArg() > 0:
		data, err := os.ReadFile(flag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot read '%s': %v\n", flag.Arg(0), err)
			os.Exit(1)
		}
		os.Exit(runSource(ev, string(data), false))

	default:
		printVersion()
		r := &repl.Repl{Eval: ev, HistoryFile: config.HistoryFile}
		r.Run()
	}
}

// runSource parses and evaluates a whole source text. In echo mode the value
// of the final form is printed, matching -eval expectations.
func runSource(ev *evaluator.Evaluator, src string, echo bool) int {
	forms, err := reader.Parse(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	var result object.Object = object.NIL
	for _, form := range forms {
		result = ev.Eval(form, ev.Global)
		if object.IsError(result) {
			fmt.Fprintln(os.Stderr, result.Inspect())
			return 1
		}
	}
	if echo {
		fmt.Println(result.Inspect())
	}
	return 0
}

func configureLogWriter(logFile string) *os.File {
	if logFile == "" {
		return os.Stderr
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log directory for '%s': %v; falling back to stderr\n", logFile, err)
		return os.Stderr
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file '%s': %v; falling back to stderr\n", logFile, err)
		return os.Stderr
	}
	return f
}

func printVersion() {
	fmt.Printf("fern version 'v%s' %s %s\n", Version, BuildDate, Commit)
}

func printHelp() {
	fmt.Printf(`Usage: fern [options] [filename [args...]]

Options:
  -eval <expr>       Evaluate the given expression, print its value and exit.
  -config <path>     Path to the configuration file. Default is 'fern.toml'.
  -help              Display this help information and exit.
  -version           Display version information and exit.
  -log-level <level> Set the log level: debug, info, warn, error. Default is 'error'.
  -log-file <path>   Specify a log file to write logs. Default is stderr.

Details:
This is the Fern programming language.

Examples:
  fern                          Start the interactive REPL
  fern -eval "1 + 2"            Evaluate an expression
  fern myfile.fern              Execute the provided Fern file
  fern myfile.fern arg1 arg2    Execute the file with command-line arguments

Version Information:
  Version:    %s
  Build Date: %s
  Commit:     %s
`, Version, BuildDate, Commit)
}

func logLevelFromString(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelError
	}
}
