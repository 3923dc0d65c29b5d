// Command linecalc evaluates one expression per input line and prints each
// line beside its result.
package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/zephyrtronium/linecalc"
)

const (
	defaultInput = "input1.txt"
	defaultWidth = 30
)

func main() {
	os.Exit(run(os.Args[1:], afero.NewOsFs(), os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command with the given arguments and returns its exit
// status.
func run(args []string, fs afero.Fs, stdin io.Reader, stdout, stderr io.Writer) int {
	var (
		width, maxdepth   int
		prec, maxbits     uint
		fallback, level   string
		echo, interactive bool
	)
	flags := flag.NewFlagSet("linecalc", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.IntVarP(&width, "width", "w", defaultWidth, "column to which input lines are left-justified")
	flags.StringVar(&fallback, "default", defaultInput, "input file used when no file is given or it cannot be opened")
	flags.BoolVarP(&echo, "echo", "e", false, "print parse trees before results")
	flags.BoolVarP(&interactive, "interactive", "i", false, "prompt for lines on a terminal")
	flags.UintVarP(&prec, "prec", "p", linecalc.DefaultPrec, "precision in bits of integer powers with negative exponents")
	flags.UintVar(&maxbits, "max-bits", linecalc.DefaultMaxBits, "largest integer power result in bits, 0 for no limit")
	flags.IntVar(&maxdepth, "max-depth", 0, "deepest expression nesting, 0 for no limit")
	flags.StringVar(&level, "log-level", "warn", "logging level: debug, info, warn, error")
	flags.Usage = func() {
		io.WriteString(stderr, "usage: linecalc [options] [file | -]\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	al := zap.NewAtomicLevel()
	if err := al.UnmarshalText([]byte(level)); err != nil {
		io.WriteString(stderr, "invalid log level "+level+"\n")
		return 2
	}
	logger := newLogger(stderr, al)
	defer logger.Sync()
	log := logger.Sugar()

	switch {
	case width < 0:
		log.Errorw("width must not be negative", "width", width)
		return 2
	case maxdepth < 0:
		log.Errorw("max depth must not be negative", "max-depth", maxdepth)
		return 2
	case flags.NArg() > 1:
		log.Errorw("too many arguments", "args", flags.Args())
		return 2
	}

	d := &driver{
		ctx:   linecalc.NewContext(linecalc.Prec(prec), linecalc.MaxBits(maxbits)),
		width: width,
		echo:  echo,
		log:   log,
	}
	if maxdepth > 0 {
		d.opts = append(d.opts, linecalc.MaxDepth(maxdepth))
	}

	if interactive {
		if terminal(stdin) {
			if err := d.interactive(fs, stdout); err != nil {
				log.Errorw("interactive session failed", "error", err)
				return 1
			}
			return 0
		}
		log.Warnw("standard input is not a terminal, reading lines from it")
		if err := d.run(stdin, stdout); err != nil {
			log.Errorw("evaluation failed", "error", err)
			return 1
		}
		return 0
	}

	in, err := open(fs, flags.Arg(0), fallback, stdin, log)
	if err != nil {
		log.Errorw("no input", "error", err)
		return 1
	}
	defer in.Close()
	if err := d.run(in, stdout); err != nil {
		log.Errorw("evaluation failed", "error", err)
		return 1
	}
	return 0
}

// newLogger creates a console logger writing to w. Levels are colored when w
// is a terminal.
func newLogger(w io.Writer, level zap.AtomicLevel) *zap.Logger {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.TimeKey = ""
	if terminal(w) {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(zapcore.AddSync(w)), level))
}

// terminal reports whether f is a file attached to a terminal.
func terminal(f interface{}) bool {
	type fd interface{ Fd() uintptr }
	if f, ok := f.(fd); ok {
		return isatty.IsTerminal(f.Fd())
	}
	return false
}
