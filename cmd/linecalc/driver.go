package main

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/zephyrtronium/linecalc"
)

// driver evaluates input lines and formats their results.
type driver struct {
	ctx   *linecalc.Context
	opts  []linecalc.ParseOption
	width int
	echo  bool
	log   *zap.SugaredLogger
}

// format evaluates one line and returns the output row for it, without a
// trailing newline. The line must not include its line terminator.
func (d *driver) format(line string) string {
	var b strings.Builder
	b.WriteString(line)
	for n := utf8.RuneCountInString(line); n < d.width; n++ {
		b.WriteByte(' ')
	}
	b.WriteByte(' ')
	b.WriteString(d.result(line))
	return b.String()
}

// result evaluates a line and formats its result. With echo, the parse tree
// precedes the result.
func (d *driver) result(line string) string {
	r := d.ctx.EvalLine(line, d.opts...)
	if r.Err != nil {
		d.log.Debugw("line failed", "line", line, "status", r.Status, "error", r.Err)
	}
	if d.echo && r.Status != linecalc.StatusSyntaxError {
		a, err := linecalc.ParseString(line, d.opts...)
		if err != nil {
			panic("linecalc: line parsed once but not twice: " + err.Error())
		}
		return a.String() + " : " + r.String()
	}
	return r.String()
}

// run formats every line of in to out. Lines end with "\n" or "\r\n"; a final
// line without a terminator is still evaluated.
func (d *driver) run(in io.Reader, out io.Writer) error {
	br := bufio.NewReader(in)
	bw := bufio.NewWriter(out)
	n := 0
	for {
		s, err := br.ReadString('\n')
		if s != "" {
			n++
			s = strings.TrimSuffix(s, "\n")
			s = strings.TrimSuffix(s, "\r")
			bw.WriteString(d.format(s))
			bw.WriteByte('\n')
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			bw.Flush()
			return errors.Wrapf(err, "reading line %d", n+1)
		}
	}
	d.log.Debugw("finished input", "lines", n)
	return errors.Wrap(bw.Flush(), "writing results")
}

// open selects the input. "-" means in. Otherwise the named file is opened,
// falling back to the default file when the name is empty or the file can't
// be opened.
func open(fs afero.Fs, name, fallback string, in io.Reader, log *zap.SugaredLogger) (io.ReadCloser, error) {
	if name == "-" {
		log.Debugw("reading standard input")
		return io.NopCloser(in), nil
	}
	if name != "" {
		f, err := fs.Open(name)
		if err == nil {
			log.Debugw("reading file", "file", name)
			return f, nil
		}
		log.Warnw("cannot open input, using default", "file", name, "default", fallback, "error", err)
	}
	f, err := fs.Open(fallback)
	if err != nil {
		return nil, errors.Wrapf(err, "opening default input %s", fallback)
	}
	log.Debugw("reading file", "file", fallback)
	return f, nil
}

const historyFile = ".linecalc_history"

// historyPath gets the location of the interactive history, or the empty
// string if there is no home directory.
func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFile)
}
