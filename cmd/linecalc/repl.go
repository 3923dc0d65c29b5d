package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// prompter reads lines interactively. *liner.State is a prompter.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

const prompt = "> "

// repl prompts for lines until EOF, an aborted prompt, or ":quit", writing
// each line's result to out.
func (d *driver) repl(p prompter, out io.Writer) error {
	for {
		line, err := p.Prompt(prompt)
		switch {
		case err == nil:
		case errors.Is(err, io.EOF), errors.Is(err, liner.ErrPromptAborted):
			fmt.Fprintln(out)
			return nil
		default:
			return errors.Wrap(err, "reading prompt")
		}
		switch strings.TrimSpace(line) {
		case "":
			continue
		case ":quit":
			return nil
		}
		p.AppendHistory(line)
		// The prompt already shows the line, so only the result is written.
		fmt.Fprintln(out, d.result(line))
	}
}

// interactive runs the prompt on the terminal with history kept in fs.
func (d *driver) interactive(fs afero.Fs, out io.Writer) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	hist := historyPath()
	if hist != "" {
		if f, err := fs.Open(hist); err == nil {
			if _, err := ln.ReadHistory(f); err != nil {
				d.log.Warnw("cannot read history", "file", hist, "error", err)
			}
			f.Close()
		}
		defer func() {
			f, err := fs.OpenFile(hist, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
			if err != nil {
				d.log.Warnw("cannot save history", "file", hist, "error", err)
				return
			}
			if _, err := ln.WriteHistory(f); err != nil {
				d.log.Warnw("cannot save history", "file", hist, "error", err)
			}
			f.Close()
		}()
	}
	return d.repl(ln, out)
}
