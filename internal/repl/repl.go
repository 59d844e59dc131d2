package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"fern/internal/evaluator"
	"fern/internal/object"
	"fern/internal/reader"
)

const (
	promptMain = "fern> "
	promptCont = "....> "
)

type Repl struct {
	Eval        *evaluator.Evaluator
	HistoryFile string
}

// Run drives the read-eval-print loop until EOF or :quit. Multi-line input
// is supported by probing the parser: an incomplete form keeps the loop
// reading continuation lines.
func (r *Repl) Run() {
	histPath := r.historyPath()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		src, ok := readForm(ln)
		if !ok {
			fmt.Println()
			return
		}
		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		if trimmed == ":quit" {
			return
		}

		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		forms, err := reader.Parse(src)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}

		var result object.Object = object.NIL
		for _, form := range forms {
			result = r.Eval.Eval(form, r.Eval.Global)
			if object.IsError(result) {
				break
			}
		}
		if object.IsError(result) {
			fmt.Fprintln(os.Stderr, result.Inspect())
			continue
		}
		fmt.Println(result.Inspect())
	}
}

func (r *Repl) historyPath() string {
	if filepath.IsAbs(r.HistoryFile) {
		return r.HistoryFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return r.HistoryFile
	}
	return filepath.Join(home, r.HistoryFile)
}

func readForm(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}

		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, perr := reader.Parse(src); perr != nil && reader.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}
