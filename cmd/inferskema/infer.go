package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	inferskema "github.com/reoring/inferskema"
	"github.com/reoring/inferskema/internal/config"
	js "github.com/reoring/inferskema/jsonschema"
)

const stdinName = "-"

// runInfer prints the schema inferred from every input. Unless fail_on_error
// is set, a failed run still exits 0 with nothing on stdout.
func (a *app) runInfer(cmd *cobra.Command, args []string) error {
	out, err := a.inferSchema(cmd, args)
	if err != nil {
		a.log.WithError(err).Error("schema inference failed")
		if a.cfg.FailOnError {
			return err
		}
		return nil
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func (a *app) inferSchema(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 {
		args = []string{stdinName}
	}
	if err := checkStdinOnce(args); err != nil {
		return nil, err
	}

	// Inputs are parsed in parallel; folding happens afterwards in argument order.
	parsed := make([][]inferskema.Value, len(args))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range args {
		i, name := i, name
		g.Go(func() error {
			vs, err := a.parseInput(cmd, name)
			if err != nil {
				return fmt.Errorf("%s: %w", displayName(name), err)
			}
			parsed[i] = vs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	b := inferskema.NewBuilder(inferskema.Options{Emit: a.cfg.EmitOpt()})
	for _, vs := range parsed {
		for _, v := range vs {
			b.Add(v)
		}
	}
	a.log.WithFields(logrus.Fields{"inputs": len(args), "samples": b.Samples()}).Debug("samples folded")

	schema, err := b.Schema()
	if err != nil {
		return nil, err
	}
	var out []byte
	if a.cfg.Emit.Output == config.OutputYAML {
		out, err = js.MarshalYAML(schema)
	} else {
		out, err = js.MarshalIndent(schema)
		out = append(out, '\n')
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// errStdinRepeated reports "-" given more than once; stdin can only be read once.
var errStdinRepeated = errors.New(`"-" (stdin) may be given only once`)

func checkStdinOnce(args []string) error {
	seen := false
	for _, name := range args {
		if name != stdinName {
			continue
		}
		if seen {
			return errStdinRepeated
		}
		seen = true
	}
	return nil
}

func (a *app) parseInput(cmd *cobra.Command, name string) ([]inferskema.Value, error) {
	var r io.Reader
	if name == stdinName {
		in := cmd.InOrStdin()
		if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			a.log.Info("reading JSON from the terminal; finish with Ctrl-D")
		}
		r = in
	} else {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	opt := a.cfg.ParseOpt(a.warnSink(displayName(name)))
	if a.stream {
		return inferskema.ParseAllReader(r, opt)
	}
	v, err := inferskema.ParseReader(r, opt)
	if err != nil {
		return nil, err
	}
	return []inferskema.Value{v}, nil
}

// warnSink logs non-fatal parse issues such as tolerated duplicate keys.
func (a *app) warnSink(input string) func(inferskema.Issue) {
	return func(it inferskema.Issue) {
		a.log.WithFields(logrus.Fields{
			"input": input,
			"code":  it.Code,
			"path":  it.Path,
		}).Warn(it.Message)
	}
}

func displayName(name string) string {
	if name == stdinName {
		return "<stdin>"
	}
	return name
}
