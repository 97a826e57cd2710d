// Command fpeval evaluates expressions with fparser.
//
//	fpeval -job job.yaml [-disasm] [-debug]
//	fpeval -vars x,y -values 1,2        (reads expressions from stdin, one per line)
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lunfardo314/fparser"
	"github.com/lunfardo314/fparser/batch"
	"github.com/lunfardo314/fparser/engine"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

const prompt = ">>> "

func main() {
	jobFile := flag.String("job", "", "job file (.yaml or .toml)")
	disasm := flag.Bool("disasm", false, "print bytecode of compiled functions")
	debug := flag.Bool("debug", false, "debug logging")
	varsFlag := flag.String("vars", "", "comma-separated variable names for expressions read from stdin")
	valuesFlag := flag.String("values", "", "comma-separated variable values for expressions read from stdin")
	flag.Parse()

	log := newLogger(*debug)
	defer func() { _ = log.Sync() }()

	var err error
	if *jobFile != "" {
		err = runJob(log, *jobFile, *disasm, os.Stdout)
	} else {
		err = runLines(log, *varsFlag, *valuesFlag, *disasm, os.Stdin, os.Stdout)
	}
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func newLogger(debug bool) *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debug {
		cfg.Level.SetLevel(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = true
	log, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return log.Sugar()
}

func runJob(log *zap.SugaredLogger, fname string, disasm bool, out io.Writer) error {
	j, err := readJob(fname)
	if err != nil {
		return err
	}
	log.Infof("job %s: %d functions, %d samples, %d derivatives", fname, len(j.Functions), len(j.Samples), len(j.Derivatives))

	r, err := fparser.New(len(j.Functions), fparser.WithLogger(log))
	if err != nil {
		return err
	}
	defer r.Close()

	if err = r.ParseAll(j.Functions, j.Variables); err != nil {
		return err
	}
	for id := 1; id <= r.Len(); id++ {
		prog, _ := r.Program(id)
		fmt.Fprintf(out, "f%d = %s\n", id, prog.Source)
		if disasm {
			fmt.Fprint(out, engine.Disassemble(prog))
		}
		results, stats := batch.Evaluate(prog, j.Samples, j.Workers)
		for _, res := range results {
			fmt.Fprintf(out, "  f%d(%s) = %s\n", id, formatValues(j.Samples[res.Index]), formatResult(res.Value, res.Err))
		}
		if stats.DomainErrors > 0 || stats.Failed > 0 {
			log.Warnf("f%d: %d of %d samples failed with domain errors, %d with fatal errors",
				id, stats.DomainErrors, stats.Evaluated, stats.Failed)
		}
	}
	for _, d := range j.Derivatives {
		k := j.variableIndex(d.Variable)
		for _, s := range j.Samples {
			deriv, errEst, err := r.Differentiate(d.Function, k, s, d.Step)
			fmt.Fprintf(out, "  d f%d/d %s (%s) = %s", d.Function, d.Variable, formatValues(s), formatResult(deriv, err))
			if err == nil {
				fmt.Fprintf(out, " +/- %.3g", errEst)
			}
			fmt.Fprintln(out)
		}
	}
	return nil
}

// runLines evaluates one expression per input line with fixed variables
func runLines(log *zap.SugaredLogger, varsStr, valuesStr string, disasm bool, in *os.File, out io.Writer) error {
	vars := splitList(varsStr)
	values, err := parseValues(valuesStr)
	if err != nil {
		return err
	}
	if len(values) != len(vars) {
		return fmt.Errorf("%d variables but %d values", len(vars), len(values))
	}
	interactive := term.IsTerminal(int(in.Fd()))
	r, err := fparser.New(1, fparser.WithLogger(log))
	if err != nil {
		return err
	}
	defer r.Close()

	sc := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprint(out, prompt)
		}
		if !sc.Scan() {
			break
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if err = r.Parse(1, line, vars); err != nil {
			fmt.Fprintf(out, "%v\n", err)
			continue
		}
		if disasm {
			prog, _ := r.Program(1)
			fmt.Fprint(out, engine.Disassemble(prog))
		}
		res, err := r.Evaluate(1, values)
		fmt.Fprintln(out, formatResult(res, err))
	}
	return sc.Err()
}

func formatResult(v float64, err error) string {
	if err != nil {
		if engine.IsDomainError(err) {
			return "error: " + fparser.ErrorMessage(engine.Signal(err))
		}
		return "fatal: " + err.Error()
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatValues(v []float64) string {
	s := make([]string, len(v))
	for i := range v {
		s[i] = strconv.FormatFloat(v[i], 'g', -1, 64)
	}
	return strings.Join(s, ", ")
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	ret := strings.Split(s, ",")
	for i := range ret {
		ret[i] = strings.TrimSpace(ret[i])
	}
	return ret
}

func parseValues(s string) ([]float64, error) {
	lst := splitList(s)
	ret := make([]float64, len(lst))
	for i, v := range lst {
		var err error
		if ret[i], err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("wrong value '%s': %w", v, err)
		}
	}
	return ret, nil
}
