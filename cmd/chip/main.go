package main

import (
	"bufio"
	"fmt"
	"os"
	"regexp"

	"github.com/mattn/go-isatty"

	"github.com/chiplang/chip/internal/config"
	"github.com/chiplang/chip/internal/evaluator"
	"github.com/chiplang/chip/internal/parser"
	"github.com/chiplang/chip/internal/value"
)

const usage = `chip - expression evaluator

Usage:
  chip              start a REPL (reads expressions from stdin)
  chip -e <expr>    evaluate one expression and print the result

Configuration is read from chip.yaml in the working directory when
present (prelude variables, evaluation depth cap).
`

// name = expr, where the '=' is not part of '=='
var assignRe = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z_0-9]*)\s*=([^=].*)$`)

func main() {
	cfg, err := config.Load(config.FileName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chip: %v\n", err)
		os.Exit(1)
	}

	ev := evaluator.New(parser.Parse)
	ev.MaxDepth = cfg.MaxEvalDepth
	state := evaluator.NewState(ev)
	if err := seedPrelude(state, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "chip: %v\n", err)
		os.Exit(1)
	}

	args := os.Args[1:]
	switch {
	case len(args) == 0:
		runREPL(ev, state)
	case args[0] == "-e" && len(args) == 2:
		if err := runOnce(ev, state, args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "chip: %v\n", err)
			os.Exit(1)
		}
	case args[0] == "-h" || args[0] == "--help":
		fmt.Print(usage)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func runOnce(ev *evaluator.Evaluator, state *evaluator.State, src string) error {
	expr, err := parser.Parse(src)
	if err != nil {
		return err
	}
	result, err := ev.Evaluate(expr, state)
	if err != nil {
		return err
	}
	fmt.Println(result.Inspect())
	return nil
}

func runREPL(ev *evaluator.Evaluator, state *evaluator.State) {
	interactive := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Print(">> ")
		}
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == "" {
			continue
		}

		// Host-side convenience: `name = expr` mutates the state. The
		// engine itself only evaluates expressions.
		if m := assignRe.FindStringSubmatch(line); m != nil {
			expr, err := parser.Parse(m[2])
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			result, err := ev.Evaluate(expr, state)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			state.Insert(m[1], result)
			continue
		}

		if err := runOnce(ev, state, line); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
}

func seedPrelude(state *evaluator.State, cfg *config.Config) error {
	for name, raw := range cfg.Prelude {
		switch v := raw.(type) {
		case int:
			state.Insert(name, &value.Int{Value: int64(v)})
		case int64:
			state.Insert(name, &value.Int{Value: v})
		case bool:
			state.Insert(name, value.NativeBool(v))
		case string:
			state.Insert(name, &value.Str{Value: v})
		default:
			return fmt.Errorf("prelude.%s: unsupported value %v", name, raw)
		}
	}
	return nil
}
