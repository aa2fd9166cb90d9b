package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/agbru/bigcalc/internal/bigint"
	"github.com/agbru/bigcalc/internal/calc"
	"github.com/agbru/bigcalc/internal/format"
	"github.com/agbru/bigcalc/internal/progress"
	"github.com/agbru/bigcalc/internal/ui"
)

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// DefaultAlgo is the strategy selected at start. "all" or an empty
	// string selects the first registered strategy.
	DefaultAlgo string
	// Timeout bounds each evaluation.
	Timeout time.Duration
}

// REPL is an interactive calculator session. The previous result is
// available as the operand "ans".
type REPL struct {
	config      REPLConfig
	factory     calc.CalculatorFactory
	currentAlgo string
	last        bigint.BigInt
	hasLast     bool
	in          io.Reader
	out         io.Writer
}

// NewREPL creates a REPL reading from stdin and writing to stdout.
func NewREPL(factory calc.CalculatorFactory, config REPLConfig) *REPL {
	currentAlgo := config.DefaultAlgo
	if names := factory.List(); (currentAlgo == "" || currentAlgo == "all") && len(names) > 0 {
		currentAlgo = names[0]
		if slices.Contains(names, "adaptive") {
			currentAlgo = "adaptive"
		}
	}
	return &REPL{
		config:      config,
		factory:     factory,
		currentAlgo: currentAlgo,
		in:          os.Stdin,
		out:         os.Stdout,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) { r.in = in }

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) { r.out = out }

// Start runs the session until "exit" or EOF.
func (r *REPL) Start() {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)
	for {
		fmt.Fprint(r.out, ui.ColorGreen()+"big> "+ui.ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			continue
		}
		eof := err != nil

		if input = strings.TrimSpace(input); input != "" && !r.processCommand(input) {
			return
		}
		if eof {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════════════════╗%s\n", ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s║%s     %s🔢 Big Integer Calculator - Interactive Mode%s         %s║%s\n",
		ui.ColorCyan(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════════════════╝%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %s<a> <op> <b>%s        - Evaluate with the current strategy (+ - * / %% <=>)\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %s<a> ^ <e> mod <m>%s   - Modular exponentiation\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %scalc <expr>%s         - Same as a bare expression\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %scompare <expr>%s      - Evaluate with every strategy\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %salgo <name>%s         - Change strategy (%s)\n", ui.ColorYellow(), ui.ColorReset(), r.algoList())
	fmt.Fprintf(r.out, "  %slist%s                - List strategies\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sstatus%s              - Display current configuration\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %shelp%s                - Display this help\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sexit%s / %squit%s         - Exit interactive mode\n", ui.ColorYellow(), ui.ColorReset(), ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Use %sans%s to refer to the previous result.\n", ui.ColorYellow(), ui.ColorReset())
}

func (r *REPL) algoList() string {
	return strings.Join(r.factory.List(), ", ")
}

// processCommand executes one input line. It returns false on exit.
func (r *REPL) processCommand(input string) bool {
	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "calc", "c":
		if len(args) == 0 {
			fmt.Fprintf(r.out, "%sUsage: calc <a> <op> <b>%s\n", ui.ColorRed(), ui.ColorReset())
			return true
		}
		r.evaluate(strings.Join(args, " "))
	case "algo", "a":
		r.cmdAlgo(args)
	case "compare":
		r.cmdCompare(strings.Join(args, " "))
	case "list", "ls":
		r.cmdList()
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	default:
		if len(parts) >= 3 {
			r.evaluate(input)
			return true
		}
		fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ui.ColorRed(), cmd, ui.ColorReset())
		fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorYellow(), ui.ColorReset())
	}
	return true
}

// parse substitutes "ans" and parses the expression.
func (r *REPL) parse(line string) (calc.Request, error) {
	fields := strings.Fields(line)
	for i, f := range fields {
		if strings.EqualFold(f, "ans") {
			if !r.hasLast {
				return calc.Request{}, errors.New("no previous result for ans")
			}
			fields[i] = r.last.String()
		}
	}
	return calc.ParseExpression(strings.Join(fields, " "))
}

func (r *REPL) run(c calc.Calculator, req calc.Request, withProgress bool) (bigint.BigInt, time.Duration, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()

	progressChan := make(chan progress.ProgressUpdate, 10)
	var wg sync.WaitGroup
	wg.Add(1)
	if withProgress {
		go DisplayProgress(&wg, progressChan, 1, r.out)
	} else {
		go DisplayProgress(&wg, progressChan, 0, io.Discard)
	}

	start := time.Now()
	result, err := c.Calculate(ctx, progressChan, 0, req)
	duration := time.Since(start)
	close(progressChan)
	wg.Wait()
	return result, duration, err
}

func (r *REPL) evaluate(line string) {
	req, err := r.parse(line)
	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	c, err := r.factory.Get(r.currentAlgo)
	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}

	result, duration, err := r.run(c, req, req.Op.UsesMultiplier())
	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	r.last, r.hasLast = result, true

	fmt.Fprintf(r.out, "\n%sResult:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Time:   %s%s%s\n", ui.ColorGreen(), format.FormatExecutionDuration(duration), ui.ColorReset())
	fmt.Fprintf(r.out, "  Digits: %s%d%s\n", ui.ColorCyan(), result.DigitCount(), ui.ColorReset())
	if req.Op == calc.OpCmp {
		fmt.Fprintf(r.out, "  %s (%s)\n", FormatComparison(result), result)
	} else {
		shown, truncated := FormatTruncated(result.String())
		suffix := ""
		if truncated {
			suffix = " (truncated)"
		}
		fmt.Fprintf(r.out, "  ans = %s%s%s%s\n", ui.ColorGreen(), shown, ui.ColorReset(), suffix)
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdAlgo(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: algo <name>%s\n", ui.ColorRed(), ui.ColorReset())
		fmt.Fprintf(r.out, "Available strategies: %s\n", r.algoList())
		return
	}
	name := strings.ToLower(args[0])
	if _, err := r.factory.Get(name); err != nil {
		fmt.Fprintf(r.out, "%sUnknown strategy: %s%s\n", ui.ColorRed(), name, ui.ColorReset())
		fmt.Fprintf(r.out, "Available strategies: %s\n", r.algoList())
		return
	}
	r.currentAlgo = name
	fmt.Fprintf(r.out, "Strategy changed to: %s%s%s\n", ui.ColorGreen(), name, ui.ColorReset())
}

func (r *REPL) cmdCompare(line string) {
	req, err := r.parse(line)
	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}

	fmt.Fprintf(r.out, "\n%sComparison for %s:%s\n", ui.ColorBold(), opLabel(req), ui.ColorReset())
	fmt.Fprintf(r.out, "%s─────────────────────────────────────────────%s\n", ui.ColorCyan(), ui.ColorReset())

	var reference *bigint.BigInt
	for _, name := range r.factory.List() {
		c, err := r.factory.Get(name)
		if err != nil {
			continue
		}
		result, duration, err := r.run(c, req, false)
		if err != nil {
			fmt.Fprintf(r.out, "  %s%-12s%s: %sError - %v%s\n",
				ui.ColorYellow(), name, ui.ColorReset(), ui.ColorRed(), err, ui.ColorReset())
			continue
		}
		status := ui.ColorGreen() + "✓" + ui.ColorReset()
		if reference == nil {
			reference = &result
		} else if !result.Equal(*reference) {
			status = ui.ColorRed() + "✗ INCONSISTENT" + ui.ColorReset()
		}
		fmt.Fprintf(r.out, "  %s%-12s%s: %s%12s%s %s\n",
			ui.ColorYellow(), name, ui.ColorReset(),
			ui.ColorCyan(), format.FormatExecutionDuration(duration), ui.ColorReset(),
			status)
	}
	if reference != nil {
		r.last, r.hasLast = *reference, true
	}
	fmt.Fprintf(r.out, "%s─────────────────────────────────────────────%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

func (r *REPL) cmdList() {
	fmt.Fprintf(r.out, "\n%sAvailable strategies:%s\n", ui.ColorBold(), ui.ColorReset())
	for _, name := range r.factory.List() {
		marker := "  "
		if name == r.currentAlgo {
			marker = ui.ColorGreen() + "► " + ui.ColorReset()
		}
		fmt.Fprintf(r.out, "%s%s%s%s\n", marker, ui.ColorYellow(), name, ui.ColorReset())
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdStatus() {
	fmt.Fprintf(r.out, "\n%sCurrent configuration:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Strategy: %s%s%s\n", ui.ColorCyan(), r.currentAlgo, ui.ColorReset())
	fmt.Fprintf(r.out, "  Timeout:  %s%s%s\n", ui.ColorCyan(), r.config.Timeout, ui.ColorReset())
	ans := "none"
	if r.hasLast {
		ans = fmt.Sprintf("%d digits", r.last.DigitCount())
	}
	fmt.Fprintf(r.out, "  ans:      %s%s%s\n", ui.ColorCyan(), ans, ui.ColorReset())
	fmt.Fprintln(r.out)
}
