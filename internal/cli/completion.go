package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes a flag for shell completion. Every generator
// reads flagRegistry, so a new flag only needs an entry there.
type FlagCompletion struct {
	Long      string   // long name without "--"
	Short     string   // short name without "-"
	Help      string   // description
	Values    []string // suggested values; nil for booleans or free values
	ValueName string   // value label; empty for booleans
	IsFile    bool     // value is a path
	IsAlgo    bool     // value is a strategy name
}

var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Help: "Show version information"},
	{Long: "op", Help: "Operation to perform", Values: []string{"add", "sub", "mul", "div", "mod", "modexp", "cmp"}, ValueName: "operation"},
	{Long: "a", Help: "First operand or @file", ValueName: "integer"},
	{Long: "b", Help: "Second operand or exponent", ValueName: "integer"},
	{Long: "m", Help: "Modulus for modexp", ValueName: "integer"},
	{Long: "algo", Help: "Multiplication strategy", IsAlgo: true, ValueName: "strategy"},
	{Long: "timeout", Help: "Maximum execution time", Values: []string{"10s", "1m", "5m", "30m"}, ValueName: "duration"},
	{Long: "karatsuba-threshold", Help: "Karatsuba crossover in limbs", Values: []string{"8", "10", "16", "32"}, ValueName: "limbs"},
	{Long: "fft-threshold", Help: "FFT crossover in limbs", Values: []string{"1000", "2000", "4000"}, ValueName: "limbs"},
	{Long: "verbose", Short: "v", Help: "Print the full value"},
	{Long: "details", Short: "d", Help: "Show size details"},
	{Long: "quiet", Short: "q", Help: "Print the bare value only"},
	{Long: "show-value", Help: "Print the computed value"},
	{Long: "no-color", Help: "Disable colored output"},
	{Long: "output", Short: "o", Help: "Write the result to a file", IsFile: true, ValueName: "file"},
	{Long: "repl", Help: "Start interactive mode"},
	{Long: "tui", Help: "Start the terminal dashboard"},
	{Long: "serve", Help: "Start the HTTP server"},
	{Long: "addr", Help: "Server listen address", Values: []string{":8080"}, ValueName: "address"},
	{Long: "cache-size", Help: "Server result cache entries", ValueName: "entries"},
	{Long: "max-digits", Help: "Largest operand accepted by the server", ValueName: "digits"},
	{Long: "calibrate", Help: "Measure strategy crossovers"},
	{Long: "auto-calibrate", Help: "Quick calibration at startup"},
	{Long: "calibration-profile", Help: "Calibration profile file", IsFile: true, ValueName: "file"},
	{Long: "memory-limit", Help: "Refuse calculations above this estimate", Values: []string{"512M", "1G", "4G"}, ValueName: "size"},
	{Long: "gc", Help: "Garbage collector mode", Values: []string{"auto", "aggressive", "disabled"}, ValueName: "mode"},
	{Long: "config", Help: "TOML configuration file", IsFile: true, ValueName: "file"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish", "powershell"}, ValueName: "shell"},
}

// GenerateCompletion writes a completion script for shell.
func GenerateCompletion(out io.Writer, shell string, algorithms []string) error {
	var script string
	switch shell {
	case "bash":
		script = bashCompletion(algorithms)
	case "zsh":
		script = zshCompletion(algorithms)
	case "fish":
		script = fishCompletion(algorithms)
	case "powershell", "ps":
		script = powerShellCompletion(algorithms)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish, powershell)", shell)
	}
	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion %s generation failed: %w", shell, err)
	}
	return nil
}

func algoWords(algorithms []string) string {
	return strings.Join(append(append([]string(nil), algorithms...), "all"), " ")
}

func bashCompletion(algorithms []string) string {
	var opts []string
	var cases strings.Builder
	var filePatterns []string
	for _, f := range flagRegistry {
		if f.Long != "" {
			opts = append(opts, "--"+f.Long)
		}
		if f.Short != "" {
			opts = append(opts, "-"+f.Short)
		}
		switch {
		case f.IsFile:
			filePatterns = append(filePatterns, "--"+f.Long)
			if f.Short != "" {
				filePatterns = append(filePatterns, "-"+f.Short)
			}
		case f.IsAlgo:
			fmt.Fprintf(&cases, "        --%s)\n            COMPREPLY=( $(compgen -W \"${algorithms}\" -- \"${cur}\") )\n            return 0\n            ;;\n", f.Long)
		case len(f.Values) > 0:
			fmt.Fprintf(&cases, "        --%s)\n            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n            return 0\n            ;;\n", f.Long, strings.Join(f.Values, " "))
		}
	}
	if len(filePatterns) > 0 {
		fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -f -- \"${cur}\") )\n            return 0\n            ;;\n", strings.Join(filePatterns, "|"))
	}

	return fmt.Sprintf(`# Bash completion script for bigcalc
# Add this to your ~/.bashrc or ~/.bash_completion

_bigcalc_completions() {
    local cur prev opts algorithms
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    opts="%s"
    algorithms="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _bigcalc_completions bigcalc
`, strings.Join(opts, " "), algoWords(algorithms), cases.String())
}

func zshArgEntry(f FlagCompletion) string {
	valueSuffix := ""
	switch {
	case f.IsFile:
		valueSuffix = fmt.Sprintf(":%s:_files", f.ValueName)
	case f.IsAlgo:
		valueSuffix = fmt.Sprintf(":%s:($algorithms)", f.ValueName)
	case len(f.Values) > 0:
		valueSuffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	case f.ValueName != "":
		valueSuffix = fmt.Sprintf(":%s:", f.ValueName)
	}
	if f.Short != "" {
		return fmt.Sprintf("        '(-%s --%s)'{-%s,--%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, f.Help, valueSuffix)
	}
	return fmt.Sprintf("        '--%s[%s]%s'", f.Long, f.Help, valueSuffix)
}

func zshCompletion(algorithms []string) string {
	args := make([]string, 0, len(flagRegistry))
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f))
	}
	return fmt.Sprintf(`#compdef bigcalc

# Zsh completion script for bigcalc
# Add this to your ~/.zshrc or place in $fpath

_bigcalc() {
    local -a algorithms
    algorithms=(%s)

    _arguments -s \
%s
}

_bigcalc "$@"
`, algoWords(algorithms), strings.Join(args, " \\\n"))
}

func fishCompleteLine(f FlagCompletion, algos string) string {
	parts := []string{"complete -c bigcalc"}
	if f.Short != "" {
		parts = append(parts, "-s "+f.Short)
	}
	parts = append(parts, "-l "+f.Long, fmt.Sprintf("-d '%s'", f.Help))
	switch {
	case f.IsFile:
		parts = append(parts, "-rF")
	case f.IsAlgo:
		parts = append(parts, fmt.Sprintf("-xa '%s'", algos))
	case len(f.Values) > 0:
		parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
	case f.ValueName != "":
		parts = append(parts, "-x")
	}
	return strings.Join(parts, " ")
}

func fishCompletion(algorithms []string) string {
	lines := []string{
		"# Fish completion script for bigcalc",
		"# Add this to ~/.config/fish/completions/bigcalc.fish",
		"",
		"complete -c bigcalc -f",
	}
	algos := algoWords(algorithms)
	for _, f := range flagRegistry {
		lines = append(lines, fishCompleteLine(f, algos))
	}
	return strings.Join(lines, "\n") + "\n"
}

func powerShellCompletion(algorithms []string) string {
	var options, switches []string
	for _, f := range flagRegistry {
		if f.Short != "" {
			options = append(options, fmt.Sprintf("        @{Name = '-%s'; Description = '%s' }", f.Short, f.Help))
		}
		options = append(options, fmt.Sprintf("        @{Name = '--%s'; Description = '%s' }", f.Long, f.Help))

		source := ""
		switch {
		case f.IsAlgo:
			source = "$bigcalcAlgorithms"
		case len(f.Values) > 0 && !f.IsFile:
			quoted := make([]string, len(f.Values))
			for i, v := range f.Values {
				quoted[i] = "'" + v + "'"
			}
			source = "@(" + strings.Join(quoted, ", ") + ")"
		default:
			continue
		}
		switches = append(switches, fmt.Sprintf(`        '--%s' {
            %s | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }`, f.Long, source))
	}

	quotedAlgos := make([]string, 0, len(algorithms)+1)
	for _, a := range append(append([]string(nil), algorithms...), "all") {
		quotedAlgos = append(quotedAlgos, "'"+a+"'")
	}

	return fmt.Sprintf(`# PowerShell completion script for bigcalc
# Add this to your $PROFILE

$bigcalcAlgorithms = @(%s)

Register-ArgumentCompleter -CommandName 'bigcalc' -Native -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)

    $options = @(
%s
    )

    $elements = $commandAst.CommandElements
    $prevElement = if ($elements.Count -gt 2) { $elements[-2].ToString() } else { '' }

    switch ($prevElement) {
%s
    }

    $options | Where-Object { $_.Name -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'ParameterName', $_.Description)
    }
}
`, strings.Join(quotedAlgos, ", "), strings.Join(options, "\n"), strings.Join(switches, "\n"))
}
