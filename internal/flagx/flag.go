// Package flagx lets several flag sets share one os.Args without tripping
// over each other's flags.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// Pick keeps only the named flags from args, in their original order.
// A flag may carry its value inline ("-c=x", "--config=x") or as the next
// argument ("-c x"); the next argument counts as a value unless it starts
// with '-'. Everything else is dropped. The result is never nil.
func Pick(args []string, names ...string) []string {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		name, _, inline := strings.Cut(args[i], "=")
		if !strings.HasPrefix(name, "-") || !want[name] {
			continue
		}
		out = append(out, args[i])
		if inline {
			continue
		}
		if next := i + 1; next < len(args) && !strings.HasPrefix(args[next], "-") {
			out = append(out, args[next])
			i = next
		}
	}
	return out
}

// ConfigFile returns the path passed via -c, -config or --config, or ""
// when none is given. When repeated, the last one wins.
func ConfigFile(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "config file (JSON or YAML)")
	fs.StringVar(&path, "c", "", "config file (shorthand)")
	_ = fs.Parse(Pick(args, "-c", "-config", "--config"))

	return path
}
