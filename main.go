// semchunk splits source files into review-ready semantic chunks.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"github.com/phobologic/semchunk/internal/discover"
	"github.com/phobologic/semchunk/internal/engine"
	"github.com/phobologic/semchunk/internal/lang"
	"github.com/phobologic/semchunk/internal/model"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("semchunk", flag.ContinueOnError)
	fs.SetOutput(stderr)

	cfg := model.DefaultConfig()

	var (
		intent        string
		langs         string
		maxFiles      int
		maxFileSize   int
		noConsolidate bool
		asJSON        bool
		showVersion   bool
	)

	fs.StringVar(&intent, "intent", string(model.IntentQuickFixes), "review intent (quick-fixes, architectural, security, performance, unused-code)")
	fs.StringVar(&langs, "l", "", "comma-separated languages to include")
	fs.StringVar(&langs, "langs", "", "comma-separated languages to include")
	fs.IntVar(&maxFiles, "n", 0, "maximum number of files to include")
	fs.IntVar(&maxFiles, "max-files", 0, "maximum number of files to include")
	fs.IntVar(&maxFileSize, "max-file-size", cfg.MaxFileBytes, "skip files larger than this many bytes")
	fs.BoolVar(&noConsolidate, "no-consolidate", false, "emit per-declaration chunks without batching")
	fs.BoolVar(&asJSON, "json", false, "print full chunk JSON instead of a summary")
	fs.BoolVar(&showVersion, "V", false, "show version and exit")
	fs.BoolVar(&showVersion, "version", false, "show version and exit")

	if err := fs.Parse(reorderArgs(args)); err != nil {
		return err
	}

	if showVersion {
		_, _ = fmt.Fprintf(stdout, "semchunk %s\n", version)
		return nil
	}

	cfg.MaxFileBytes = maxFileSize
	cfg.Consolidate = !noConsolidate

	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", root)
	}

	var langFilter []string
	if langs != "" {
		for _, name := range strings.Split(langs, ",") {
			name = strings.TrimSpace(name)
			if lang.Get(name) == nil {
				return fmt.Errorf("unsupported language %q", name)
			}
			langFilter = append(langFilter, name)
		}
	}

	files, err := discover.Files(root, discover.Options{
		Languages: langFilter,
		MaxBytes:  int64(maxFileSize),
		MaxFiles:  maxFiles,
	})
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no chunkable files found")
	}

	inputs, err := loadFiles(root, files)
	if err != nil {
		return err
	}

	res, err := engine.New(cfg).Chunk(context.Background(), engine.Request{
		Files:  inputs,
		Intent: model.ReviewIntent(intent),
	})
	if err != nil {
		return err
	}

	warn := color.New(color.FgYellow)
	for _, msg := range res.Errors {
		_, _ = warn.Fprintf(stderr, "Warning: %s\n", msg)
	}

	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Chunks)
	}
	printSummary(stdout, res)
	return nil
}

// loadFiles reads every discovered file concurrently, preserving the
// discovery order in the returned slice.
func loadFiles(root string, files []discover.FileEntry) ([]model.FileInput, error) {
	inputs := make([]model.FileInput, len(files))

	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			data, err := os.ReadFile(filepath.Join(root, f.Path))
			if err != nil {
				return fmt.Errorf("reading %s: %w", f.Path, err)
			}
			inputs[i] = model.FileInput{Path: f.Path, Content: string(data), Language: f.Language}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return inputs, nil
}

func printSummary(stdout io.Writer, res *model.ChunkingResult) {
	_, _ = fmt.Fprintf(stdout, "method: %s", res.Method)
	if res.FallbackUsed {
		_, _ = fmt.Fprint(stdout, " (fallback used)")
	}
	_, _ = fmt.Fprintln(stdout)
	_, _ = fmt.Fprintf(stdout, "files: %d  chunks: %d  tokens: %d  elapsed: %s\n",
		res.Metrics.FileCount, res.Metrics.ChunkCount, res.Metrics.TotalTokens, res.Metrics.Duration.Round(0))

	for _, c := range res.Chunks {
		_, _ = fmt.Fprintf(stdout, "  %-10s %-12s %s:%d-%d  priority=%s tokens=%d\n",
			c.ID, c.Type, c.Path, c.StartLine, c.EndLine, c.Priority, c.EstimatedTokens)
	}
}

// flagsWithValue lists flags that take a value argument.
var flagsWithValue = map[string]bool{
	"-intent": true, "--intent": true,
	"-n": true, "--n": true,
	"-max-files": true, "--max-files": true,
	"-l": true, "--l": true,
	"-langs": true, "--langs": true,
	"-max-file-size": true, "--max-file-size": true,
}

// reorderArgs moves positional arguments after all flags so Go's flag package
// can parse them correctly (it stops at the first non-flag arg).
func reorderArgs(args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if len(args[i]) > 0 && args[i][0] == '-' {
			flags = append(flags, args[i])
			if flagsWithValue[args[i]] && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		} else {
			positional = append(positional, args[i])
		}
	}
	return append(flags, positional...)
}
