package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/randalmurphal/stache/config"
	"github.com/randalmurphal/stache/datafile"
	"github.com/randalmurphal/stache/template"
	"github.com/randalmurphal/stache/watch"
)

// stdinName selects standard input for a template or data file.
const stdinName = "-"

type renderFlags struct {
	data          string
	dataFormat    string
	rules         string
	ignoreMissing bool
	escaper       string
	transforms    []string
	concurrency   int
	output        string
	watch         bool
}

func newRenderCmd(g *globalFlags) *cobra.Command {
	f := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "render TEMPLATE...",
		Short: "Render templates with data",
		Long: `Render one or more template files and print the results in order.

Use "-" to read the template or the data from standard input.
Rules map key paths to validator tags, for example:

  user.email: required,email
  age: omitempty,gte=18`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, g, f, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.data, "data", "d", "", `data file (.json, .yaml, .toml) or "-" for stdin`)
	flags.StringVar(&f.dataFormat, "data-format", "json", "format of data read from stdin")
	flags.StringVarP(&f.rules, "rules", "r", "", "rules file mapping key paths to validator tags")
	flags.BoolVar(&f.ignoreMissing, "ignore-missing", false, "leave placeholders without a value in the output")
	flags.StringVarP(&f.escaper, "escaper", "e", "html", "escaper for {{key}}: html, none, strict")
	flags.StringSliceVarP(&f.transforms, "transform", "t", nil, "transform applied to every value (upper, lower, trim, json, truncate=N, default=TEXT)")
	flags.IntVarP(&f.concurrency, "concurrency", "j", 0, "templates rendered at once (0 = one per CPU)")
	flags.StringVarP(&f.output, "output", "o", "", "write the result to FILE atomically instead of stdout")
	flags.BoolVarP(&f.watch, "watch", "w", false, "re-render when an input file changes")
	return cmd
}

// applyFlags copies explicitly set flags over cfg.
func (f *renderFlags) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.Data = f.data
	}
	if flags.Changed("rules") {
		cfg.RulesFile = f.rules
	}
	if flags.Changed("ignore-missing") {
		cfg.IgnoreMissing = f.ignoreMissing
	}
	if flags.Changed("escaper") {
		cfg.Escaper = f.escaper
	}
	if flags.Changed("transform") {
		cfg.Transforms = f.transforms
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = f.concurrency
	}
}

func runRender(cmd *cobra.Command, g *globalFlags, f *renderFlags, args []string) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	f.applyFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return usagef("%v", err)
	}

	stdinUses := 0
	if cfg.Data == stdinName {
		stdinUses++
	}
	for _, a := range args {
		if a == stdinName {
			stdinUses++
		}
	}
	if stdinUses > 1 {
		return usagef("standard input can be used for only one of the template or the data")
	}
	if f.watch && stdinUses > 0 {
		return usagef("--watch cannot read from standard input")
	}

	r := &renderJob{
		cfg:        cfg,
		templates:  args,
		dataFormat: f.dataFormat,
		output:     f.output,
		in:         cmd.InOrStdin(),
		out:        cmd.OutOrStdout(),
		logger:     g.logger(cmd),
	}

	if !f.watch {
		return r.run(cmd.Context())
	}

	paths := append([]string{}, args...)
	if cfg.Data != "" {
		paths = append(paths, cfg.Data)
	}
	if cfg.RulesFile != "" {
		paths = append(paths, cfg.RulesFile)
	}
	w, err := watch.New(paths,
		watch.WithDebounce(time.Duration(cfg.Debounce)),
		watch.WithLogger(r.logger))
	if err != nil {
		return err
	}
	return w.Run(cmd.Context(), r.run)
}

// renderJob renders a fixed set of templates. Inputs are re-read on every
// run so watch mode sees edits.
type renderJob struct {
	cfg        config.Config
	templates  []string
	dataFormat string
	output     string
	in         io.Reader
	out        io.Writer
	logger     *slog.Logger
}

type source struct {
	name string
	text string
}

func (r *renderJob) run(ctx context.Context) error {
	data, err := r.loadData()
	if err != nil {
		return err
	}

	var fileRules map[string]string
	if r.cfg.RulesFile != "" {
		fileRules, err = datafile.ReadStringMap(r.cfg.RulesFile)
		if err != nil {
			return fmt.Errorf("load rules: %w", err)
		}
	}
	s, err := r.cfg.Schema(fileRules)
	if err != nil {
		return usagef("%v", err)
	}
	opts, err := r.cfg.Options()
	if err != nil {
		return usagef("%v", err)
	}

	sources, err := r.readTemplates()
	if err != nil {
		return err
	}

	engine := template.NewEngine(template.WithLogger(r.logger))
	results := make([]string, len(sources))

	limit := r.cfg.Concurrency
	if limit == 0 {
		limit = runtime.NumCPU()
	}
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(limit)
	for i, src := range sources {
		grp.Go(func() error {
			out, err := engine.Render(gctx, src.text, s, data, opts...)
			if err != nil {
				return fmt.Errorf("%s: %w", src.name, err)
			}
			results[i] = out
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return err
	}

	return r.write(results)
}

// write emits results in template order. With --output the file is
// replaced in one step so readers never see a partial render.
func (r *renderJob) write(results []string) error {
	var buf bytes.Buffer
	for _, res := range results {
		buf.WriteString(res)
	}
	if r.output != "" {
		if err := atomic.WriteFile(r.output, &buf); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		r.logger.Debug("wrote output", slog.String("path", r.output), slog.Int("bytes", buf.Len()))
		return nil
	}
	if _, err := buf.WriteTo(r.out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func (r *renderJob) loadData() (any, error) {
	switch r.cfg.Data {
	case "":
		return map[string]any{}, nil
	case stdinName:
		format, err := datafile.ParseFormat(r.dataFormat)
		if err != nil {
			return nil, usagef("%v", err)
		}
		return datafile.Decode(r.in, format)
	default:
		data, err := datafile.ReadFile(r.cfg.Data)
		if err != nil {
			return nil, fmt.Errorf("load data: %w", err)
		}
		return data, nil
	}
}

func (r *renderJob) readTemplates() ([]source, error) {
	sources := make([]source, 0, len(r.templates))
	for _, name := range r.templates {
		var (
			raw []byte
			err error
		)
		if name == stdinName {
			raw, err = io.ReadAll(r.in)
		} else {
			raw, err = os.ReadFile(name)
		}
		if err != nil {
			return nil, fmt.Errorf("read template: %w", err)
		}
		sources = append(sources, source{name: name, text: string(raw)})
	}
	return sources, nil
}
