// Command pptx2html converts .pptx files into self-contained HTML documents.
//
//	pptx2html deck.pptx                     writes deck.html
//	pptx2html --embed -o out decks/         converts every *.pptx under decks/
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/VantageDataChat/pptxhtml"
	"github.com/VantageDataChat/pptxhtml/internal/config"
	"github.com/VantageDataChat/pptxhtml/internal/logger"
	"github.com/VantageDataChat/pptxhtml/internal/outline"
	"github.com/gobwas/glob"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type options struct {
	output        string
	configPath    string
	logLevel      string
	profile       string
	direction     string
	lang          string
	title         string
	maxImage      int
	workers       int
	embed         bool
	embedURL      string
	allowedOrigin string
	outline       bool
	pattern       string
}

func main() {
	if err := newRootCmd(os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:   "pptx2html [flags] <input.pptx|dir>...",
		Short: "Convert PowerPoint decks to standalone HTML",
		Long: `Convert .pptx files into self-contained HTML documents with navigation,
themes and reveal animations. Directories are searched recursively for
files whose name matches --pattern.`,
		Version:       pptxhtml.Version,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.loadConfig(cmd)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return err
			}
			logger.Init(cfg.Logger.Level, logOut)
			log := logger.New("pptx2html")
			if err := o.run(cfg, log, args); err != nil {
				log.WithError(err).Error("conversion failed")
				return err
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.output, "output", "o", "", "output file (single input) or directory")
	f.StringVar(&o.configPath, "config", "", "YAML config file")
	f.StringVar(&o.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	f.StringVar(&o.profile, "profile", string(pptxhtml.ProfileRich), "document profile: rich or simple")
	f.StringVar(&o.direction, "direction", string(pptxhtml.DirectionAuto), "writing direction: auto, ltr or rtl")
	f.StringVar(&o.lang, "lang", "en", "document language tag")
	f.StringVar(&o.title, "title", "", "document title (default: the deck title)")
	f.IntVar(&o.maxImage, "max-image", 0, "downscale images larger than this many pixels (0 keeps them)")
	f.IntVar(&o.workers, "workers", 0, "slides rendered concurrently")
	f.BoolVar(&o.embed, "embed", false, "also write the embeddable document and its host snippet")
	f.StringVar(&o.embedURL, "embed-url", "", "iframe src used by the snippet (default: the embed file name)")
	f.StringVar(&o.allowedOrigin, "allowed-origin", "", "origin allowed to frame the embed, scheme://host[:port]")
	f.BoolVar(&o.outline, "outline", false, "also write a Markdown outline")
	f.StringVar(&o.pattern, "pattern", "*.pptx", "file name glob used when an input is a directory")
	return cmd
}

// loadConfig layers the config file over the defaults and explicitly set
// flags over both.
func (o *options) loadConfig(cmd *cobra.Command) (*config.AppConfig, error) {
	cfg := config.Default()
	if o.configPath != "" {
		loaded, err := config.LoadConfig(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	set := cmd.Flags().Changed
	if set("log-level") {
		cfg.Logger.Level = o.logLevel
	}
	if set("profile") {
		cfg.Render.Profile = o.profile
	}
	if set("direction") {
		cfg.Render.Direction = o.direction
	}
	if set("lang") {
		cfg.Render.Language = o.lang
	}
	if set("title") {
		cfg.Render.Title = o.title
	}
	if set("max-image") {
		cfg.Render.MaxImageDimension = o.maxImage
	}
	if set("workers") {
		cfg.Render.Workers = o.workers
	}
	if set("allowed-origin") {
		cfg.Embed.AllowedOrigin = o.allowedOrigin
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return cfg, nil
}

func (o *options) run(cfg *config.AppConfig, log *logrus.Entry, args []string) error {
	pattern, err := glob.Compile(o.pattern)
	if err != nil {
		return fmt.Errorf("invalid --pattern %q: %w", o.pattern, err)
	}
	inputs, err := collectInputs(args, pattern)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no input matches %q", o.pattern)
	}

	multi := len(inputs) > 1 || isDir(args[0])
	if multi && o.output != "" {
		if err := os.MkdirAll(o.output, 0o750); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	var errs []error
	for _, in := range inputs {
		base := outputBase(in, o.output, multi)
		if err := o.convert(cfg, log.WithField("input", in), in, base); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", in, err))
		}
	}
	return errors.Join(errs...)
}

// convert writes base.html and, when requested, the embed and outline files.
func (o *options) convert(cfg *config.AppConfig, log *logrus.Entry, input, base string) error {
	p, err := pptxhtml.Open(input)
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		log.WithError(err).Warn("presentation has structural problems")
	}

	res, err := pptxhtml.Render(p, cfg.RenderOptions(log))
	if err != nil {
		return err
	}
	if err := writeFile(base+".html", res.HTML); err != nil {
		return err
	}
	written := []string{base + ".html"}

	if o.embed {
		embedPath := base + "-embed.html"
		url := o.embedURL
		if url == "" {
			url = filepath.Base(embedPath)
		}
		embedOpts := cfg.EmbedOptions(url)
		embedOpts.Title = res.Title
		emb, err := res.Embed(embedOpts)
		if err != nil {
			return err
		}
		if err := writeFile(embedPath, emb.HTML); err != nil {
			return err
		}
		if err := writeFile(base+"-embed.snippet.html", emb.Snippet); err != nil {
			return err
		}
		written = append(written, embedPath, base+"-embed.snippet.html")
	}

	if o.outline {
		md, err := outline.Markdown(res, res.Title)
		if err != nil {
			return err
		}
		if err := writeFile(base+".md", md); err != nil {
			return err
		}
		written = append(written, base+".md")
	}

	log.WithFields(logrus.Fields{
		"slides":   res.SlideCount,
		"failures": len(res.Failures),
		"output":   strings.Join(written, ","),
	}).Info("converted")
	return nil
}

// collectInputs expands directories into the files below them whose name
// matches pattern. File arguments are taken as given.
func collectInputs(args []string, pattern glob.Glob) ([]string, error) {
	var inputs []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			inputs = append(inputs, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && pattern.Match(d.Name()) {
				inputs = append(inputs, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", arg, err)
		}
	}
	return inputs, nil
}

// outputBase returns the output path without extension. A single input
// honours -o as a file name; several inputs go into -o as a directory.
func outputBase(input, output string, multi bool) string {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	switch {
	case output == "":
		return filepath.Join(filepath.Dir(input), stem)
	case multi:
		return filepath.Join(output, stem)
	default:
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
