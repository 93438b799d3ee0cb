package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/example/snapmark/internal/config"
	"github.com/example/snapmark/internal/notify"
	"github.com/example/snapmark/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs          *flag.FlagSet
	program     string
	notifier    *notify.Notifier
	config      *config.Config
	loader      *config.Loader
	saveAlerts  bool
	copyAlerts  bool
	themeName   string
	activeTheme *theme.Theme
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("snapmark", flag.ExitOnError),
		program:  "snapmark",
		notifier: notify.New("snapmark"),
		config:   cfg,
		loader:   loader,
	}
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	// Precedence: flag, $SNAPMARK_THEME, config file, built-in default.
	r.fs.StringVar(&r.themeName, "theme", "", "window theme ("+strings.Join(theme.Names(), ", ")+" or a [theme.NAME] section)")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	}

	themeName := r.themeName
	if themeName == "" {
		themeName = os.Getenv("SNAPMARK_THEME")
	}
	t, err := r.config.ResolveTheme(themeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v, using default\n", err)
	}
	r.activeTheme = t

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var cmd runnable
	switch cmdName {
	case "annotate":
		cmd, err = parseAnnotateCmd(subArgs, r)
	case "draw":
		cmd, err = parseDrawCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{root: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (r *root) notifySave(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Save(path)
}

func (r *root) notifyCopy(detail string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Copy(detail)
}

// settings returns the loaded config, falling back to defaults for a
// zero root.
func (r *root) settings() *config.Config {
	if r == nil || r.config == nil {
		return config.New()
	}
	return r.config
}
