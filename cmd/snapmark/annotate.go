package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/example/snapmark/internal/appstate"
	"github.com/example/snapmark/internal/capture"
	"github.com/example/snapmark/internal/ingest"
)

var (
	fromFileFn      = ingest.FromFile
	fromClipboardFn = ingest.FromClipboard
	captureFn       = ingest.FromCapture
	runUI           = (*appstate.AppState).Run
)

// annotateCmd opens the editor window over zero or more images.
type annotateCmd struct {
	output        string
	saveDir       string
	fromClipboard bool
	capture       bool
	interactive   bool
	cursor        bool
	files         []string
	*root
	fs *flag.FlagSet
}

func (a *annotateCmd) FlagSet() *flag.FlagSet { return a.fs }

func (a *annotateCmd) Program() string { return "snapmark annotate" }

func parseAnnotateCmd(args []string, r *root) (*annotateCmd, error) {
	fs := flag.NewFlagSet("annotate", flag.ExitOnError)
	a := &annotateCmd{root: r, fs: fs}
	fs.Usage = usageFunc(a)
	fs.StringVar(&a.output, "output", "", "export path for Ctrl+S (default: timestamped file in save_dir)")
	fs.StringVar(&a.saveDir, "save-dir", "", "directory for timestamped exports (overrides save_dir)")
	fs.BoolVar(&a.fromClipboard, "from-clipboard", false, "start with the clipboard image")
	fs.BoolVar(&a.capture, "capture", false, "start with a screenshot")
	fs.BoolVar(&a.interactive, "interactive", false, "let the desktop portal ask which area to capture")
	fs.BoolVar(&a.cursor, "include-cursor", false, "include the mouse cursor in screenshots")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	a.files = fs.Args()
	if a.interactive && !a.capture {
		return nil, &UsageError{of: a, msg: "-interactive requires -capture"}
	}
	return a, nil
}

func (a *annotateCmd) captureOptions() capture.Options {
	return capture.Options{Interactive: a.interactive, IncludeCursor: a.cursor}
}

// sources loads the starting images in order: capture, clipboard, files.
func (a *annotateCmd) sources(ctx context.Context) ([]ingest.Image, error) {
	var out []ingest.Image
	if a.capture {
		img, err := captureFn(ctx, a.captureOptions())
		if err != nil {
			return nil, fmt.Errorf("failed to capture screen: %w", err)
		}
		out = append(out, img)
	}
	if a.fromClipboard {
		img, err := fromClipboardFn()
		if err != nil {
			return nil, fmt.Errorf("read clipboard image: %w", err)
		}
		out = append(out, img)
	}
	for _, f := range a.files {
		img, err := fromFileFn(f)
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, nil
}

func (a *annotateCmd) newState() *appstate.AppState {
	cfg := a.settings()
	saveDir := a.saveDir
	if saveDir == "" {
		saveDir = cfg.SaveDir
	}
	opts := []appstate.Option{
		appstate.WithEditorOptions(cfg.EditorOptions()...),
		appstate.WithOutput(a.output),
		appstate.WithSaveDir(saveDir),
		appstate.WithCaptureOptions(a.captureOptions()),
	}
	if a.root != nil {
		opts = append(opts, appstate.WithTheme(a.activeTheme), appstate.WithNotifier(a.notifier))
	}
	return appstate.New(opts...)
}

func (a *annotateCmd) Run() error {
	imgs, err := a.sources(context.Background())
	if err != nil {
		return err
	}
	st := a.newState()
	for _, img := range imgs {
		st.Editor.InsertImage(img.Source, img.Width, img.Height)
	}
	runUI(st)
	return nil
}
