package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/javadocref"
	"git.home.luguber.info/inful/javadocref/internal/foundation/errors"
	"git.home.luguber.info/inful/javadocref/internal/logfields"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	Files  []string `arg:"" optional:"" type:"existingfile" help:"Markdown files to render (stdin when omitted)"`
	Output string   `short:"o" help:"Output directory; one file without -o renders to stdout"`
	Watch  bool     `short:"w" help:"Re-render files when they change"`
}

func (r *RenderCmd) Run(g *Global) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	engine, err := g.NewEngine(ctx)
	if err != nil {
		return err
	}

	if len(r.Files) == 0 {
		if r.Watch {
			return errors.ValidationError("--watch needs at least one file").UserAction().Build()
		}
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "read stdin").Build()
		}
		return engine.Convert(ctx, src, g.Stdout)
	}

	for _, file := range r.Files {
		if err := r.renderFile(ctx, g, engine, file); err != nil {
			return err
		}
	}
	if !r.Watch {
		return nil
	}
	return r.watch(ctx, g, engine)
}

// destination returns "" for stdout.
func (r *RenderCmd) destination(file string) string {
	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)) + ".html"
	switch {
	case r.Output != "":
		return filepath.Join(r.Output, base)
	case len(r.Files) == 1 && !r.Watch:
		return ""
	default:
		return filepath.Join(filepath.Dir(file), base)
	}
}

func (r *RenderCmd) renderFile(ctx context.Context, g *Global, engine *javadocref.Engine, file string) error {
	src, err := os.ReadFile(file)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "read markdown file").
			WithContext("path", file).
			Build()
	}
	var buf bytes.Buffer
	if err := engine.Convert(ctx, src, &buf); err != nil {
		return errors.WrapError(err, errors.CategoryRender, "render markdown").
			WithContext("path", file).
			Build()
	}

	dest := r.destination(file)
	if dest == "" {
		_, err = g.Stdout.Write(buf.Bytes())
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create output directory").
			WithContext("path", filepath.Dir(dest)).
			Build()
	}
	if err := os.WriteFile(dest, buf.Bytes(), 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "write html file").
			WithContext("path", dest).
			Build()
	}
	g.Logger.Info("Rendered", logfields.File(file), logfields.Path(dest))
	return nil
}

const watchDebounce = 200 * time.Millisecond

// watch re-renders a file after its writes settle. Directories are watched
// rather than files so editors that replace files on save keep working.
func (r *RenderCmd) watch(ctx context.Context, g *Global, engine *javadocref.Engine) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	tracked := make(map[string]string, len(r.Files))
	for _, file := range r.Files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", file, err)
		}
		tracked[abs] = file
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", filepath.Dir(abs), err)
		}
	}
	g.Logger.Info("Watching for changes", logfields.Count(len(tracked)))

	pending := map[string]struct{}{}
	timer := time.NewTimer(watchDebounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			g.Logger.Info("Stopping watcher")
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			file, isTracked := tracked[ev.Name]
			if !isTracked || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			g.Logger.Debug("Change detected", logfields.File(file), slog.String("op", ev.Op.String()))
			pending[file] = struct{}{}
			timer.Reset(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			g.Logger.Error("Watcher error", logfields.Error(err))
		case <-timer.C:
			for file := range pending {
				if err := r.renderFile(ctx, g, engine, file); err != nil {
					g.Logger.Error("Render failed", logfields.File(file), logfields.Error(err))
				}
			}
			clear(pending)
		}
	}
}
