// Command limnview is a terminal pager that renders a file through the
// highlight engine. It stands in for the editor the engine is built
// for: language detection, async initial highlight, scope-to-style
// theming and script grammar hot reload are all wired the way a real
// host would wire them.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dshills/limn/config"
	"github.com/dshills/limn/grammar"
	"github.com/dshills/limn/grammar/script"
	"github.com/dshills/limn/highlight"
	"github.com/dshills/limn/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "limnview:", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := flag.String("config", "", "path to a limn.toml configuration file")
	themePath := flag.String("theme", "", "path to a VS Code style theme JSON")
	langID := flag.String("lang", "", "language id override (skips detection)")
	logPath := flag.String("log", "", "write engine logs to this file")
	listLangs := flag.Bool("languages", false, "list registered languages and exit")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}

	log := logging.NullLogger
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		log = logging.New(logging.Config{
			Level:  logging.ParseLevel(cfg.LogLevel),
			Output: f,
			Prefix: "limnview",
		})
	}

	opts := []highlight.Option{highlight.WithLogger(log)}
	if cfg.ScriptDir != "" {
		regs, err := script.Registrations(cfg.ScriptDir)
		if err != nil {
			return fmt.Errorf("script grammars: %w", err)
		}
		opts = append(opts, highlight.WithRegistrations(regs...))
	}

	svc, err := highlight.NewService(opts...)
	if err != nil {
		return err
	}
	defer svc.CloseAll()

	if *listLangs {
		for _, id := range svc.Languages() {
			fmt.Println(id)
		}
		return nil
	}

	if flag.NArg() != 1 {
		return fmt.Errorf("usage: limnview [flags] <file>")
	}
	path := flag.Arg(0)
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var doc *highlight.Document
	switch {
	case cfg.MaxFileSize > 0 && int64(len(content)) > cfg.MaxFileSize:
		doc, err = svc.Open(grammar.PlainTextID, content)
		if err != nil {
			return err
		}
	case *langID != "":
		doc, err = svc.Open(*langID, content)
		if err != nil {
			// Unknown ids still open; the status line reports the
			// plain-text fallback.
			log.Warn("language %s: %v", *langID, err)
		}
	default:
		doc, err = svc.OpenPath(path, content)
		if err != nil {
			return err
		}
	}
	if !cfg.LanguageEnabled(doc.Language()) {
		if err := doc.SetLanguage(grammar.PlainTextID); err != nil {
			return err
		}
	}

	theme := defaultTheme()
	if tp := firstNonEmpty(*themePath, cfg.ThemePath); tp != "" {
		theme, err = loadTheme(tp)
		if err != nil {
			return err
		}
	}

	if cfg.ScriptDir != "" {
		w, err := config.NewWatcher(cfg.ScriptDir, svc.Loader(), log)
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()
	}

	return newPager(doc, content, theme, path).run()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
