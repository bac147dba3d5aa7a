package main

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/aretw0/airfetch/internal/platform"
	"github.com/aretw0/airfetch/pkg/adapters/notify"
	"github.com/aretw0/airfetch/pkg/adapters/prompt"
	"github.com/aretw0/airfetch/pkg/adapters/secret"
	"github.com/aretw0/airfetch/pkg/core"
)

func loadConfig() *platform.Config {
	wd, err := os.Getwd()
	if err != nil {
		fatal("Error getting working directory", err)
	}

	cfg, err := platform.LoadConfig(configPath, wd)
	if err != nil {
		fatal("Error loading config", err)
	}
	if vaultPath != "" {
		cfg.Vault = vaultPath
	}
	return cfg
}

func vaultOptions(cfg *platform.Config, extra ...platform.Option) []platform.Option {
	opts := append([]platform.Option{platform.WithLogger(slog.Default())}, cfg.VaultOptions()...)
	return append(opts, extra...)
}

func openApp(cfg *platform.Config, extra ...platform.Option) *platform.App {
	app, err := platform.New(cfg.Vault, vaultOptions(cfg, extra...)...)
	if err != nil {
		fatal("Error initializing airfetch", err)
	}
	return app
}

// newNotifier prints notices on stdout, and also logs them when logs go to a file.
func newNotifier() core.Notifier {
	n := notify.Multi{notify.NewTerminal(os.Stdout)}
	if logFile != "" {
		n = append(n, notify.NewLog(slog.Default()))
	}
	return n
}

// newChooser picks the filter surface: the --filter answer when given,
// otherwise an interactive list if stdin is a terminal.
func newChooser(answer string) (core.Chooser[core.FilterOption], error) {
	if answer != "" {
		return prompt.NewStatic(answer), nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal; pass --filter")
	}
	return prompt.NewSelect[core.FilterOption]("Which notes should be fetched?"), nil
}

func newResolver() *secret.Resolver {
	return secret.NewResolver(secret.WithLogger(slog.Default()))
}

func keyKind(ref string) string {
	switch {
	case ref == "":
		return "none"
	case secret.IsReference(ref):
		kind, _, _ := strings.Cut(ref, ":")
		return kind
	default:
		return "literal"
	}
}
