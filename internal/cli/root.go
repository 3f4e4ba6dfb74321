package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"idea/internal/config"
	"idea/internal/log"
	"idea/internal/parser"
	"idea/internal/storage"
	"idea/internal/todo"
	"idea/internal/transfer"
	"idea/internal/ui"
)

type App struct {
	ConfigPath string
	Debug      bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:   "idea [command...]",
		Short: "Ordered todo list with a modal terminal UI",
		Long: strings.TrimSpace(`
Without arguments idea opens the interactive list. Every argument is
otherwise run as one command, in order; the batch stops at the first
failing command and nothing is saved.

Commands: ` + usageLine(todo.Actions) + `, ` + usageLine(transfer.Actions(nil)) + `, list, help`),
		Example: strings.TrimSpace(`
  # Open the interactive list
  idea

  # Scriptable commands
  idea "add buy milk" "move 3 1" list
`),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, args)
		},
	}
	cmd.SetOut(color.Output)
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringVarP(&app.ConfigPath, "config", "c", "", "config file (default $IDEA_CONFIG_PATH/config.toml or ~/.config/idea/config.toml)")
	cmd.Flags().BoolVar(&app.Debug, "debug", false, "write a debug log to log_path")
	return cmd
}

func (a *App) run(cmd *cobra.Command, args []string) error {
	path := a.ConfigPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if a.Debug || cfg.Debug {
		cleanup, err := log.Init(cfg.LogPath)
		if err != nil {
			return fmt.Errorf("failed to open log: %w", err)
		}
		defer cleanup()
	}
	log.Info(log.CatConfig, "config loaded", "path", path, "db", cfg.DBPath)

	store, err := storage.Open(cfg.DBPath, cfg.NotesDir)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	if len(args) == 0 {
		return ui.Run(store, cfg)
	}
	return runBatch(cmd, store, args)
}

func runBatch(cmd *cobra.Command, store *storage.Store, lines []string) error {
	l, err := store.Load()
	if err != nil {
		return err
	}
	b := NewBatch(l, cmd.OutOrStdout(), transfer.Actions(store.Notes()))
	if err := b.Run(lines); err != nil {
		return err
	}
	if !b.Modified() {
		return nil
	}
	return store.Save(l)
}

// usageLine is shown in the root command's long help.
func usageLine(t parser.Table[*todo.List]) string {
	var names []string
	for _, f := range t {
		names = append(names, f.Name)
	}
	return strings.Join(names, ", ")
}
