// Package cli wires configuration, logging and the session service into the
// sheetseek command tree.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/sheetseek/internal/config"
	"github.com/nconklindev/sheetseek/internal/loader"
	"github.com/nconklindev/sheetseek/internal/logger"
	"github.com/nconklindev/sheetseek/internal/render"
	"github.com/nconklindev/sheetseek/internal/search"
	"github.com/nconklindev/sheetseek/internal/session"
	"github.com/nconklindev/sheetseek/internal/ui"
	"github.com/nconklindev/sheetseek/internal/version"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errEmptyTerm = errors.New("search term must not be empty")

type rootFlags struct {
	configPath string
	logLevel   string
}

// NewRootCommand builds the sheetseek command tree.
func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "sheetseek [file]",
		Short: "View and search Excel and CSV files",
		Long: `sheetseek loads an Excel workbook (.xlsx, .xls) or CSV file and lets you
browse every sheet or search all of them for a value, ignoring case.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       fmt.Sprintf("%s\ncommit: %s\nbuilt: %s", version.Version, version.Commit, version.Date),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(flags, args)
		},
	}
	rootCmd.SetVersionTemplate("sheetseek {{.Version}}\n")

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(newViewCommand(flags))
	rootCmd.AddCommand(newSearchCommand(flags))

	return rootCmd
}

func newViewCommand(flags *rootFlags) *cobra.Command {
	var sheetName string

	cmd := &cobra.Command{
		Use:   "view FILE",
		Short: "Print every sheet of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, svc, log, err := setup(flags, false)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			st, err := upload(svc, args[0])
			if err != nil {
				return err
			}

			p := render.NewPrinter(cmd.OutOrStdout(), cfg.UI.MaxColumnWidth)
			if err := p.Message(summary(st)); err != nil {
				return err
			}
			if sheetName != "" {
				ds, ok := st.Workbook.Sheet(sheetName)
				if !ok {
					return fmt.Errorf("sheet %q not found, available: %s",
						sheetName, strings.Join(st.Workbook.Names(), ", "))
				}
				return p.Sheet(sheetName, ds)
			}
			if err := p.SheetList(st.Workbook); err != nil {
				return err
			}
			return p.Workbook(st.Workbook)
		},
	}

	cmd.Flags().StringVarP(&sheetName, "sheet", "s", "", "Print only the named sheet")
	return cmd
}

func newSearchCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "search FILE TERM",
		Short: "Print the rows of every sheet that contain TERM, ignoring case",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := args[1]
			if strings.TrimSpace(term) == "" {
				return errEmptyTerm
			}

			cfg, svc, log, err := setup(flags, false)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			st, err := upload(svc, args[0])
			if err != nil {
				return err
			}

			p := render.NewPrinter(cmd.OutOrStdout(), cfg.UI.MaxColumnWidth)
			if err := p.Message(summary(st)); err != nil {
				return err
			}

			st = svc.Search(st, term)
			if st.Err != nil {
				return st.Err
			}
			return p.Result(st.Result)
		},
	}
}

func runInteractive(flags *rootFlags, args []string) error {
	cfg, svc, log, err := setup(flags, true)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	opts := ui.Options{Config: cfg, Service: svc, Logger: log}
	if len(args) == 1 {
		opts.InitialFile = args[0]
	}

	p := tea.NewProgram(ui.New(opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run interactive view: %w", err)
	}
	return nil
}

// setup loads configuration and builds the logger and session service.
func setup(flags *rootFlags, interactive bool) (config.Config, *session.Service, *zap.Logger, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
		if err := cfg.Validate(); err != nil {
			return config.Config{}, nil, nil, err
		}
	}

	newLogger := logger.New
	if interactive {
		newLogger = logger.NewForTUI
	}
	log, err := newLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	log.Debug("starting sheetseek",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.Strings("extensions", cfg.Loader.AllowedExtensions),
	)

	ld := loader.New(loader.Options{
		CSVSheetName: cfg.Loader.CSVSheetName,
		Extensions:   cfg.Loader.AllowedExtensions,
	}, log.Named("loader"))

	return cfg, session.NewService(ld, search.New(log.Named("search")), log.Named("session")), log, nil
}

func upload(svc *session.Service, path string) (session.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return session.State{}, loader.NewProcessingError(loader.NormalizeExt(filepath.Ext(path)), err)
	}

	st := svc.Upload(session.State{}, filepath.Base(path), data)
	if st.Err != nil {
		return st, fmt.Errorf("%s (%s): %w", st.FileName, humanize.Bytes(uint64(st.FileSize)), st.Err)
	}
	return st, nil
}

func summary(st session.State) string {
	return fmt.Sprintf("Loaded %s (%s): %d sheet(s)",
		st.FileName, humanize.Bytes(uint64(st.FileSize)), len(st.SheetNames()))
}
