package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hammamikhairi/stepchef/internal/config"
	"github.com/hammamikhairi/stepchef/internal/logger"
)

var (
	cfgFile string
	vp      *viper.Viper
	cfg     *config.Config
	log     = logger.New(logger.LevelOff, nil)
	logFile *os.File
)

func newRootCmd() *cobra.Command {
	vp = viper.New()

	rootCmd := &cobra.Command{
		Use:   "stepchef",
		Short: "Check off recipe steps, switch variations, celebrate finished dishes",
		Long: `stepchef loads a recipe analysis (JSON or YAML), shows each recipe as a
checklist and keeps track of which steps are done. Selecting a variation swaps
in its instructions; finishing every step of a recipe is celebrated and logged.`,
		PersistentPreRunE:  initConfig,
		PersistentPostRunE: closeLog,
		SilenceUsage:       true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/stepchef/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "normal", "log level (off, normal, verbose)")
	rootCmd.PersistentFlags().String("log-file", "", `file to write logs to (use "stderr" to log to console)`)
	rootCmd.PersistentFlags().String("history-db", "", "path of the celebration history database")
	rootCmd.PersistentFlags().Bool("no-history", false, "do not record finished recipes")

	_ = vp.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	_ = vp.BindPFlag(config.KeyLogFile, rootCmd.PersistentFlags().Lookup("log-file"))
	_ = vp.BindPFlag(config.KeyHistoryPath, rootCmd.PersistentFlags().Lookup("history-db"))

	rootCmd.AddCommand(cookCmd())
	rootCmd.AddCommand(viewCmd())
	rootCmd.AddCommand(recipesCmd())
	rootCmd.AddCommand(historyCmd())
	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(vp, cfgFile)
	if err != nil {
		return err
	}
	if off, _ := cmd.Flags().GetBool("no-history"); off {
		c.HistoryEnabled = false
	}
	cfg = c

	out, err := openLog(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v (falling back to stderr)\n", err)
		out = os.Stderr
	}
	log = logger.New(cfg.LogLevel, out)
	if cfg.Source != "" {
		log.Debug("config loaded from %s", cfg.Source)
	}
	return nil
}

// openLog directs logs to a file by default so the checklist stays clean.
func openLog(path string) (io.Writer, error) {
	if path == "" || path == "stderr" {
		return os.Stderr, nil
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("could not create log directory %s: %w", dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("could not open log file %s: %w", path, err)
	}
	logFile = f
	return f, nil
}

func closeLog(_ *cobra.Command, _ []string) error {
	_ = log.Sync()
	if logFile != nil {
		return logFile.Close()
	}
	return nil
}
