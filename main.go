// Package main provides the entry point for the loket queue display.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	opts       options

	rootCmd = &cobra.Command{
		Use:   "loket",
		Short: "Queue number display and teller console",
		Long: paragraph(
			fmt.Sprintf("\nCall queue numbers to service counters and show them on a %s, with chime and speech.", keyword("display")),
		),
		Example: paragraph("loket\nloket --mode display --kiosk\nloket --mode teller --start-number 100 --no-sample"),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

func validateOptions(cmd *cobra.Command) error {
	if f := cmd.Flags().Lookup("config"); f != nil && f.Changed {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file: %w", err)
		}
	}

	// subcommands must run even when the configuration is broken
	if cmd.HasParent() {
		return nil
	}

	o, err := loadOptions(viper.GetViper())
	if err != nil {
		return err
	}
	opts = o
	if opts.debug {
		log.SetLevel(log.DebugLevel)
	}
	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().Bool("debug", false, "write debug messages to the log file")
	rootCmd.Flags().StringP("mode", "m", "both", "views to run: display, teller or both")
	rootCmd.Flags().Int("start-number", 1, "first queue number")
	rootCmd.Flags().Bool("no-sample", false, "start without the demo calls")
	rootCmd.Flags().Bool("fullscreen", false, "start the display on the alternate screen")
	rootCmd.Flags().Bool("kiosk", false, "kiosk display: fullscreen, no borders, no status line")
	rootCmd.Flags().Bool("hide-cursor", false, "hide the terminal cursor")
	rootCmd.Flags().Int("screen-index", 0, "screen to show the display on (0 = primary)")
	rootCmd.Flags().String("tts", "", "speech engine: espeak, piper, gtts, mock or none")

	// Config bindings
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("mode", rootCmd.Flags().Lookup("mode"))
	_ = viper.BindPFlag("start_number", rootCmd.Flags().Lookup("start-number"))
	_ = viper.BindPFlag("no_sample", rootCmd.Flags().Lookup("no-sample"))
	_ = viper.BindPFlag("display.fullscreen", rootCmd.Flags().Lookup("fullscreen"))
	_ = viper.BindPFlag("display.kiosk", rootCmd.Flags().Lookup("kiosk"))
	_ = viper.BindPFlag("display.hide_cursor", rootCmd.Flags().Lookup("hide-cursor"))
	_ = viper.BindPFlag("display.screen_index", rootCmd.Flags().Lookup("screen-index"))
	_ = viper.BindPFlag("tts.engine", rootCmd.Flags().Lookup("tts"))

	setDefaults(viper.GetViper())

	rootCmd.AddCommand(configCmd, manCmd)
}

func configDirs() []string {
	scope := gap.NewScope(gap.User, "loket")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "loket")}, dirs...)
	}

	if c := os.Getenv("LOKET_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}
	return dirs
}

func tryLoadConfigFromDefaultPlaces() {
	dirs := configDirs()
	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("loket")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("loket")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "loket.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
