package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const defaultConfig = `# views to run: display, teller or both
mode: "both"
# first queue number; a reset always restarts at 1
start_number: 1
# skip the demo calls made at startup
no_sample: false
# write debug messages to the log file
debug: false

# service counters offered by the teller
counters:
  - "Loket 1"
  - "Loket 2"
  - "Loket 3"
  - "Loket 4"

display:
  fullscreen: false
  # no borders, no status line
  kiosk: false
  hide_cursor: false
  screen_index: 0
  title: "Display Antrian Loket"
  marquee_text: "Selamat datang di Loket Antrian"
  # file with the marquee text, reloaded when it changes
  # marquee_file: "~/loket/marquee.txt"
  marquee_interval: "70ms"
  # image paths or text labels
  logos:
    - "assets/logo1.png"
    - "assets/logo2.png"
  video_path: "assets/sample.mp4"
  footer: "© Sistem Antrian Modular"

chime:
  enabled: true
  # 16-bit PCM WAV; a built-in chime is played when missing
  path: "assets/chime.wav"
  volume: 0.9

tts:
  enabled: true
  # espeak, piper, gtts or mock
  engine: "espeak"
  # wait between a call and its announcement
  delay: "300ms"
  template: "Nomor antrian {{.Number}}, menuju {{.Counter}}"
  language: "id"
  # tempo factor (0.5 to 2.0)
  rate: 0.9
  queue_size: 16
  volume: 1.0
  timeout: "30s"

  espeak:
    binary: "espeak-ng"
    # voice: "id"

  piper:
    binary: "piper"
    # model: "~/.local/share/piper/id_ID-news_tts-medium.onnx"
    speaker: 0

  gtts:
    slow: false
    requests_per_minute: 50

  cache:
    # defaults to the user cache directory
    # dir: "~/.cache/loket/speech"
    # megabytes, 0 disables the disk cache
    max_size: 100
    memory_size: 16
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the loket config file",
	Long:    paragraph(fmt.Sprintf("\n%s the loket config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("loket config\nloket config --config path/to/config.yml\nloket config print"),
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("Loket", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

var configPrintCmd = &cobra.Command{
	Use:     "print",
	Short:   "Print the effective configuration",
	Long:    paragraph(fmt.Sprintf("\n%s the configuration loket runs with: defaults, config file, environment and flags merged.", keyword("Print"))),
	Example: paragraph("loket config print\nLOKET_MODE=teller loket config print"),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printConfig(cmd.OutOrStdout(), viper.GetViper())
	},
}

func init() {
	configCmd.AddCommand(configPrintCmd)
}

func printConfig(w io.Writer, v *viper.Viper) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v.AllSettings()); err != nil {
		return fmt.Errorf("unable to encode configuration: %w", err)
	}
	return enc.Close() //nolint:wrapcheck
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
	}
	if configFile == "" {
		configFile = filepath.Join(configDirs()[0], "loket.yml")
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
