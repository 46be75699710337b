package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ahror172/kino/internal/config"
)

const defaultConfigPath = "kino.toml"

// app хранит общее состояние команд, конфиг и логгер после PersistentPreRunE.
type app struct {
	configPath string
	cfg        *config.Config
	log        *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "kino",
		Short:         "Telegram bot that hands out movies by code to channel subscribers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// файл по умолчанию необязателен, явно указанный: обязателен
			required := cmd.Flags().Changed("config")
			cfg, err := config.Load(a.configPath, required)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg.Log)
			if err != nil {
				return err
			}
			a.cfg, a.log = cfg, log
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", defaultConfigPath, "path to TOML config")

	root.AddGroup(
		&cobra.Group{ID: "bot", Title: "Bot:"},
		&cobra.Group{ID: "data", Title: "Data:"},
	)
	root.AddCommand(newServeCmd(a))
	root.AddCommand(newChannelsCmd(a))
	root.AddCommand(newContentCmd(a))
	root.AddCommand(newRecipientsCmd(a))
	root.AddCommand(newBackupCmd(a))
	return root
}

func newLogger(c config.LogConfig) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return nil, errors.Wrapf(err, "log level %q", c.Level)
	}
	log.SetLevel(level)
	switch c.Format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, errors.Errorf("unknown log format %q", c.Format)
	}
	return log, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
