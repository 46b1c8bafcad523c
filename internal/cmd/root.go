// Package cmd wires the structdiff command line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/structdiff/structdiff/diff"
)

// cfgFile is the --config persistent flag shared by every subcommand.
var cfgFile string

func rootCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "structdiff",
		Short: "structdiff is a CLI utility to compare JSON and YAML documents",
	}

	cobra.OnInitialize(initConfig)

	command.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.structdiff.yaml)")
	command.PersistentFlags().Bool("debug", false,
		"log progress details to stderr")
	command.PersistentFlags().Bool("no-color", false,
		"disable styled output")

	mustBind("debug", viper.BindPFlag("debug", command.PersistentFlags().Lookup("debug")))
	mustBind("no-color", viper.BindPFlag("no-color", command.PersistentFlags().Lookup("no-color")))

	command.AddCommand(diffCmd())
	command.AddCommand(statsCmd())
	command.AddCommand(snapshotCmd())
	command.AddCommand(versionCmd())

	return command
}

func Execute() {
	if err := rootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".structdiff")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		l := logger()
		l.Debug().Str("file", viper.ConfigFileUsed()).Msg("using config file")
	}
}

// logger returns the CLI logger. With --debug it writes to stderr, otherwise
// everything is dropped so command output stays clean.
func logger() zerolog.Logger {
	if !viper.GetBool("debug") {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().
		Timestamp().
		Logger().
		Level(zerolog.DebugLevel)
}

// colorEnabled reports whether styled output is wanted, honoring --no-color
// and the NO_COLOR convention.
func colorEnabled() bool {
	return !viper.GetBool("no-color") && os.Getenv("NO_COLOR") == ""
}

func theme() diff.Theme {
	if !colorEnabled() {
		return diff.PlainTheme
	}
	return diff.DefaultTheme
}

func mustBind(flagName string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to bind flag %s: %v\n", flagName, err)
		os.Exit(1)
	}
}
