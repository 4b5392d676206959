package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/beanboi7/chyp8/internal/config"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// options is shared by all commands and filled in before any of them runs.
type options struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	logger  *log.Logger
}

// NewRootCommand returns the base command when called without any
// subcommands.
func NewRootCommand() *cobra.Command {
	opts := &options{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "chyp8 [command]",
		Short: "Chip-8 emulator using Go",
		Long:  "A Chip-8 emulator written from scratch that mimics the functionalities of a Chip-8, an interpretted language originally written for the COSMIC-VIP/ Telmac 8 bit systems.",
		Example: "  chyp8 start /path/ROM -r 60\n" +
			"  chyp8 disasm /path/ROM\n" +
			"  chyp8 inspect /path/ROM --ticks 120",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.initConfig(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (default is $HOME/.chyp8.yaml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.Bool("quiet", false, "only log errors")

	rootCmd.AddCommand(newStartCommand(opts), newDisasmCommand(opts), newInspectCommand(opts))
	return rootCmd
}

func Execute() {
	if err := run(NewRootCommand(), os.Stderr); err != nil {
		os.Exit(1)
	}
}

// run executes the command tree and prints a failure to stderr, followed by
// the usage of the failing command when a setting was rejected.
func run(rootCmd *cobra.Command, stderr io.Writer) error {
	cmd, err := rootCmd.ExecuteC()
	if err == nil {
		return nil
	}

	fmt.Fprintln(stderr, err)
	if config.IsInvalid(err) {
		_ = cmd.Usage()
	}
	return err
}

// initConfig reads in config file and ENV variables if set, and binds the
// flags of the running command.
func (o *options) initConfig(cmd *cobra.Command) error {
	config.SetDefaults(o.v)

	if o.cfgFile != "" {
		// Use config file from the flag.
		o.v.SetConfigFile(o.cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}

		// Search config in home directory with name ".chyp8" (without extension).
		o.v.AddConfigPath(home)
		o.v.SetConfigName(".chyp8")
	}

	if err := o.v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	usingFile := true
	if err := o.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config file: %w", err)
		}
		usingFile = false
	}

	cfg, err := config.Load(o.v)
	if err != nil {
		return err
	}
	o.cfg = cfg
	o.logger = config.CreateLogger(cfg.Debug, cfg.Quiet)

	if usingFile {
		o.logger.Debug("Using config file", log.String("path", o.v.ConfigFileUsed()))
	}
	return nil
}
