package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/beanboi7/chyp8/emu/audio"
	"github.com/beanboi7/chyp8/emu/cpu"
	"github.com/beanboi7/chyp8/emu/driver"
	"github.com/beanboi7/chyp8/emu/screen"
	"github.com/beanboi7/chyp8/emu/term"
	"github.com/beanboi7/chyp8/internal/config"
	"github.com/beanboi7/chyp8/internal/stats"
	"github.com/faiface/pixel/pixelgl"
	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/cobra"
)

// chyp8 start 'path/to/ROM' -r 69
func newStartCommand(opts *options) *cobra.Command {
	startCmd := &cobra.Command{
		Use:   "start `path/ROM`",
		Short: "load and start the Emulator",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return opts.start(ctx, args[0])
		},
	}

	flags := startCmd.Flags()
	flags.IntP("refresh", "r", 60, "sets the refresh rate of the display")
	flags.StringP("frontend", "f", config.FrontendWindow, "user interface: window, terminal or headless")
	flags.Int("scale", 10, "window pixels per display pixel")
	flags.String("beep", "", "mp3 or wav file played when the sound timer expires")
	flags.Bool("mute", false, "disable sound")
	flags.String("statsview", "", "serve runtime statistics on this address, e.g. localhost:12600")
	addMachineFlags(flags)
	return startCmd
}

func (o *options) start(ctx context.Context, romPath string) error {
	emu, err := o.newEMU(romPath)
	if err != nil {
		return fmt.Errorf("starting the emulator: %w", err)
	}

	if o.cfg.Statsview != "" {
		stop := stats.Launch(o.cfg.Statsview, o.logger)
		defer func() {
			_ = stop() // already logged
		}()
	}

	var driverOpts []driver.Option
	if !o.cfg.Mute {
		player, err := audio.NewPlayer(o.cfg.Beep)
		if err != nil {
			o.logger.Warn("Sound disabled", log.Err(err))
		} else {
			driverOpts = append(driverOpts, driver.WithSound(player))
		}
	}

	switch o.cfg.Frontend {
	case config.FrontendWindow:
		// pixelgl owns the main thread until the callback returns
		var runErr error
		pixelgl.Run(func() {
			win, err := screen.NewWindow(o.cfg.Scale)
			if err != nil {
				runErr = err
				return
			}
			defer win.Destroy()
			runErr = o.run(ctx, emu, win, driverOpts)
		})
		return runErr

	case config.FrontendTerminal:
		t, err := term.Open()
		if err != nil {
			return err
		}
		runErr := o.run(ctx, emu, t, driverOpts)
		if err := t.Close(); err != nil && runErr == nil {
			runErr = err
		}
		return runErr

	default:
		return o.run(ctx, emu, driver.NewHeadless(), driverOpts)
	}
}

func (o *options) run(ctx context.Context, emu *cpu.EMU, frontend driver.Frontend, opts []driver.Option) error {
	d := driver.New(emu, frontend, o.cfg, o.logger, opts...)

	err := d.Run(ctx)
	if errors.Is(err, context.Canceled) {
		o.logger.Info("Emulation cancelled", log.Int("ticks", d.Ticks()))
		return nil
	}
	return err
}
