package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/beanboi7/chyp8/emu/cpu"
	"github.com/beanboi7/chyp8/emu/driver"
	"github.com/beanboi7/chyp8/emu/term"
	"github.com/bradleyjkemp/memviz"
	"github.com/spf13/cobra"
)

func newInspectCommand(opts *options) *cobra.Command {
	var (
		ticks   int
		vizPath string
	)

	inspectCmd := &cobra.Command{
		Use:   "inspect `path/ROM`",
		Short: "run a ROM without a user interface and print the machine state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.inspect(cmd.OutOrStdout(), args[0], ticks, vizPath)
		},
	}

	flags := inspectCmd.Flags()
	flags.IntVar(&ticks, "ticks", 60, "number of refresh ticks to run")
	flags.StringVar(&vizPath, "memviz", "", "write a graphviz dot file of the machine structure")
	addMachineFlags(flags)
	return inspectCmd
}

func (o *options) inspect(w io.Writer, romPath string, ticks int, vizPath string) error {
	emu, err := o.newEMU(romPath)
	if err != nil {
		return err
	}

	d := driver.New(emu, driver.NewHeadless(), o.cfg, o.logger,
		driver.Unthrottled(), driver.WithMaxTicks(ticks))

	// a fault is part of the state being inspected
	err = d.Run(context.Background())
	var fault *cpu.Fault
	if err != nil && !errors.As(err, &fault) {
		return err
	}

	if err := printState(w, emu, d.Ticks()); err != nil {
		return err
	}

	if vizPath != "" {
		if err := writeMemviz(vizPath, emu); err != nil {
			return err
		}
	}
	return nil
}

func printState(w io.Writer, emu *cpu.EMU, ticks int) error {
	regs := emu.Registers()

	var sb strings.Builder
	fmt.Fprintf(&sb, "ticks: %d\n", ticks)
	fmt.Fprintf(&sb, "PC: 0x%03X  I: 0x%03X  opcode: 0x%04X  %s\n",
		regs.PC, regs.I, emu.Opcode(), cpu.Disassemble(emu.Opcode()))
	fmt.Fprintf(&sb, "V0-V7: % X\n", regs.V[:8])
	fmt.Fprintf(&sb, "V8-VF: % X\n", regs.V[8:])
	fmt.Fprintf(&sb, "DT: %d  ST: %d  stack: %d\n", emu.DelayTimer(), emu.SoundTimer(), emu.StackDepth())

	switch {
	case emu.Halted():
		fmt.Fprintf(&sb, "halted: %v\n", emu.Fault())
	case emu.AwaitingKey():
		sb.WriteString("waiting for a key press\n")
	}

	sb.WriteString(strings.Repeat("-", cpu.DisplayWidth) + "\n")
	frame := emu.Frame()
	term.Render(&sb, frame)

	_, err := io.WriteString(w, strings.ReplaceAll(sb.String(), "\r\n", "\n"))
	return err
}

func writeMemviz(path string, emu *cpu.EMU) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating memviz file: %w", err)
	}
	memviz.Map(f, emu)
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing memviz file: %w", err)
	}
	return nil
}
