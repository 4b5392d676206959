package cmd

import (
	"fmt"
	"os"

	"github.com/beanboi7/chyp8/emu/cpu"
	"github.com/spf13/cobra"
)

func newDisasmCommand(_ *options) *cobra.Command {
	return &cobra.Command{
		Use:   "disasm `path/ROM`",
		Short: "print the instructions of a ROM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rom, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading ROM: %w", err)
			}

			w := cmd.OutOrStdout()
			for _, line := range cpu.DisassembleROM(rom) {
				if _, err := fmt.Fprintf(w, "%03X  %04X  %s\n", line.Address, line.Opcode, line.Text); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
