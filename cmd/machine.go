package cmd

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/beanboi7/chyp8/emu/cpu"
	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/pflag"
)

// addMachineFlags registers the flags shared by every command that executes
// a ROM.
func addMachineFlags(flags *pflag.FlagSet) {
	flags.IntP("speed", "s", 10, "instructions executed per refresh")
	flags.Int64("seed", 0, "seed of the random number generator, 0 seeds from the clock")
	flags.Bool("trace", false, "log every executed instruction, needs --debug")
}

// newEMU loads the ROM into a machine seeded from the configuration.
func (o *options) newEMU(romPath string) (*cpu.EMU, error) {
	seed := o.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	emu, err := cpu.NewEMU(romPath, cpu.WithRandom(rand.New(rand.NewSource(seed))))
	if err != nil {
		return nil, err
	}

	o.logger.Info("ROM loaded",
		log.String("path", romPath),
		log.Int("size", emu.ROMSize()),
		log.String("seed", strconv.FormatInt(seed, 10)))
	return emu, nil
}
