package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli"

	"github.com/halcyon-systems/dmgcore/internal/boot"
	"github.com/halcyon-systems/dmgcore/internal/cartridge"
	"github.com/halcyon-systems/dmgcore/internal/gameboy"
	"github.com/halcyon-systems/dmgcore/pkg/audio"
	"github.com/halcyon-systems/dmgcore/pkg/cartio"
	"github.com/halcyon-systems/dmgcore/pkg/display"
	"github.com/halcyon-systems/dmgcore/pkg/log"
	"github.com/halcyon-systems/dmgcore/pkg/screenshot"
)

func main() {
	app := cli.NewApp()
	app.Name = "dmgcore"
	app.Usage = "dmgcore --rom <file> [options]"
	app.Description = "A cycle-driven DMG Game Boy emulator core"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "rom", Usage: "path to the ROM image (.gb/.gbc, .zip, .7z)"},
		cli.StringFlag{Name: "boot", Usage: "path to a 256-byte DMG boot ROM image (optional)"},
		cli.StringFlag{Name: "save-dir", Value: "saves", Usage: "directory for battery-backed save files"},
		cli.IntFlag{Name: "scale", Value: 3, Usage: "integer window scale factor"},
		cli.BoolFlag{Name: "mute", Usage: "disable audio output"},
		cli.BoolFlag{Name: "headless", Usage: "run without a window, for scripted use"},
		cli.BoolFlag{Name: "strict", Usage: "treat undefined opcodes as fatal instead of logging and degrading"},
		cli.StringFlag{Name: "screenshot", Usage: "in headless mode, run one frame and save it as a PNG to this path"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.New().WithError(err).Error("dmgcore: fatal")
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	logger := log.New().WithField("component", "dmgcore")

	romPath := c.String("rom")
	if romPath == "" {
		cli.ShowAppHelp(c)
		return errors.New("dmgcore: no ROM path provided")
	}

	romData, err := cartio.LoadROM(romPath)
	if err != nil {
		return err
	}

	cart, err := cartridge.New(romData)
	if err != nil {
		return fmt.Errorf("dmgcore: %w", err)
	}

	savePath := cartio.SavePath(c.String("save-dir"), romData)
	if saveData, err := cartio.LoadSave(savePath); err != nil {
		return err
	} else if saveData != nil {
		cart.LoadRAM(saveData)
	}

	var bootROM []byte
	if bootPath := c.String("boot"); bootPath != "" {
		raw, err := os.ReadFile(bootPath)
		if err != nil {
			return fmt.Errorf("dmgcore: read boot ROM: %w", err)
		}
		rom, err := boot.Load(raw)
		if err != nil {
			return fmt.Errorf("dmgcore: %w", err)
		}
		bootROM = rom.Bytes()
	}

	gb := gameboy.New(cart, bootROM, logger)
	gb.CPU.Strict = c.Bool("strict")

	defer func() {
		if err := cartio.WriteSave(savePath, cart.RAM()); err != nil {
			logger.WithError(err).Warn("dmgcore: failed to persist battery save")
		}
	}()

	if c.Bool("headless") {
		return runHeadless(gb, c.String("screenshot"), int(c.Int("scale")))
	}
	return runWindowed(gb, int32(c.Int("scale")), c.Bool("mute"), logger)
}

func runHeadless(gb *gameboy.GameBoy, screenshotPath string, scale int) error {
	if screenshotPath == "" {
		for {
			gb.ProcessFrame()
		}
	}

	gb.ProcessFrame()
	frame, _ := gb.Frame()
	return screenshot.Save(frame, screenshotPath, scale)
}

func runWindowed(gb *gameboy.GameBoy, scale int32, mute bool, logger interface{ Warn(args ...interface{}) }) error {
	win, err := display.Open(scale)
	if err != nil {
		return err
	}
	defer win.Close()

	var sink *audio.Sink
	if !mute {
		sink, err = audio.Open(gb.Samples(), false)
		if err != nil {
			logger.Warn("dmgcore: audio unavailable, continuing muted")
		} else {
			go sink.Run()
			defer sink.Close()
		}
	}

	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	for range ticker.C {
		gb.ProcessFrame()

		if closed := win.PollInput(gb.SetPressed); closed {
			return nil
		}

		if frame, ready := gb.Frame(); ready {
			if err := win.Present(frame); err != nil {
				return err
			}
		}
	}
	return nil
}
