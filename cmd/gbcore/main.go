// Command gbcore is the CLI entry point: it parses a ROM (and
// optional boot ROM / save file), drives the Machine, and presents
// frames in a terminal using tcell. Grounded on the teacher's
// cmd/jeebie/main.go (flag surface) and jeebie/backend/terminal's
// tcell screen/keyboard handling, trimmed of the debug/disasm overlay
// those packages were dropped for (see DESIGN.md).
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/urfave/cli"

	"github.com/ptarmigan-labs/gbcore/gbcore"
	"github.com/ptarmigan-labs/gbcore/gbcore/timing"
)

const (
	screenWidth  = 160
	screenHeight = 144
	scaleX       = 2 // terminal cells are taller than wide; double up horizontally
)

// shadeChars goes from darkest to lightest, matching the teacher's
// terminal renderer convention.
var shadeChars = []rune{'█', '▓', '▒', '░'}

func main() {
	app := cli.NewApp()
	app.Name = "gbcore"
	app.Usage = "gbcore [options] <ROM file>"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "rom", Usage: "path to the ROM file"},
		cli.StringFlag{Name: "boot-rom", Usage: "path to a boot ROM image to run before the cartridge"},
		cli.StringFlag{Name: "save", Usage: "path to a save file (defaults to <rom>.sav)"},
		cli.BoolFlag{Name: "force-dmg", Usage: "run a CGB-capable cartridge in DMG compatibility mode"},
		cli.BoolFlag{Name: "headless", Usage: "run without a terminal presenter"},
		cli.IntFlag{Name: "frames", Usage: "in headless mode, stop after this many frames (0 = run forever)"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("gbcore exited with an error", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	romData, err := os.ReadFile(romPath)
	if err != nil {
		slog.Warn("gbcore: failed to read ROM, starting with a blank cartridge", "path", romPath, "error", err)
		romData = nil
	}

	var bootROM []byte
	if path := c.String("boot-rom"); path != "" {
		bootROM, err = os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading boot ROM: %w", err)
		}
	}

	savePath := c.String("save")
	if savePath == "" {
		savePath = romPath + ".sav"
	}

	m := gbcore.New(romData, bootROM, c.Bool("force-dmg"))

	if blob, err := os.ReadFile(savePath); err == nil {
		m.LoadRAM(blob)
	}
	defer persistSave(m, savePath)

	if c.Bool("headless") {
		return runHeadless(m, c.Int("frames"))
	}
	return runTerminal(m)
}

func persistSave(m *gbcore.Machine, path string) {
	blob := m.Close()
	if blob == nil {
		return
	}
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		slog.Warn("gbcore: failed to persist save file", "path", path, "error", err)
	}
}

func runHeadless(m *gbcore.Machine, frameLimit int) error {
	for i := 0; frameLimit == 0 || i < frameLimit; i++ {
		m.RunFrame(gbcore.Buttons{})
	}
	return nil
}

// terminalPresenter owns the tcell screen and translates key events
// into joypad state, rendering each completed frame as a grid of
// block characters.
type terminalPresenter struct {
	screen  tcell.Screen
	machine *gbcore.Machine
	running bool
	buttons gbcore.Buttons
}

func runTerminal(m *gbcore.Machine) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}

	t := &terminalPresenter{screen: screen, machine: m, running: true}
	return t.run()
}

func (t *terminalPresenter) run() error {
	defer t.screen.Fini()

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	go t.pollInput()

	limiter := timing.NewTickerLimiter()
	defer limiter.Stop()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	for t.running {
		select {
		case <-signals:
			return nil
		default:
		}

		limiter.WaitForNextFrame()
		t.machine.RunFrame(t.buttons)
		t.buttons = gbcore.Buttons{}
		t.render()
		t.screen.Show()
	}
	return nil
}

func (t *terminalPresenter) pollInput() {
	for t.running {
		ev := t.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			t.handleKey(ev)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

// handleKey sets a button for the next RunFrame call only: tcell
// delivers key-down events with no matching key-up, so a press is
// modeled as a one-frame tap rather than held state.
func (t *terminalPresenter) handleKey(ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyEscape {
		t.running = false
		return
	}

	switch ev.Key() {
	case tcell.KeyUp:
		t.buttons.Up = true
	case tcell.KeyDown:
		t.buttons.Down = true
	case tcell.KeyLeft:
		t.buttons.Left = true
	case tcell.KeyRight:
		t.buttons.Right = true
	case tcell.KeyEnter:
		t.buttons.Start = true
	case tcell.KeyTab:
		t.buttons.Select = true
	}

	switch ev.Rune() {
	case 'z', 'Z':
		t.buttons.A = true
	case 'x', 'X':
		t.buttons.B = true
	}
}

func (t *terminalPresenter) render() {
	fb := t.machine.Framebuffer()

	for y := 0; y < screenHeight; y++ {
		for x := 0; x < screenWidth; x++ {
			off := (y*screenWidth + x) * 4
			r, g, b := fb[off], fb[off+1], fb[off+2]
			lum := (int(r) + int(g) + int(b)) / 3
			shade := 3 - lum/64
			if shade < 0 {
				shade = 0
			}
			if shade > 3 {
				shade = 3
			}

			char := shadeChars[shade]
			style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
			for sx := 0; sx < scaleX; sx++ {
				t.screen.SetContent(x*scaleX+sx, y, char, nil, style)
			}
		}
	}
}
