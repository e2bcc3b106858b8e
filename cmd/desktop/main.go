package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"

	"github.com/tomz197/demonattack/internal/audio"
	"github.com/tomz197/demonattack/internal/config"
	"github.com/tomz197/demonattack/internal/highscore"
	"github.com/tomz197/demonattack/internal/input"
	"github.com/tomz197/demonattack/internal/loop"
	"github.com/tomz197/demonattack/internal/object"
)

// desktop adapts loop.Game to ebiten.
type desktop struct {
	game   *loop.Game
	scores *highscore.Store
	face   font.Face
	bonus  int
	chars  []rune
}

// Update steps the game one tick. A quit key ends the program.
func (d *desktop) Update() error {
	in := d.readInput()
	if in.Quit {
		return ebiten.Termination
	}
	d.game.Update(1/float64(ebiten.TPS()), in)
	return nil
}

// Draw renders the current screen.
func (d *desktop) Draw(screen *ebiten.Image) {
	d.render(screen)
}

// Layout keeps the logical playfield size whatever the window size.
func (d *desktop) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := object.DefaultScreen
	return int(s.Width), int(s.Height)
}

// readInput maps ebiten key state onto the same actions the terminal
// decoder produces.
func (d *desktop) readInput() input.Input {
	just := inpututil.IsKeyJustPressed
	in := input.Input{
		Quit:      just(ebiten.KeyEscape),
		Left:      ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		Right:     ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight),
		Space:     just(ebiten.KeySpace),
		Enter:     just(ebiten.KeyEnter),
		Backspace: just(ebiten.KeyBackspace),
		Up:        just(ebiten.KeyArrowUp),
		Down:      just(ebiten.KeyArrowDown),
		LeftKey:   just(ebiten.KeyArrowLeft),
		RightKey:  just(ebiten.KeyArrowRight),
	}
	in.Fire = in.Space || in.Up || just(ebiten.KeyW)

	d.chars = ebiten.AppendInputChars(d.chars[:0])
	for _, r := range d.chars {
		switch {
		case r >= 'a' && r <= 'z':
			in.Letters = append(in.Letters, byte(r-'a'+'A'))
		case r >= 'A' && r <= 'Z':
			in.Letters = append(in.Letters, byte(r))
		}
	}
	in.Activity = len(inpututil.AppendJustPressedKeys(nil)) > 0
	return in
}

func newFace() (font.Face, error) {
	ttf, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(ttf, &opentype.FaceOptions{
		Size:    16,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	return face, nil
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "demons",
		ReportTimestamp: true,
	})

	cfg, err := config.Load(config.GetEnv("DEMONS_CONFIG", ""))
	if err != nil {
		logger.Fatal("bad config", "err", err)
	}

	scorePath := cfg.HighScores.Path
	if scorePath == "" {
		if scorePath, err = highscore.DefaultPath(); err != nil {
			logger.Warn("high scores kept in memory", "err", err)
		}
	}
	scores := highscore.Open(scorePath, highscore.WithLogger(logger))

	var sink audio.Sink = audio.Nop{}
	if cfg.Audio.Enabled {
		synth := audio.NewSynth(cfg.Audio.Master, logger)
		if err := synth.Init(); err != nil {
			logger.Warn("audio unavailable, playing silently", "err", err)
		} else {
			defer synth.Close()
			sink = synth
		}
	}

	face, err := newFace()
	if err != nil {
		logger.Fatal("font", "err", err)
	}

	d := &desktop{
		game:   loop.NewGame(cfg, scores, sink),
		scores: scores,
		face:   face,
		bonus:  cfg.Rules.WaveClearBonus,
	}

	s := object.DefaultScreen
	ebiten.SetWindowSize(int(s.Width), int(s.Height))
	ebiten.SetWindowTitle("Demon Attack")
	ebiten.SetTPS(cfg.FPS)

	if err := ebiten.RunGame(d); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("game error", "err", err)
	}
}
