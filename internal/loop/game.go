package loop

import (
	"math/rand"

	"github.com/tomz197/demonattack/internal/audio"
	"github.com/tomz197/demonattack/internal/collision"
	"github.com/tomz197/demonattack/internal/config"
	"github.com/tomz197/demonattack/internal/gamestate"
	"github.com/tomz197/demonattack/internal/input"
	"github.com/tomz197/demonattack/internal/object"
	"github.com/tomz197/demonattack/internal/wave"
)

// GameOverLockout is how long the game over screen ignores keys, so a held
// fire key does not skip it.
const GameOverLockout = 1.0

// Game is one player's session: the playfield, the rules and the screens
// around them. It is not safe for concurrent use; front ends call Update
// and read it for drawing from the same goroutine.
type Game struct {
	screen object.Screen
	player *object.Player
	bullet *object.Bullet
	waves  *wave.Manager
	state  *gamestate.Manager
	sink   audio.Sink

	wingCombat bool
	waveDelay  float64

	transition         float64
	waveCompletePlayed bool
	gameOverTime       float64
}

// NewGame builds a game on the title screen. The random source is seeded
// from cfg.Seed. A nil sink plays nothing.
func NewGame(cfg config.Config, scores gamestate.Scores, sink audio.Sink) *Game {
	return newGame(cfg, scores, sink, object.NewRand(cfg.Seed))
}

func newGame(cfg config.Config, scores gamestate.Scores, sink audio.Sink, rng *rand.Rand) *Game {
	if sink == nil {
		sink = audio.Nop{}
	}
	screen := object.DefaultScreen
	rules := gamestate.Rules{
		StartingLives:  cfg.Rules.StartingLives,
		MaxLives:       cfg.Rules.MaxLives,
		WaveClearBonus: cfg.Rules.WaveClearBonus,
		BonusLife:      cfg.Rules.BonusLife,
	}
	return &Game{
		screen:     screen,
		player:     object.NewPlayer(screen),
		bullet:     object.NewBullet(),
		waves:      wave.NewManager(screen, rng),
		state:      gamestate.New(rules, scores),
		sink:       sink,
		wingCombat: cfg.Rules.WingCombat,
		waveDelay:  cfg.Rules.WaveDelay,
	}
}

// Screen returns the playfield size.
func (g *Game) Screen() object.Screen { return g.screen }

// Player returns the cannon.
func (g *Game) Player() *object.Player { return g.player }

// Bullet returns the player's single bullet.
func (g *Game) Bullet() *object.Bullet { return g.bullet }

// Waves returns the wave manager owning demons and demon bullets.
func (g *Game) Waves() *wave.Manager { return g.waves }

// State returns the score, lives and mode bookkeeping.
func (g *Game) State() *gamestate.Manager { return g.state }

// Mode is shorthand for State().Mode().
func (g *Game) Mode() gamestate.Mode { return g.state.Mode() }

// BetweenWaves reports whether the field is clear and the next wave is
// about to start.
func (g *Game) BetweenWaves() bool {
	return g.state.Mode() == gamestate.Playing && g.waves.WaveComplete()
}

// Update advances the game by dt seconds using this frame's input.
func (g *Game) Update(dt float64, in input.Input) {
	switch g.state.Mode() {
	case gamestate.Title:
		if in.Space || in.Enter {
			g.startGame()
		}
	case gamestate.Playing:
		g.updatePlaying(dt, in)
	case gamestate.GameOver:
		g.updateGameOver(dt, in)
	case gamestate.EnteringInitials:
		g.updateInitials(in)
	}
}

func (g *Game) startGame() {
	g.state.StartGame()
	g.player.Reset()
	g.bullet.Deactivate()
	g.waves.Reset()
	g.waves.StartNextWave()
	g.transition = 0
	g.waveCompletePlayed = false
	g.gameOverTime = 0
}

func (g *Game) updatePlaying(dt float64, in input.Input) {
	if g.waves.WaveComplete() {
		if !g.waveCompletePlayed {
			g.sink.Play(audio.WaveComplete)
			g.waveCompletePlayed = true
		}
		g.transition += dt
		if g.transition >= g.waveDelay {
			g.state.AwardWaveClearBonus(g.waves.CurrentWave())
			g.waves.StartNextWave()
			g.transition = 0
			g.waveCompletePlayed = false
		}
	}

	g.player.Update(dt, in.Direction())

	g.bullet.Arm()
	if in.Fire && !g.bullet.Active() {
		g.bullet.Fire(g.player.Muzzle())
		g.sink.Play(audio.Shoot)
	}
	g.bullet.Update(dt)

	if g.waves.Update(dt, g.player.Position()) {
		g.sink.Play(audio.DemonShoot)
	}

	g.resolveCollisions()
}

// resolveCollisions acts on this frame's overlaps. Once the game is over
// nothing else is resolved.
func (g *Game) resolveCollisions() {
	if hit, ok := collision.BulletVsDemons(g.bullet, g.waves.Demons(), g.wingCombat); ok {
		g.bullet.Deactivate()
		if hit.Kill() {
			g.state.AddScore(hit.Demon.Points())
			g.sink.Play(audio.Explosion)
			if hit.Demon.ShouldSplit() {
				g.waves.SpawnSplitDemons(hit.Demon)
			}
			hit.Demon.Destroy()
		} else {
			hit.Demon.DisableWing(hit.Part)
		}
	}

	if b := collision.DemonBulletsVsPlayer(g.waves.Bullets().Bullets(), g.player); b != nil {
		b.Deactivate()
		if g.playerHit() {
			return
		}
	}

	if collision.DemonsVsPlayer(g.waves.Demons(), g.player) != nil {
		g.playerHit()
	}
}

// playerHit costs a life and reports whether that ended the game.
func (g *Game) playerHit() bool {
	g.sink.Play(audio.PlayerHit)
	if g.state.LoseLife() {
		g.sink.Play(audio.GameOver)
		g.gameOverTime = 0
		return true
	}
	g.player.Reset()
	g.player.TriggerInvincibility()
	g.bullet.Deactivate()
	return false
}

func (g *Game) updateGameOver(dt float64, in input.Input) {
	g.gameOverTime += dt
	if g.gameOverTime < GameOverLockout {
		return
	}
	switch {
	case in.Enter:
		if g.state.QualifiesForHighScore() {
			g.state.CheckAndEnterHighScore()
		} else {
			g.startGame()
		}
	case in.Space:
		g.state.CheckAndEnterHighScore()
	}
}

func (g *Game) updateInitials(in input.Input) {
	for _, l := range in.Letters {
		g.state.SetCurrentInitial(l)
		g.state.MoveCursorRight()
	}
	if in.Up {
		g.state.CycleInitialUp()
	}
	if in.Down {
		g.state.CycleInitialDown()
	}
	if in.LeftKey {
		g.state.MoveCursorLeft()
	}
	if in.RightKey {
		g.state.MoveCursorRight()
	}
	if in.Backspace {
		g.state.MoveCursorLeft()
		g.state.SetCurrentInitial('A')
	}

	switch {
	case in.Enter:
		g.state.SubmitHighScore()
	case in.Space:
		g.state.SubmitHighScore()
		g.startGame()
	}
}

// GameOverReady reports whether the game over screen accepts keys yet.
func (g *Game) GameOverReady() bool {
	return g.state.Mode() == gamestate.GameOver && g.gameOverTime >= GameOverLockout
}
