// Package gamestate tracks the mode, score and lives of a single game and
// drives the initials entry screen after a qualifying game over.
package gamestate

import "github.com/tomz197/demonattack/internal/highscore"

// Mode is the screen the game is on.
type Mode int

const (
	Title Mode = iota
	Playing
	GameOver
	EnteringInitials
)

// String returns the mode's name for logs.
func (m Mode) String() string {
	switch m {
	case Title:
		return "title"
	case Playing:
		return "playing"
	case GameOver:
		return "game over"
	case EnteringInitials:
		return "entering initials"
	}
	return "unknown"
}

const (
	DefaultStartingLives  = 3
	DefaultMaxLives       = 3
	DefaultWaveClearBonus = 100
)

// Scores is the high-score table the manager consults.
type Scores interface {
	IsHighScore(score int) bool
	Add(score int, initials string) highscore.Entry
	Highest() int
}

// Rules configure scoring and lives.
type Rules struct {
	StartingLives  int
	MaxLives       int
	WaveClearBonus int
	BonusLife      bool
}

// DefaultRules are the classic arcade settings, without a bonus life.
func DefaultRules() Rules {
	return Rules{
		StartingLives:  DefaultStartingLives,
		MaxLives:       DefaultMaxLives,
		WaveClearBonus: DefaultWaveClearBonus,
	}
}

// Manager holds everything about the current game that is not on screen.
type Manager struct {
	rules  Rules
	scores Scores

	mode           Mode
	score          int
	highScore      int
	lives          int
	noDamage       bool
	newHighScore   bool
	initials       [highscore.InitialsLength]byte
	initialsCursor int
}

// New returns a manager on the title screen.
func New(rules Rules, scores Scores) *Manager {
	m := &Manager{rules: rules, scores: scores, mode: Title}
	m.highScore = scores.Highest()
	m.resetInitials()
	return m
}

// Mode returns the current screen.
func (m *Manager) Mode() Mode { return m.mode }

// Score returns the points earned this game.
func (m *Manager) Score() int { return m.score }

// HighScore returns the best score seen, including the current game.
func (m *Manager) HighScore() int { return m.highScore }

// Lives returns the remaining lives.
func (m *Manager) Lives() int { return m.lives }

// NoDamageThisWave reports whether the player is unhurt since the wave began.
func (m *Manager) NoDamageThisWave() bool { return m.noDamage }

// IsNewHighScore reports whether this game has beaten the stored best.
func (m *Manager) IsNewHighScore() bool { return m.newHighScore }

// Initials returns the initials being entered.
func (m *Manager) Initials() string { return string(m.initials[:]) }

// InitialsCursor returns the index of the initial being edited.
func (m *Manager) InitialsCursor() int { return m.initialsCursor }

// StartGame begins a fresh game.
func (m *Manager) StartGame() {
	m.mode = Playing
	m.score = 0
	m.lives = m.rules.StartingLives
	m.noDamage = true
	m.newHighScore = false
	m.highScore = m.scores.Highest()
}

// AddScore credits points and tracks a beaten high score.
func (m *Manager) AddScore(points int) {
	m.score += points
	if m.score > m.highScore {
		m.highScore = m.score
		m.newHighScore = true
	}
}

// AwardWaveClearBonus pays the bonus for a wave finished without losing a
// life. It returns whether a bonus was paid.
func (m *Manager) AwardWaveClearBonus(wave int) bool {
	paid := m.noDamage
	if paid {
		m.AddScore(m.rules.WaveClearBonus * wave)
		if m.rules.BonusLife && m.lives < m.rules.MaxLives {
			m.lives++
		}
	}
	m.noDamage = true
	return paid
}

// LoseLife takes a life and reports whether the game is over.
func (m *Manager) LoseLife() bool {
	if m.lives > 0 {
		m.lives--
	}
	m.noDamage = false
	if m.lives == 0 {
		m.mode = GameOver
		return true
	}
	return false
}

// ReturnToTitle leaves whatever screen is showing.
func (m *Manager) ReturnToTitle() {
	m.mode = Title
}

// CheckAndEnterHighScore moves from game over to initials entry when the
// final score makes the table, otherwise back to the title.
func (m *Manager) CheckAndEnterHighScore() {
	if m.score > 0 && m.scores.IsHighScore(m.score) {
		m.mode = EnteringInitials
		m.resetInitials()
		return
	}
	m.mode = Title
}

// QualifiesForHighScore reports whether the last score would be stored.
func (m *Manager) QualifiesForHighScore() bool {
	return m.score > 0 && m.scores.IsHighScore(m.score)
}

func (m *Manager) resetInitials() {
	for i := range m.initials {
		m.initials[i] = 'A'
	}
	m.initialsCursor = 0
}

// SetCurrentInitial writes r under the cursor. Non-letters are ignored.
func (m *Manager) SetCurrentInitial(r byte) {
	if r >= 'a' && r <= 'z' {
		r -= 'a' - 'A'
	}
	if r < 'A' || r > 'Z' {
		return
	}
	m.initials[m.initialsCursor] = r
}

// CycleInitialUp steps the letter under the cursor forward, Z wraps to A.
func (m *Manager) CycleInitialUp() {
	c := m.initials[m.initialsCursor]
	if c >= 'Z' {
		c = 'A'
	} else {
		c++
	}
	m.initials[m.initialsCursor] = c
}

// CycleInitialDown steps the letter under the cursor back, A wraps to Z.
func (m *Manager) CycleInitialDown() {
	c := m.initials[m.initialsCursor]
	if c <= 'A' {
		c = 'Z'
	} else {
		c--
	}
	m.initials[m.initialsCursor] = c
}

// MoveCursorLeft selects the previous initial, stopping at the first.
func (m *Manager) MoveCursorLeft() {
	if m.initialsCursor > 0 {
		m.initialsCursor--
	}
}

// MoveCursorRight selects the next initial, stopping at the last.
func (m *Manager) MoveCursorRight() {
	if m.initialsCursor < len(m.initials)-1 {
		m.initialsCursor++
	}
}

// SubmitHighScore stores the score under the entered initials and returns
// to the title screen.
func (m *Manager) SubmitHighScore() highscore.Entry {
	e := m.scores.Add(m.score, m.Initials())
	m.highScore = m.scores.Highest()
	m.mode = Title
	return e
}
