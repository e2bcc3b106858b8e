// Package input turns raw terminal bytes into the per-frame actions the game
// understands.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a movement key counts as held after its last
// byte. Terminals only report repeats, never key-up.
const keyHoldDuration = 90 * time.Millisecond

// Input is one frame of player intent. Left and Right are held state; every
// other field reports a press that arrived this frame.
type Input struct {
	Quit  bool
	Left  bool
	Right bool

	Fire      bool // space, up arrow or w
	Space     bool
	Enter     bool
	Backspace bool
	Up        bool // arrow keys only, so letters stay free for initials
	Down      bool
	LeftKey   bool
	RightKey  bool
	Letters   []byte // A-Z typed this frame, upper-cased
	Activity  bool   // any byte arrived this frame
}

// Direction returns the horizontal movement: -1, 0 or +1.
func (in Input) Direction() float64 {
	switch {
	case in.Left && !in.Right:
		return -1
	case in.Right && !in.Left:
		return 1
	default:
		return 0
	}
}

// keyState tracks the last time each movement key was seen.
type keyState struct {
	left  time.Time
	right time.Time
}

// Stream delivers input bytes via a channel and tracks held keys.
type Stream struct {
	ch     chan byte
	state  keyState
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// The goroutine ends when r returns an error.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool { return s.closed }

// ResetKeyInput forgets held keys, e.g. when a new game starts.
func ResetKeyInput(s *Stream) {
	s.state = keyState{}
}

// ReadInput drains all available bytes from the stream without blocking.
func ReadInput(s *Stream) Input {
	var buf []byte
drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}
	in := parse(&s.state, buf, time.Now())
	if s.closed {
		in.Quit = true
	}
	return in
}

// parse decodes one frame's bytes, updating held-key timestamps in state.
func parse(state *keyState, buf []byte, now time.Time) Input {
	in := Input{Activity: len(buf) > 0}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' {
			// CSI sequence: ESC [ <code>, also ESC O <code> in application mode.
			if i+2 < len(buf) && (buf[i+1] == '[' || buf[i+1] == 'O') {
				switch buf[i+2] {
				case 'A':
					in.Up = true
					in.Fire = true
				case 'B':
					in.Down = true
				case 'C':
					in.RightKey = true
					state.right = now
				case 'D':
					in.LeftKey = true
					state.left = now
				}
				i += 2
				continue
			}
			in.Quit = true
			continue
		}

		switch {
		case b == 0x03:
			in.Quit = true
		case b == ' ':
			in.Space = true
			in.Fire = true
		case b == '\r' || b == '\n':
			in.Enter = true
		case b == 0x7f || b == '\b':
			in.Backspace = true
		case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z':
			upper := b &^ 0x20
			in.Letters = append(in.Letters, upper)
			switch upper {
			case 'A':
				state.left = now
			case 'D':
				state.right = now
			case 'W':
				in.Fire = true
			}
		}
	}

	in.Left = now.Sub(state.left) < keyHoldDuration
	in.Right = now.Sub(state.right) < keyHoldDuration
	return in
}
