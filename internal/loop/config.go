package loop

// Terminal rendering. The playfield is 4:3 and a cell holds two pixels
// stacked vertically, so 160x60 cells keep the aspect.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 60
	maxFrameDelta = 0.1 // seconds; longer stalls are not simulated
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // notice shown before auto-disconnect
)

// Inactivity, only for sessions that ask for it
const (
	InactivityWarnUser       = 90  // seconds
	InactivityDisconnectUser = 120 // seconds
)
