package player

// Wire alphabet shared by all three nodes. A node accepts either a single
// command byte or a delimiter-prefixed named message on both of its
// channels; see message.go for the message grammar.

const (
	// MsgDelim opens a named message, MsgTerm closes one. MsgTerm is kept
	// in the raw buffer so an operator echo shows exactly what came in.
	MsgDelim byte = ':'
	MsgTerm  byte = ';'

	// MaxMessage bounds a single message buffer. Longer input is truncated
	// and force-terminated rather than overflowing.
	MaxMessage = 64
)

const (
	CmdHelp    byte = 'h'
	CmdReport  byte = 'r'
	CmdWakeup  byte = 'w'
	CmdSleep   byte = 's'
	CmdPlay    byte = 'p'
	CmdStop    byte = '!'
	CmdReplay  byte = 'z'
	CmdVolUp   byte = '+'
	CmdVolDown byte = '-'
	CmdPwmUp   byte = '>'
	CmdPwmDown byte = '<'
	CmdLed1    byte = '1'
	CmdLed2    byte = '2'
	CmdLed3    byte = '3'
	CmdLed4    byte = '4'
)

const (
	// StatusPrefix heads the one machine-parsed line of the protocol.
	// It is a wire format: byte-stable across nodes, fields split on '|'.
	StatusPrefix = "STATUS"
	statusArity  = 7
)

// Volume moves in 0.1 steps clamped to [0,1]; the PWM ceiling moves in
// steps of 25 clamped to [0,255].
const (
	VolumeStep = 0.1
	PwmStep    = 25
	PwmMax     = 255
)
