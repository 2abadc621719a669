package player

// NodeContext is the single owner of all mutable node state. Every
// component gets handed the same instance; each field keeps a single
// writer (power sequencer: Awake, audio bookkeeping: Playing, command
// registry: the rest), all of them on the control-loop goroutine.
type NodeContext struct {
	Role     Role
	FileName string

	Awake   bool
	Playing bool

	TrackIteration int // playback count this session, reset on power-up
	Volume         float64
	PWMCeiling     int

	LedState    [4]bool
	CurrentCode int // last code shown on the 4-LED display
}

func NewNodeContext(cfg *Config) *NodeContext {
	return &NodeContext{
		Role:       cfg.Role,
		FileName:   cfg.Role.FileName(),
		Volume:     float64(cfg.Volume),
		PWMCeiling: cfg.PWMCeiling,
	}
}
