package events

import "errors"

// Logger defines a standard interface for structured, leveled logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// BroadcasterConfig holds the configuration for a Broadcaster.
type BroadcasterConfig struct {
	BufferSize uint
	Logger     Logger
}

// validate checks if the configuration is valid.
func (c *BroadcasterConfig) validate() error {
	if c.BufferSize < 1 {
		return errors.New("config: BufferSize must be greater than 0")
	}
	if c.Logger == nil {
		return errors.New("config: Logger is required")
	}
	return nil
}

// Broadcaster is a Sink that fans notifications into a buffered channel for
// out-of-band consumers. Sends never block the engine: if the buffer is full
// the notification is dropped and a warning is logged. Consumers that cannot
// tolerate drops should size the buffer for their worst-case lag.
type Broadcaster struct {
	eventCh chan Notification
	logger  Logger
}

// NewBroadcaster constructs a Broadcaster from a configuration.
func NewBroadcaster(cfg *BroadcasterConfig) (*Broadcaster, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Broadcaster{
		eventCh: make(chan Notification, cfg.BufferSize),
		logger:  cfg.Logger,
	}, nil
}

// Events returns a read-only channel for receiving notifications.
func (b *Broadcaster) Events() <-chan Notification {
	return b.eventCh
}

func (b *Broadcaster) OnLiquidityAdded(e LiquidityAdded) {
	b.send(Notification{Kind: KindLiquidityAdded, LiquidityAdded: &e})
}

func (b *Broadcaster) OnLiquidityRemoved(e LiquidityRemoved) {
	b.send(Notification{Kind: KindLiquidityRemoved, LiquidityRemoved: &e})
}

func (b *Broadcaster) OnSwap(e Swap) {
	b.send(Notification{Kind: KindSwap, Swap: &e})
}

func (b *Broadcaster) send(n Notification) {
	select {
	case b.eventCh <- n:
	default:
		b.logger.Warn("notification buffer full, dropping event", "kind", n.Kind)
	}
}

// LogSink is a Sink that writes every notification through a Logger.
type LogSink struct {
	Logger Logger
}

func (s LogSink) OnLiquidityAdded(e LiquidityAdded) {
	s.Logger.Info("liquidity added",
		"provider", e.Provider,
		"amountA", e.AmountA,
		"amountB", e.AmountB,
		"sharesMinted", e.SharesMinted,
	)
}

func (s LogSink) OnLiquidityRemoved(e LiquidityRemoved) {
	s.Logger.Info("liquidity removed",
		"provider", e.Provider,
		"sharesBurned", e.SharesBurned,
		"amountA", e.AmountA,
		"amountB", e.AmountB,
	)
}

func (s LogSink) OnSwap(e Swap) {
	s.Logger.Info("swap",
		"caller", e.Caller,
		"direction", e.Direction,
		"amountIn", e.AmountIn,
		"amountOut", e.AmountOut,
	)
}
