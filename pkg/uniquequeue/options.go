package uniquequeue

import "go.uber.org/zap"

type options struct {
	log *zap.Logger
}

// Option configures a UniqueQueue.
type Option func(*options)

// WithLogger sets the logger used for debug output about blocked callers.
// A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}
