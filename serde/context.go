package serde

// ContextEngine is the interface to implement to create a context for a given
// format.
type ContextEngine interface {
	// GetFormat returns the format of the engine.
	GetFormat() Format

	// Marshal returns the bytes of the message in the format of the engine.
	Marshal(message interface{}) ([]byte, error)

	// Unmarshal populates the message from the data in the format of the
	// engine.
	Unmarshal(data []byte, message interface{}) error
}

// Context is passed along a serialization or a deserialization request. It
// carries the engine of the format and the factories that a format engine may
// need to decode nested messages.
type Context struct {
	ContextEngine

	factories map[interface{}]Factory
}

// NewContext returns a new context without any factory.
func NewContext(engine ContextEngine) Context {
	return Context{
		ContextEngine: engine,
		factories:     make(map[interface{}]Factory),
	}
}

// GetFactory returns the factory associated with the key, or nil.
func (ctx Context) GetFactory(key interface{}) Factory {
	return ctx.factories[key]
}

// WithFactory returns a copy of the context where the factory is available
// under the key. The parent context is left untouched.
func WithFactory(ctx Context, key interface{}, f Factory) Context {
	factories := make(map[interface{}]Factory, len(ctx.factories)+1)

	for k, v := range ctx.factories {
		factories[k] = v
	}

	factories[key] = f

	ctx.factories = factories

	return ctx
}
