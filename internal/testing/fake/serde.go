package fake

import (
	"encoding/json"

	"go.dedis.ch/ledgertx/serde"
)

const (
	// GoodFormat is the format of a fake context whose engine never fails.
	GoodFormat = serde.Format("FakeGood")

	// BadFormat is the format of a fake context whose engine always fails.
	BadFormat = serde.Format("FakeBad")
)

var fakeFormatValue = []byte("fake format")

// GetFakeFormatValue returns the data produced by the fake format.
func GetFakeFormatValue() []byte {
	return append([]byte{}, fakeFormatValue...)
}

// Message is a fake implementation of a serde message.
//
// - implements serde.Message
type Message struct {
	Digest []byte
}

// Serialize implements serde.Message. It returns the fake format value.
func (m Message) Serialize(serde.Context) ([]byte, error) {
	return GetFakeFormatValue(), nil
}

// MessageFactory is a fake implementation of a serde factory.
//
// - implements serde.Factory
type MessageFactory struct {
	err error
}

// NewBadMessageFactory returns a factory that always fails.
func NewBadMessageFactory() MessageFactory {
	return MessageFactory{err: fakeErr}
}

// Deserialize implements serde.Factory.
func (f MessageFactory) Deserialize(serde.Context, []byte) (serde.Message, error) {
	return Message{}, f.err
}

// Format is a fake format engine. It returns the message it was created with
// when decoding, and the fake format value when encoding.
//
// - implements serde.FormatEngine
type Format struct {
	err  error
	Msg  serde.Message
	Call *Call
}

// NewBadFormat returns a format engine that always fails.
func NewBadFormat() Format {
	return Format{err: fakeErr}
}

// Encode implements serde.FormatEngine.
func (f Format) Encode(ctx serde.Context, msg serde.Message) ([]byte, error) {
	if f.Call != nil {
		f.Call.Add(ctx, msg)
	}

	if f.err != nil {
		return nil, f.err
	}

	return GetFakeFormatValue(), nil
}

// Decode implements serde.FormatEngine.
func (f Format) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	if f.Call != nil {
		f.Call.Add(ctx, data)
	}

	return f.Msg, f.err
}

// ContextEngine is a fake implementation of a context engine. It marshals with
// the JSON encoding unless it is configured to fail.
//
// - implements serde.ContextEngine
type ContextEngine struct {
	format serde.Format
	err    error
}

// GetFormat implements serde.ContextEngine.
func (e ContextEngine) GetFormat() serde.Format {
	return e.format
}

// Marshal implements serde.ContextEngine.
func (e ContextEngine) Marshal(m interface{}) ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}

	return json.Marshal(m)
}

// Unmarshal implements serde.ContextEngine.
func (e ContextEngine) Unmarshal(data []byte, m interface{}) error {
	if e.err != nil {
		return e.err
	}

	return json.Unmarshal(data, m)
}

// NewContext returns a context using the good format.
func NewContext() serde.Context {
	return NewContextWithFormat(GoodFormat)
}

// NewContextWithFormat returns a context using the given format.
func NewContextWithFormat(f serde.Format) serde.Context {
	return serde.NewContext(ContextEngine{format: f})
}

// NewBadContext returns a context using the bad format.
func NewBadContext() serde.Context {
	return serde.NewContext(ContextEngine{format: BadFormat, err: fakeErr})
}
