// Wrap the Velocidex json fork to control encoding of ordered rows.
package json

import (
	"bytes"
	"sync"

	"github.com/Velocidex/json"
	"github.com/Velocidex/ordereddict"
)

var (
	mu       sync.Mutex
	handlers = []*encoderHandler{}
)

type encoderHandler struct {
	sample interface{}
	cb     json.EncoderCallback
}

// RegisterCustomEncoder adds an encoder callback for a sample type. Should
// be called once from an init() function.
func RegisterCustomEncoder(sample interface{}, cb json.EncoderCallback) {
	mu.Lock()
	defer mu.Unlock()

	handlers = append(handlers, &encoderHandler{sample, cb})
}

// NewEncOpts builds encoder options carrying all registered callbacks.
func NewEncOpts() *json.EncOpts {
	mu.Lock()
	defer mu.Unlock()

	opts := json.NewEncOpts()
	for _, h := range handlers {
		opts.WithCallback(h.sample, h.cb)
	}
	return opts
}

// marshalDict serializes an ordereddict preserving key order. Field order
// is the table's column order, so exports read back in the same shape they
// were written.
func marshalDict(v interface{}, opts *json.EncOpts) ([]byte, error) {
	self, ok := v.(*ordereddict.Dict)
	if !ok {
		return nil, json.EncoderCallbackSkip
	}

	buf := bytes.Buffer{}
	buf.WriteByte('{')
	for i, k := range self.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}

		kSerialized, err := json.MarshalWithOptions(k, opts)
		if err != nil {
			return nil, err
		}
		buf.Write(kSerialized)
		buf.WriteByte(':')

		value, pres := self.Get(k)
		if !pres {
			value = nil
		}
		vSerialized, err := json.MarshalWithOptions(value, opts)
		if err != nil {
			buf.WriteString("null")
		} else {
			buf.Write(vSerialized)
		}
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func init() {
	RegisterCustomEncoder(ordereddict.NewDict(), marshalDict)
}
