package render

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/fxamacker/cbor/v2"

	"github.com/wippyai/beamfile/beam"
	"github.com/wippyai/beamfile/errors"
)

// encMode encodes scalars and arrays with Core Deterministic Encoding
// (RFC 8949 §4.2). Maps are written by hand to keep chunk order.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("render: CBOR encoder initialization failed: " + err.Error())
	}
}

const majorMap = 5

func encodeCBOR(buf *bytes.Buffer, c *beam.Container) error {
	return encodeOrderedMap(buf, c.Tags(), func(tag string) any {
		v, _ := c.Lookup(tag)
		return v
	})
}

func encodeOrderedMap(buf *bytes.Buffer, keys []string, value func(string) any) error {
	writeHead(buf, majorMap, uint64(len(keys)))
	for _, key := range keys {
		if err := encodeCBORValue(buf, key); err != nil {
			return err
		}
		if err := encodeCBORValue(buf, value(key)); err != nil {
			return err
		}
	}
	return nil
}

func encodeCBORValue(buf *bytes.Buffer, v any) error {
	if t, ok := v.(*beam.ExportTable); ok {
		return encodeOrderedMap(buf, t.Keys(), func(key string) any {
			label, _ := t.Get(key)
			return label
		})
	}
	data, err := encMode.Marshal(v)
	if err != nil {
		return errors.New(errors.KindInvalidInput).
			Phase(errors.PhaseRender).
			Detail("encode cbor %T", v).
			Cause(err).
			Build()
	}
	buf.Write(data)
	return nil
}

// writeHead writes a CBOR data item head for the given major type and
// argument (RFC 8949 §3).
func writeHead(buf *bytes.Buffer, major byte, n uint64) {
	m := major << 5
	switch {
	case n < 24:
		buf.WriteByte(m | byte(n))
	case n <= math.MaxUint8:
		buf.WriteByte(m | 24)
		buf.WriteByte(byte(n))
	case n <= math.MaxUint16:
		buf.WriteByte(m | 25)
		buf.Write(binary.BigEndian.AppendUint16(nil, uint16(n)))
	case n <= math.MaxUint32:
		buf.WriteByte(m | 26)
		buf.Write(binary.BigEndian.AppendUint32(nil, uint32(n)))
	default:
		buf.WriteByte(m | 27)
		buf.Write(binary.BigEndian.AppendUint64(nil, n))
	}
}
