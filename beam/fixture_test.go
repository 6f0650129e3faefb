package beam

import (
	"github.com/wippyai/beamfile/testbed"
)

type chunk = testbed.Chunk

var (
	u32           = testbed.U32
	atomPayload   = testbed.AtomPayload
	triplePayload = testbed.TablePayload
	record        = testbed.Record
	buildBEAM     = testbed.Build
	frame         = testbed.Frame
)
