package beam

import (
	"github.com/wippyai/beamfile/beam/internal/binary"
	"github.com/wippyai/beamfile/errors"
)

// readHeader validates the FOR1/BEAM framing and returns the absolute
// offset where the container ends.
func readHeader(r *binary.Reader) (int64, error) {
	if err := matchTag(r, MagicForm); err != nil {
		return 0, err
	}
	length, err := r.ReadU32()
	if err != nil {
		return 0, errors.Annotate(err, errors.PhaseHeader, "")
	}
	if err := matchTag(r, MagicBEAM); err != nil {
		return 0, err
	}
	return int64(length) + formPrefix, nil
}

func matchTag(r *binary.Reader, want string) error {
	at := r.Position()
	got, err := r.ReadTag()
	if err != nil {
		return errors.Annotate(err, errors.PhaseHeader, "")
	}
	if got != want {
		return errors.MalformedHeader(at, want, got)
	}
	return nil
}
