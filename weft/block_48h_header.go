package weft

import "io"

// fortyEightHourSectionHeader indexes a run of forty-eight-hour
// blocks covering [StartDay, EndDay). It carries no polynomial of its
// own.
//
// CoeffCount is not stored on the wire directly; per spec.md §9's open
// question, the per-header coefficient count is derived from
// BlockSize, the source of truth: CoeffCount = (BlockSize - 2 - 4) / 4.
type fortyEightHourSectionHeader struct {
	StartDay   civilDate
	EndDay     civilDate
	BlockSize  uint16
	BlockCount uint32
}

func (h *fortyEightHourSectionHeader) CoeffCount() int {
	return (int(h.BlockSize) - 2 - 4) / 4
}

func (h *fortyEightHourSectionHeader) serialize(w io.Writer) error {
	if err := writeMarker(w, marker48HourHeader); err != nil {
		return err
	}
	if err := writeCivilDate(w, h.StartDay); err != nil {
		return err
	}
	if err := writeCivilDate(w, h.EndDay); err != nil {
		return err
	}
	if err := writeU16(w, h.BlockSize); err != nil {
		return err
	}
	return writeU32(w, h.BlockCount)
}

func deserialize48HourSectionHeader(r io.Reader) (*fortyEightHourSectionHeader, error) {
	startDay, err := readCivilDate(r)
	if err != nil {
		return nil, err
	}
	endDay, err := readCivilDate(r)
	if err != nil {
		return nil, err
	}
	blockSize, err := readU16(r)
	if err != nil {
		return nil, err
	}
	blockCount, err := readU32(r)
	if err != nil {
		return nil, err
	}
	if blockSize < 6 || (int(blockSize)-6)%4 != 0 {
		return nil, ErrFormat
	}
	if !startDay.Before(endDay) {
		return nil, ErrFormat
	}
	if startDay.DaysUntil(endDay) > 400 {
		return nil, ErrFormat
	}
	return &fortyEightHourSectionHeader{
		StartDay:   startDay,
		EndDay:     endDay,
		BlockSize:  blockSize,
		BlockCount: blockCount,
	}, nil
}
