package weft

import (
	"encoding/binary"
	"io"
	"math"
	"time"
)

// blockMarker identifies the four concrete block kinds on the wire.
// Values are fixed 2-byte big-endian tags; see spec.md §4.2.
type blockMarker uint16

const (
	markerMonthly      blockMarker = 0x0000
	marker48Hour       blockMarker = 0x0001
	marker48HourHeader blockMarker = 0x0002
	markerMultiYear    blockMarker = 0x0003
)

// All integers and floats in a .weft file are big-endian, unlike the
// teacher's little-endian JPL DE kernels (defaultByteOrder in
// binary_reader.go). The helpers below mirror that file's shape --
// one reader/writer pair per wire width -- against binary.BigEndian.

func readMarker(r io.Reader) (blockMarker, error) {
	var v uint16
	if err := binary.Read(r, binary.BigEndian, &v); err != nil {
		return 0, err
	}
	return blockMarker(v), nil
}

func writeMarker(w io.Writer, m blockMarker) error {
	return binary.Write(w, binary.BigEndian, uint16(m))
}

func readU8(r io.Reader) (uint8, error) {
	var v uint8
	err := binary.Read(r, binary.BigEndian, &v)
	return v, err
}

func readU16(r io.Reader) (uint16, error) {
	var v uint16
	err := binary.Read(r, binary.BigEndian, &v)
	return v, err
}

func readI16(r io.Reader) (int16, error) {
	var v int16
	err := binary.Read(r, binary.BigEndian, &v)
	return v, err
}

func readU32(r io.Reader) (uint32, error) {
	var v uint32
	err := binary.Read(r, binary.BigEndian, &v)
	return v, err
}

func readF32(r io.Reader) (float32, error) {
	var v uint32
	if err := binary.Read(r, binary.BigEndian, &v); err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func writeU8(w io.Writer, v uint8) error   { return binary.Write(w, binary.BigEndian, v) }
func writeU16(w io.Writer, v uint16) error { return binary.Write(w, binary.BigEndian, v) }
func writeI16(w io.Writer, v int16) error  { return binary.Write(w, binary.BigEndian, v) }
func writeU32(w io.Writer, v uint32) error { return binary.Write(w, binary.BigEndian, v) }
func writeF32(w io.Writer, v float32) error {
	return binary.Write(w, binary.BigEndian, math.Float32bits(v))
}

// civilDate is a UTC calendar date with no time-of-day component, the
// (year, month, day) identity used by 48h blocks and section headers.
type civilDate struct {
	Year  int16
	Month uint8
	Day   uint8
}

func civilDateOf(t time.Time) civilDate {
	t = t.UTC()
	y, m, d := t.Date()
	return civilDate{Year: int16(y), Month: uint8(m), Day: uint8(d)}
}

// Midnight returns the UTC instant at 00:00:00 on this date.
func (d civilDate) Midnight() time.Time {
	return time.Date(int(d.Year), time.Month(d.Month), int(d.Day), 0, 0, 0, 0, time.UTC)
}

func (d civilDate) AddDays(n int) civilDate {
	return civilDateOf(d.Midnight().AddDate(0, 0, n))
}

func (d civilDate) Before(o civilDate) bool {
	return d.Midnight().Before(o.Midnight())
}

func (d civilDate) Equal(o civilDate) bool {
	return d.Year == o.Year && d.Month == o.Month && d.Day == o.Day
}

// DaysUntil returns the signed day count from d to o.
func (d civilDate) DaysUntil(o civilDate) int {
	hours := o.Midnight().Sub(d.Midnight()).Hours()
	return int(math.Round(hours / 24))
}

func readCivilDate(r io.Reader) (civilDate, error) {
	y, err := readU16(r)
	if err != nil {
		return civilDate{}, err
	}
	m, err := readU8(r)
	if err != nil {
		return civilDate{}, err
	}
	d, err := readU8(r)
	if err != nil {
		return civilDate{}, err
	}
	return civilDate{Year: int16(y), Month: m, Day: d}, nil
}

func writeCivilDate(w io.Writer, d civilDate) error {
	if err := writeU16(w, uint16(d.Year)); err != nil {
		return err
	}
	if err := writeU8(w, d.Month); err != nil {
		return err
	}
	return writeU8(w, d.Day)
}

// daysInMonth returns the number of days in the given calendar month.
func daysInMonth(year int, month time.Month) int {
	firstOfNext := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
	lastOfThis := firstOfNext.AddDate(0, 0, -1)
	return lastOfThis.Day()
}
