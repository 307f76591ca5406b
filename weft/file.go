package weft

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"
)

// fortyEightHourSection is a section header together with the run of
// forty-eight-hour blocks it governs, in on-disk order.
type fortyEightHourSection struct {
	header *fortyEightHourSectionHeader
	blocks []*fortyEightHourBlock
}

// File is a parsed .weft file: its preamble plus every block, grouped
// by layer. Block order within each layer is preserved from disk.
type File struct {
	Preamble  Preamble
	MultiYear []*multiYearBlock
	Monthly   []*monthlyBlock
	Sections  []*fortyEightHourSection
}

// Parse reads a complete .weft file from r. Input that ends partway
// through a block is reported as ErrFormat.
func Parse(r io.Reader) (f *File, err error) {
	defer func() {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			f, err = nil, fmt.Errorf("%w: truncated block", ErrFormat)
		}
	}()
	br := bufio.NewReader(r)
	preamble, err := parsePreamble(br)
	if err != nil {
		return nil, err
	}
	f = &File{Preamble: preamble}

	var current *fortyEightHourSection
	for {
		marker, err := readMarker(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch marker {
		case markerMultiYear:
			b, err := deserializeMultiYearBlock(br)
			if err != nil {
				return nil, err
			}
			f.MultiYear = append(f.MultiYear, b)
		case markerMonthly:
			b, err := deserializeMonthlyBlock(br)
			if err != nil {
				return nil, err
			}
			f.Monthly = append(f.Monthly, b)
		case marker48HourHeader:
			h, err := deserialize48HourSectionHeader(br)
			if err != nil {
				return nil, err
			}
			current = &fortyEightHourSection{header: h}
			f.Sections = append(f.Sections, current)
		case marker48Hour:
			if current == nil {
				return nil, ErrFormat
			}
			b, err := deserialize48HourBlock(br, current.header.CoeffCount())
			if err != nil {
				return nil, err
			}
			current.blocks = append(current.blocks, b)
		default:
			return nil, ErrFormat
		}
	}
	return f, nil
}

// Write serializes f to w: preamble, multi-year blocks, monthly
// blocks, then each forty-eight-hour section (header followed by its
// blocks), in that layer order.
func (f *File) Write(w io.Writer) error {
	if err := writePreamble(w, f.Preamble); err != nil {
		return err
	}
	for _, b := range f.MultiYear {
		if err := b.serialize(w); err != nil {
			return err
		}
	}
	for _, b := range f.Monthly {
		if err := b.serialize(w); err != nil {
			return err
		}
	}
	for _, sec := range f.Sections {
		if err := sec.header.serialize(w); err != nil {
			return err
		}
		coeffCount := sec.header.CoeffCount()
		for _, b := range sec.blocks {
			if err := b.serialize(w, coeffCount); err != nil {
				return err
			}
		}
	}
	return nil
}

// find48HourCandidates returns every 48h block across every section
// whose span contains t, in on-disk order.
func (f *File) find48HourCandidates(t time.Time) []*fortyEightHourBlock {
	var out []*fortyEightHourBlock
	for _, sec := range f.Sections {
		for _, b := range sec.blocks {
			if b.Contains(t) {
				out = append(out, b)
			}
		}
	}
	return out
}

func (f *File) findMonthly(t time.Time) *monthlyBlock {
	for _, b := range f.Monthly {
		if b.Contains(t) {
			return b
		}
	}
	return nil
}

func (f *File) findMultiYear(t time.Time) *multiYearBlock {
	for _, b := range f.MultiYear {
		if b.Contains(t) {
			return b
		}
	}
	return nil
}

// GetValue evaluates the file at t, applying the block-selection
// priority from spec.md §5: a covering 48h block (or a blend of two
// overlapping ones) beats a covering monthly block, which beats a
// covering multi-year block. The raw polynomial result is normalized
// per the preamble's declared value behavior. Returns ErrNoBlock if no
// block covers t.
func (f *File) GetValue(t time.Time) (float64, error) {
	raw, err := f.rawValue(t)
	if err != nil {
		return 0, err
	}
	return f.Preamble.Behavior.Normalize(raw), nil
}

func (f *File) rawValue(t time.Time) (float64, error) {
	if candidates := f.find48HourCandidates(t); len(candidates) > 0 {
		switch len(candidates) {
		case 1:
			return candidates[0].Evaluate(t)
		default:
			return blend48Hour(t, candidates[0], candidates[1], f.Preamble.Behavior)
		}
	}
	if m := f.findMonthly(t); m != nil {
		return m.Evaluate(t)
	}
	if y := f.findMultiYear(t); y != nil {
		return y.Evaluate(t)
	}
	return 0, ErrNoBlock
}

// blend48Hour combines two overlapping forty-eight-hour blocks with a
// symmetric triangular weighting based on proximity of t to each
// block's center day: weight 1 at that block's own center, weight 0 at
// the other block's center. Grounded on spec.md §5's two-block blend
// rule. For wrapping quantities, b's raw value is unwrapped toward a's
// before the weighted sum, so the blend never crosses the wrap seam.
func blend48Hour(t time.Time, a, b *fortyEightHourBlock, behavior Behavior) (float64, error) {
	va, err := a.Evaluate(t)
	if err != nil {
		return 0, err
	}
	vb, err := b.Evaluate(t)
	if err != nil {
		return 0, err
	}

	centerA := a.Center.Midnight()
	centerB := b.Center.Midnight()
	total := centerB.Sub(centerA).Seconds()
	if total == 0 {
		return va, nil
	}
	wB := t.Sub(centerA).Seconds() / total
	wA := 1 - wB

	if behavior.Kind == Wrapping {
		r := behavior.Range()
		if r > 0 {
			for vb-va > r/2 {
				vb -= r
			}
			for vb-va <= -r/2 {
				vb += r
			}
		}
	}
	return wA*va + wB*vb, nil
}

// sortBlocks orders multi-year blocks longest duration first and then
// by start year, and every other layer's blocks (and each section's
// blocks) by start time; used by the writer and by Combine before
// serializing a merged file.
func (f *File) sortBlocks() {
	sort.Slice(f.MultiYear, func(i, j int) bool {
		a, b := f.MultiYear[i], f.MultiYear[j]
		if a.Duration != b.Duration {
			return a.Duration > b.Duration
		}
		return a.StartYear < b.StartYear
	})
	sort.Slice(f.Monthly, func(i, j int) bool {
		return f.Monthly[i].startTime().Before(f.Monthly[j].startTime())
	})
	sort.Slice(f.Sections, func(i, j int) bool {
		return f.Sections[i].header.StartDay.Before(f.Sections[j].header.StartDay)
	})
	for _, sec := range f.Sections {
		sort.Slice(sec.blocks, func(i, j int) bool {
			return sec.blocks[i].Center.Before(sec.blocks[j].Center)
		})
	}
}
