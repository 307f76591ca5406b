package weft

import "time"

// Combine merges two compatible .weft files covering different (or
// overlapping) spans of the same body/quantity into one. Grounded on
// spec.md §7: files are combinable only when they agree on body,
// source tag, precision, quantity, and value behavior; the merge
// concatenates each layer's blocks, keeping a's block whenever both
// files carry one with identical identity, then re-sorts every layer.
// There is no teacher analogue for this operation -- jpleph reads a
// single monolithic kernel and never merges files -- so its shape
// follows writer.go's own assembly pass instead.
func Combine(a, b *File) (*File, error) {
	if !a.Preamble.compatibleWith(b.Preamble) {
		return nil, ErrIncompatibleFiles
	}

	out := &File{Preamble: a.Preamble}
	out.MultiYear = mergeMultiYear(a.MultiYear, b.MultiYear)
	out.Monthly = mergeMonthly(a.Monthly, b.Monthly)
	out.Sections = mergeSections(a.Sections, b.Sections)
	out.sortBlocks()

	start, end := out.span()
	out.Preamble.Timespan = descriptiveTimespan(start, end)
	out.Preamble.Generated = time.Now().UTC()
	return out, nil
}

func mergeMultiYear(a, b []*multiYearBlock) []*multiYearBlock {
	seen := make(map[[2]int]bool, len(a))
	out := make([]*multiYearBlock, 0, len(a)+len(b))
	for _, blk := range a {
		key := [2]int{int(blk.StartYear), int(blk.Duration)}
		seen[key] = true
		out = append(out, blk)
	}
	for _, blk := range b {
		key := [2]int{int(blk.StartYear), int(blk.Duration)}
		if !seen[key] {
			out = append(out, blk)
		}
	}
	return out
}

func mergeMonthly(a, b []*monthlyBlock) []*monthlyBlock {
	seen := make(map[[2]int]bool, len(a))
	out := make([]*monthlyBlock, 0, len(a)+len(b))
	for _, blk := range a {
		key := [2]int{int(blk.Year), int(blk.Month)}
		seen[key] = true
		out = append(out, blk)
	}
	for _, blk := range b {
		key := [2]int{int(blk.Year), int(blk.Month)}
		if !seen[key] {
			out = append(out, blk)
		}
	}
	return out
}

func mergeSections(a, b []*fortyEightHourSection) []*fortyEightHourSection {
	type dayKey struct {
		y int16
		m uint8
		d uint8
	}
	seen := make(map[dayKey]bool)
	var out []*fortyEightHourSection

	flatten := func(sections []*fortyEightHourSection) []*fortyEightHourBlock {
		var blocks []*fortyEightHourBlock
		for _, sec := range sections {
			blocks = append(blocks, sec.blocks...)
		}
		return blocks
	}

	var merged []*fortyEightHourBlock
	coeffCount := 0
	for _, blk := range flatten(a) {
		key := dayKey{blk.Center.Year, blk.Center.Month, blk.Center.Day}
		if !seen[key] {
			seen[key] = true
			merged = append(merged, blk)
			if len(blk.Coeffs) > coeffCount {
				coeffCount = len(blk.Coeffs)
			}
		}
	}
	for _, blk := range flatten(b) {
		key := dayKey{blk.Center.Year, blk.Center.Month, blk.Center.Day}
		if !seen[key] {
			seen[key] = true
			merged = append(merged, blk)
			if len(blk.Coeffs) > coeffCount {
				coeffCount = len(blk.Coeffs)
			}
		}
	}
	if len(merged) == 0 {
		return nil
	}

	// Re-sectioned into contiguous day-runs: a new header starts
	// whenever the previous block's center isn't exactly one day
	// before the next, mirroring the writer's own section-splitting
	// rule.
	sortBlocksByCenter(merged)
	var run []*fortyEightHourBlock
	flushRun := func() {
		if len(run) == 0 {
			return
		}
		header := &fortyEightHourSectionHeader{
			StartDay:   run[0].Center.AddDays(-1),
			EndDay:     run[len(run)-1].Center.AddDays(1),
			BlockSize:  uint16(fortyEightHourBlockSize(coeffCount)),
			BlockCount: uint32(len(run)),
		}
		out = append(out, &fortyEightHourSection{header: header, blocks: run})
		run = nil
	}
	for i, blk := range merged {
		if i > 0 && merged[i-1].Center.AddDays(1) != blk.Center {
			flushRun()
		}
		run = append(run, blk)
	}
	flushRun()
	return out
}

func sortBlocksByCenter(blocks []*fortyEightHourBlock) {
	for i := 1; i < len(blocks); i++ {
		for j := i; j > 0 && blocks[j].Center.Before(blocks[j-1].Center); j-- {
			blocks[j], blocks[j-1] = blocks[j-1], blocks[j]
		}
	}
}

// span returns the overall [earliest start, latest end) covered by f
// across every layer, used by Combine to describe the merged file.
func (f *File) span() (time.Time, time.Time) {
	var start, end time.Time
	consider := func(s, e time.Time) {
		if start.IsZero() || s.Before(start) {
			start = s
		}
		if end.IsZero() || e.After(end) {
			end = e
		}
	}
	for _, b := range f.MultiYear {
		consider(b.startTime(), b.endTime())
	}
	for _, b := range f.Monthly {
		consider(b.startTime(), b.endTime())
	}
	for _, sec := range f.Sections {
		if len(sec.blocks) == 0 {
			continue
		}
		consider(sec.blocks[0].startTime(), sec.blocks[len(sec.blocks)-1].endTime())
	}
	return start, end
}
