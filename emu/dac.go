package emu

import "log/slog"

// Sample is one DAC sample extracted from the stream: the bytes written to
// the DAC data register between an enable and a disable of the DAC.
type Sample struct {
	Index int    // sequence number among emitted samples
	Rate  int    // derived playback rate in Hz
	Start int64  // tick of the first byte
	End   int64  // tick of the last byte
	Data  []byte // unsigned 8-bit mono PCM
}

// SampleSink receives finished samples.
type SampleSink interface {
	WriteSample(s Sample) error
}

// SampleCollector is a SampleSink that keeps every sample in memory.
type SampleCollector struct {
	Samples []Sample
}

// WriteSample implements SampleSink.
func (c *SampleCollector) WriteSample(s Sample) error {
	c.Samples = append(c.Samples, s)
	return nil
}

// DACExtractor accumulates DAC data writes into samples.
type DACExtractor struct {
	log  *slog.Logger
	sink SampleSink

	enabled bool
	buf     []byte
	start   int64 // -1 until the first byte after an enable
	end     int64
	next    int // index of the next sample handed to the sink
	count   int // samples the sink accepted
}

// NewDACExtractor creates an extractor that hands finished samples to sink.
// A nil sink discards them.
func NewDACExtractor(sink SampleSink, logger *slog.Logger) *DACExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &DACExtractor{
		log:   logger,
		sink:  sink,
		start: -1,
	}
}

// Write records a DAC data register ($2A) write at tick now.
// Bytes are kept even while the DAC is disabled; the next enable discards them.
func (d *DACExtractor) Write(val uint8, now int64) {
	d.buf = append(d.buf, val)
	if d.start < 0 {
		d.start = now
	}
	d.end = now
}

// SetEnabled records a DAC enable register ($2B) write at tick now.
// Enabling starts a fresh sample; disabling finishes the current one.
func (d *DACExtractor) SetEnabled(on bool, now int64) {
	if on == d.enabled {
		return
	}
	d.enabled = on
	if on {
		d.buf = d.buf[:0]
		d.start = -1
		return
	}
	d.finish(now)
}

// Count returns the number of samples the sink accepted.
func (d *DACExtractor) Count() int {
	return d.count
}

// Pending returns the number of bytes collected for the current sample.
func (d *DACExtractor) Pending() int {
	return len(d.buf)
}

func (d *DACExtractor) finish(now int64) {
	elapsed := d.end - d.start
	if d.start < 0 || elapsed <= 0 {
		d.log.Warn("skipping DAC sample with no duration",
			"bytes", len(d.buf), "tick", now)
		return
	}

	s := Sample{
		Index: d.next,
		Rate:  int(int64(len(d.buf)) * OutputRate / elapsed),
		Start: d.start,
		End:   d.end,
		Data:  append([]byte(nil), d.buf...),
	}
	d.next++
	if d.sink != nil {
		if err := d.sink.WriteSample(s); err != nil {
			d.log.Warn("failed to write DAC sample", "index", s.Index, "error", err)
			return
		}
	}
	d.count++
}
