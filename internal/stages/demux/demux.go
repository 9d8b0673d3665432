// Package demux splits the multiplexed exec stream into stdout and stderr.
//
// Every frame is an 8 byte header followed by a payload:
//
//	[tag, 0, 0, 0, size1, size2, size3, size4][payload...]
//
// tag 1 is stdout, tag 2 is stderr and size is a big-endian uint32. Frames may
// be split across any number of reads; the Decoder keeps the partial header or
// the remaining payload length between calls to Write.
package demux

import (
	"bytes"
	"encoding/binary"
	"io"
)

const (
	headerLen = 8

	StreamStdout byte = 1
	StreamStderr byte = 2
)

type state int

const (
	stateHeader state = iota
	statePayload
	stateHalted
)

type Output struct {
	Stdout string
	Stderr string
	// Truncated is set when a stream exceeded the configured limit.
	Truncated bool
	// Halted is set when an unknown stream tag ended decoding early.
	Halted bool
}

type Decoder struct {
	state     state
	header    [headerLen]byte
	headerN   int
	stream    byte
	remaining uint32
	limit     int
	truncated bool
	stdout    bytes.Buffer
	stderr    bytes.Buffer
}

// NewDecoder returns a decoder keeping at most limit bytes per stream.
// A limit of zero or less keeps everything.
func NewDecoder(limit int) *Decoder {
	return &Decoder{limit: limit}
}

// Write consumes one chunk of the stream. It never fails so it can sit behind
// io.Copy; bytes after an unknown tag are accepted and dropped.
func (d *Decoder) Write(p []byte) (int, error) {
	n := len(p)
	for len(p) > 0 {
		switch d.state {
		case stateHalted:
			return n, nil

		case stateHeader:
			c := copy(d.header[d.headerN:], p)
			d.headerN += c
			p = p[c:]
			if d.headerN < headerLen {
				return n, nil
			}
			d.headerN = 0
			d.stream = d.header[0]
			if d.stream != StreamStdout && d.stream != StreamStderr {
				d.state = stateHalted
				return n, nil
			}
			d.remaining = binary.BigEndian.Uint32(d.header[4:])
			if d.remaining > 0 {
				d.state = statePayload
			}

		case statePayload:
			c := len(p)
			if uint32(c) > d.remaining {
				c = int(d.remaining)
			}
			d.append(p[:c])
			d.remaining -= uint32(c)
			p = p[c:]
			if d.remaining == 0 {
				d.state = stateHeader
			}
		}
	}
	return n, nil
}

func (d *Decoder) append(chunk []byte) {
	buf := &d.stdout
	if d.stream == StreamStderr {
		buf = &d.stderr
	}
	if d.limit > 0 {
		room := d.limit - buf.Len()
		if room < len(chunk) {
			d.truncated = true
			if room <= 0 {
				return
			}
			chunk = chunk[:room]
		}
	}
	buf.Write(chunk)
}

// Partial reports whether the stream stopped in the middle of a frame.
func (d *Decoder) Partial() bool {
	return d.state == statePayload || (d.state == stateHeader && d.headerN > 0)
}

func (d *Decoder) Output() Output {
	return Output{
		Stdout:    d.stdout.String(),
		Stderr:    d.stderr.String(),
		Truncated: d.truncated,
		Halted:    d.state == stateHalted,
	}
}

// Demultiplex reads r until EOF. A read error other than EOF is returned with
// whatever was decoded so far.
func Demultiplex(r io.Reader, limit int) (Output, error) {
	dec := NewDecoder(limit)
	_, err := io.Copy(dec, r)
	return dec.Output(), err
}
