// Package trace records a session as zstd-compressed JSONL and replays it to check determinism
package trace

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/lixenwraith/wobble-tower/config"
)

// Version is the trace format version written in every header
const Version = 1

var (
	// ErrDigestMismatch reports a replayed tick whose state differs from the recording
	ErrDigestMismatch = errors.New("digest mismatch")
	// ErrFormat reports a malformed or unsupported trace stream
	ErrFormat = errors.New("malformed trace")
)

// Header is the first line of a trace
type Header struct {
	Version int           `json:"version"`
	Tuning  config.Tuning `json:"tuning"`
}

// Entry is one recorded tick
type Entry struct {
	Tick    uint64        `json:"tick"`
	Reset   bool          `json:"reset,omitempty"` // Session was reset before this tick
	Axis    float32       `json:"axis"`
	DT      time.Duration `json:"dt"`
	Digest  string        `json:"digest"`
	Count   int           `json:"count"`
	Outcome string        `json:"outcome"`
}

// Writer encodes JSON lines through a zstd stream
// Close flushes and finalizes the frame but leaves the destination open
type Writer struct {
	enc *zstd.Encoder
	w   *bufio.Writer
}

// NewWriter starts a trace on dst
func NewWriter(dst io.Writer) (*Writer, error) {
	enc, err := zstd.NewWriter(dst, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	return &Writer{
		enc: enc,
		w:   bufio.NewWriterSize(enc, 64*1024),
	}, nil
}

// Write appends one JSON line
func (w *Writer) Write(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Flush pushes buffered lines into the compressor
func (w *Writer) Flush() error {
	if err := w.w.Flush(); err != nil {
		return err
	}
	return w.enc.Flush()
}

// Close flushes buffered lines and ends the zstd frame
func (w *Writer) Close() error {
	if err := w.w.Flush(); err != nil {
		_ = w.enc.Close()
		return err
	}
	return w.enc.Close()
}

// Reader decodes a trace written by Writer
type Reader struct {
	dec    *zstd.Decoder
	sc     *bufio.Scanner
	header Header
	line   int
}

// NewReader opens a trace and reads its header
func NewReader(src io.Reader) (*Reader, error) {
	dec, err := zstd.NewReader(src)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}

	r := &Reader{dec: dec, sc: bufio.NewScanner(dec)}
	r.sc.Buffer(make([]byte, 64*1024), 8*1024*1024)

	if !r.sc.Scan() {
		dec.Close()
		if err := r.sc.Err(); err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		return nil, fmt.Errorf("%w: empty stream", ErrFormat)
	}
	r.line++
	if err := json.Unmarshal(r.sc.Bytes(), &r.header); err != nil {
		dec.Close()
		return nil, fmt.Errorf("%w: header: %v", ErrFormat, err)
	}
	if r.header.Version != Version {
		dec.Close()
		return nil, fmt.Errorf("%w: version %d", ErrFormat, r.header.Version)
	}
	return r, nil
}

// Header returns the trace header
func (r *Reader) Header() Header { return r.header }

// Next returns the next entry or io.EOF
func (r *Reader) Next() (Entry, error) {
	var e Entry
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return e, err
		}
		return e, io.EOF
	}
	r.line++
	if err := json.Unmarshal(r.sc.Bytes(), &e); err != nil {
		return e, fmt.Errorf("%w: line %d: %v", ErrFormat, r.line, err)
	}
	return e, nil
}

// Close releases the decoder
func (r *Reader) Close() {
	r.dec.Close()
}
