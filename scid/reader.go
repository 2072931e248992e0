// Package scid reads Sierra Chart Intraday Data (.scid) tick files.
//
// A SCID file is a 56-byte header followed by fixed 40-byte little-endian
// records. The reader memory-maps the file read-only and decodes records
// on demand, so iterating a multi-gigabyte file costs no allocations
// beyond the returned Tick values.
package scid

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"

	"golang.org/x/sys/unix"
)

const (
	// HeaderSize is the fixed size of the file header in bytes.
	HeaderSize = 56
	// RecordSize is the fixed size of one tick record in bytes.
	RecordSize = 40

	magic = "SCID"

	// Days from the Sierra epoch (1899-12-30 00:00 UTC) to the UNIX epoch.
	epochOffsetDays = 25569.0
	microsPerDay    = 86_400_000_000
)

var (
	// ErrInvalidFormat reports a bad header magic or record size.
	ErrInvalidFormat = errors.New("invalid scid format")
	// ErrTruncated reports a file length inconsistent with the header record count.
	ErrTruncated = errors.New("truncated scid file")
	// ErrIO reports an open or map failure.
	ErrIO = errors.New("scid io error")
)

// Tick is one decoded trade record.
type Tick struct {
	TimeUS    int64 // microseconds since the UNIX epoch
	Price     float64
	Bid       float64
	Ask       float64
	Volume    float64
	BidVolume float64
	AskVolume float64
}

// Time returns the tick timestamp in UNIX seconds with microsecond fraction.
func (t Tick) Time() float64 { return float64(t.TimeUS) / 1e6 }

// Reader maps a SCID file and yields ticks in file order.
//
// A Reader is not safe for concurrent use; open one Reader per run.
type Reader struct {
	path  string
	data  []byte
	count int
	scale float64
	pos   int
}

// Option configures a Reader.
type Option func(*Reader)

// WithPriceScale multiplies every decoded price by s. Feeds that store
// prices as integer x100 use 0.01; the default 1.0 treats prices as
// native floats.
func WithPriceScale(s float64) Option {
	return func(r *Reader) {
		if s > 0 {
			r.scale = s
		}
	}
}

// Open maps the file read-only and validates the header.
func Open(path string, opts ...Option) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scid open %s: %w: %v", path, ErrIO, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("scid stat %s: %w: %v", path, ErrIO, err)
	}
	size := fi.Size()
	if size < HeaderSize {
		return nil, fmt.Errorf("scid %s: %w: %d bytes is smaller than the header", path, ErrInvalidFormat, size)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("scid mmap %s: %w: %v", path, ErrIO, err)
	}

	r := &Reader{path: path, data: data, scale: 1.0}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.parseHeader(size); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

// Header layout: magic[4], header_size u32, record_size u32, version u16,
// unused u16, record_count u32, reserved bytes to offset 56. A zero
// record count means the writer did not maintain it; the count is then
// derived from the file size.
func (r *Reader) parseHeader(size int64) error {
	if string(r.data[0:4]) != magic {
		return fmt.Errorf("scid %s: %w: bad magic %q", r.path, ErrInvalidFormat, r.data[0:4])
	}
	recSize := binary.LittleEndian.Uint32(r.data[8:12])
	if recSize != RecordSize {
		return fmt.Errorf("scid %s: %w: record size %d, want %d", r.path, ErrInvalidFormat, recSize, RecordSize)
	}

	body := size - HeaderSize
	count := int64(binary.LittleEndian.Uint32(r.data[16:20]))
	if count == 0 {
		if body%RecordSize != 0 {
			return fmt.Errorf("scid %s: %w: %d trailing bytes", r.path, ErrTruncated, body%RecordSize)
		}
		count = body / RecordSize
	} else if body < count*RecordSize {
		return fmt.Errorf("scid %s: %w: header declares %d records, file holds %d",
			r.path, ErrTruncated, count, body/RecordSize)
	}
	r.count = int(count)
	return nil
}

// Count returns the number of records in the file.
func (r *Reader) Count() int { return r.count }

// Path returns the mapped file path.
func (r *Reader) Path() string { return r.path }

// At decodes the record at index i.
func (r *Reader) At(i int) (Tick, error) {
	if i < 0 || i >= r.count {
		return Tick{}, fmt.Errorf("scid %s: record index %d out of range [0,%d)", r.path, i, r.count)
	}
	return r.decode(i), nil
}

// Next yields the next record in file order. It returns ok=false at end
// of file; Reset rewinds for another pass.
func (r *Reader) Next() (Tick, bool) {
	if r.pos >= r.count {
		return Tick{}, false
	}
	t := r.decode(r.pos)
	r.pos++
	return t, true
}

// Reset rewinds the iteration to the first record.
func (r *Reader) Reset() { r.pos = 0 }

// Close unmaps the file. The Reader must not be used afterwards.
func (r *Reader) Close() error {
	if r.data == nil {
		return nil
	}
	err := unix.Munmap(r.data)
	r.data = nil
	r.count = 0
	if err != nil {
		return fmt.Errorf("scid munmap %s: %w: %v", r.path, ErrIO, err)
	}
	return nil
}

// Record layout, all little-endian:
//
//	0  f64  days since 1899-12-30 UTC
//	8  f32  open  (trade price on tick records)
//	12 f32  high
//	16 f32  low
//	20 f32  close (last bid on tick records)
//	24 f32  num_trades slot, carries last ask on tick feeds
//	28 u32  total volume
//	32 u32  bid volume
//	36 u32  ask volume
func (r *Reader) decode(i int) Tick {
	rec := r.data[HeaderSize+i*RecordSize:]

	days := math.Float64frombits(binary.LittleEndian.Uint64(rec[0:8]))
	price := float64(math.Float32frombits(binary.LittleEndian.Uint32(rec[8:12])))
	bid := float64(math.Float32frombits(binary.LittleEndian.Uint32(rec[20:24])))
	ask := float64(math.Float32frombits(binary.LittleEndian.Uint32(rec[24:28])))

	return Tick{
		TimeUS:    timeToMicros(days),
		Price:     price * r.scale,
		Bid:       bid * r.scale,
		Ask:       ask * r.scale,
		Volume:    float64(binary.LittleEndian.Uint32(rec[28:32])),
		BidVolume: float64(binary.LittleEndian.Uint32(rec[32:36])),
		AskVolume: float64(binary.LittleEndian.Uint32(rec[36:40])),
	}
}

func timeToMicros(days float64) int64 {
	// Round the exact product, not the float64-rounded one: the FMA
	// residual recovers what x*microsPerDay drops, so a day count written
	// by MicrosToDays maps back to the microsecond it came from.
	x := days - epochOffsetDays
	hi := x * microsPerDay
	lo := math.FMA(x, microsPerDay, -hi)
	whole := math.Round(hi)
	return int64(whole) + int64(math.Round((hi-whole)+lo))
}

// MicrosToDays converts UNIX microseconds back to the Sierra day count.
// Writers (test fixtures, converters) use it to produce records.
func MicrosToDays(us int64) float64 {
	return float64(us)/microsPerDay + epochOffsetDays
}
