package scid

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

// Writer produces SCID files record by record. It exists for converters
// and test fixtures; the backtest path only ever reads.
type Writer struct {
	f     *os.File
	count uint32
}

// Create opens path for writing and lays down a header with a zero
// record count. Close rewrites the count.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("scid create %s: %w: %v", path, ErrIO, err)
	}

	var hdr [HeaderSize]byte
	copy(hdr[0:4], magic)
	binary.LittleEndian.PutUint32(hdr[4:8], HeaderSize)
	binary.LittleEndian.PutUint32(hdr[8:12], RecordSize)
	binary.LittleEndian.PutUint16(hdr[12:14], 1) // version

	if _, err := f.Write(hdr[:]); err != nil {
		f.Close()
		return nil, fmt.Errorf("scid write header %s: %w: %v", path, ErrIO, err)
	}
	return &Writer{f: f}, nil
}

// Append writes one record. Ticks must be appended in timestamp order;
// the writer does not sort.
func (w *Writer) Append(t Tick) error {
	var rec [RecordSize]byte

	binary.LittleEndian.PutUint64(rec[0:8], math.Float64bits(MicrosToDays(t.TimeUS)))
	binary.LittleEndian.PutUint32(rec[8:12], math.Float32bits(float32(t.Price)))
	binary.LittleEndian.PutUint32(rec[12:16], math.Float32bits(float32(t.Price)))
	binary.LittleEndian.PutUint32(rec[16:20], math.Float32bits(float32(t.Price)))
	binary.LittleEndian.PutUint32(rec[20:24], math.Float32bits(float32(t.Bid)))
	binary.LittleEndian.PutUint32(rec[24:28], math.Float32bits(float32(t.Ask)))
	binary.LittleEndian.PutUint32(rec[28:32], uint32(t.Volume))
	binary.LittleEndian.PutUint32(rec[32:36], uint32(t.BidVolume))
	binary.LittleEndian.PutUint32(rec[36:40], uint32(t.AskVolume))

	if _, err := w.f.Write(rec[:]); err != nil {
		return fmt.Errorf("scid append: %w: %v", ErrIO, err)
	}
	w.count++
	return nil
}

// Close rewrites the header record count and closes the file.
func (w *Writer) Close() error {
	var cnt [4]byte
	binary.LittleEndian.PutUint32(cnt[:], w.count)
	if _, err := w.f.WriteAt(cnt[:], 16); err != nil {
		w.f.Close()
		return fmt.Errorf("scid finalize: %w: %v", ErrIO, err)
	}
	return w.f.Close()
}

// WriteFile writes ticks to a new SCID file in one call.
func WriteFile(path string, ticks []Tick) error {
	w, err := Create(path)
	if err != nil {
		return err
	}
	for _, t := range ticks {
		if err := w.Append(t); err != nil {
			w.f.Close()
			return err
		}
	}
	return w.Close()
}
