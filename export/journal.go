package export

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/caseforge/caseforge/types"
)

// Journal frame size constants.
const (
	// MaxFrameSize is the maximum frame size (16 MiB), including prefix.
	MaxFrameSize = 16 * 1024 * 1024
	// MaxPayloadSize is the maximum payload size.
	MaxPayloadSize = MaxFrameSize - LengthPrefixSize
	// LengthPrefixSize is the size of the length prefix in bytes.
	LengthPrefixSize = 4
)

// JournalHeader is the first frame of every journal. It carries the run
// identity so a journal file is self-describing.
type JournalHeader struct {
	RunID     string `msgpack:"run_id"`
	URL       string `msgpack:"url"`
	Requested int    `msgpack:"requested_cases"`
	Version   string `msgpack:"version"`
}

// JournalWriter appends snapshot frames to a run journal. Frames are
// length-prefixed (4-byte big-endian) msgpack payloads, so a reader can
// skip or stream them without decoding the whole file.
type JournalWriter struct {
	w io.WriteCloser
}

// CreateJournal opens a journal file for writing and records the header
// frame.
func CreateJournal(path string, meta types.RunMeta) (*JournalWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create journal: %w", err)
	}
	jw := &JournalWriter{w: f}
	header := JournalHeader{
		RunID:     meta.RunID,
		URL:       meta.URL,
		Requested: meta.RequestedCases,
		Version:   types.Version,
	}
	if err := jw.writeFrame(header); err != nil {
		f.Close()
		os.Remove(path)
		return nil, err
	}
	return jw, nil
}

// NewJournalWriter wraps an existing writer without emitting a header.
// Used for test injection.
func NewJournalWriter(w io.WriteCloser) *JournalWriter {
	return &JournalWriter{w: w}
}

// Append records one snapshot frame.
func (jw *JournalWriter) Append(snap types.Snapshot) error {
	return jw.writeFrame(snap)
}

func (jw *JournalWriter) writeFrame(v any) error {
	payload, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode journal frame: %w", err)
	}
	if len(payload) > MaxPayloadSize {
		return fmt.Errorf("journal frame of %d bytes exceeds maximum %d", len(payload), MaxPayloadSize)
	}
	var prefix [LengthPrefixSize]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(payload)))
	if _, err := jw.w.Write(prefix[:]); err != nil {
		return fmt.Errorf("write journal frame: %w", err)
	}
	if _, err := jw.w.Write(payload); err != nil {
		return fmt.Errorf("write journal frame: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (jw *JournalWriter) Close() error {
	return jw.w.Close()
}

// JournalReader streams frames back out of a run journal.
type JournalReader struct {
	r      io.Reader
	header *JournalHeader
}

// NewJournalReader wraps a journal stream. The header frame is read lazily
// on first access.
func NewJournalReader(r io.Reader) *JournalReader {
	return &JournalReader{r: r}
}

// Header returns the journal's header frame.
func (jr *JournalReader) Header() (*JournalHeader, error) {
	if jr.header != nil {
		return jr.header, nil
	}
	payload, err := jr.readFrame()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("journal is empty")
		}
		return nil, err
	}
	var header JournalHeader
	if err := msgpack.Unmarshal(payload, &header); err != nil {
		return nil, fmt.Errorf("decode journal header: %w", err)
	}
	jr.header = &header
	return jr.header, nil
}

// Next returns the next snapshot frame, or io.EOF at clean end of journal.
func (jr *JournalReader) Next() (types.Snapshot, error) {
	if jr.header == nil {
		if _, err := jr.Header(); err != nil {
			return types.Snapshot{}, err
		}
	}
	payload, err := jr.readFrame()
	if err != nil {
		return types.Snapshot{}, err
	}
	var snap types.Snapshot
	if err := msgpack.Unmarshal(payload, &snap); err != nil {
		return types.Snapshot{}, fmt.Errorf("decode snapshot frame: %w", err)
	}
	return snap, nil
}

func (jr *JournalReader) readFrame() ([]byte, error) {
	var prefix [LengthPrefixSize]byte
	if _, err := io.ReadFull(jr.r, prefix[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("truncated journal frame: %w", err)
	}
	size := binary.BigEndian.Uint32(prefix[:])
	if size > MaxPayloadSize {
		return nil, fmt.Errorf("journal frame of %d bytes exceeds maximum %d", size, MaxPayloadSize)
	}
	payload := make([]byte, size)
	if _, err := io.ReadFull(jr.r, payload); err != nil {
		return nil, fmt.Errorf("truncated journal frame: %w", err)
	}
	return payload, nil
}
