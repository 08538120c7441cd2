package codec

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"

	"mcpricer/pkg/exception"
)

const (
	frameVersion      uint16 = 1
	FrameHeaderSize          = 24
	frameChecksumSize        = 4

	// MaxPayloadSize bounds a single frame; record batches larger than this are split by the sender.
	MaxPayloadSize = 1 << 24
)

var (
	frameMagic = [4]byte{'M', 'C', 'P', '1'}
	crcTable   = crc32.MakeTable(crc32.Castagnoli)
)

// FrameType records, report
type FrameType uint16

const (
	_frame_type_beg FrameType = iota
	FrameRecords
	FrameReport
	_frame_type_end
)

func (t FrameType) IsAvailable() bool {
	return t > _frame_type_beg && t < _frame_type_end
}

func (t FrameType) String() string {
	switch t {
	case FrameRecords:
		return "records"
	case FrameReport:
		return "report"
	default:
		return "unknown"
	}
}

// FrameHeader is the decoded fixed part of a frame.
type FrameHeader struct {
	Type       FrameType
	Flags      uint16
	PayloadLen uint32
	Seq        uint64
}

func encodeHeader(dst []byte, header FrameHeader) {
	_ = dst[FrameHeaderSize-1]
	copy(dst[0:4], frameMagic[:])
	binary.LittleEndian.PutUint16(dst[4:6], frameVersion)
	binary.LittleEndian.PutUint16(dst[6:8], uint16(FrameHeaderSize))
	binary.LittleEndian.PutUint16(dst[8:10], uint16(header.Type))
	binary.LittleEndian.PutUint16(dst[10:12], header.Flags)
	binary.LittleEndian.PutUint32(dst[12:16], header.PayloadLen)
	binary.LittleEndian.PutUint64(dst[16:24], header.Seq)
}

func decodeHeader(src []byte) (FrameHeader, error) {
	if len(src) < FrameHeaderSize {
		return FrameHeader{}, exception.ErrInvalidHeaderSize
	}
	if !bytes.Equal(src[0:4], frameMagic[:]) {
		return FrameHeader{}, exception.ErrInvalidMagic
	}
	if ver := binary.LittleEndian.Uint16(src[4:6]); ver != frameVersion {
		return FrameHeader{}, fmt.Errorf("%w, got %d", exception.ErrUnsupportedVersion, ver)
	}
	if size := binary.LittleEndian.Uint16(src[6:8]); size != FrameHeaderSize {
		return FrameHeader{}, fmt.Errorf("%w, got %d", exception.ErrInvalidHeaderSize, size)
	}
	return FrameHeader{
		Type:       FrameType(binary.LittleEndian.Uint16(src[8:10])),
		Flags:      binary.LittleEndian.Uint16(src[10:12]),
		PayloadLen: binary.LittleEndian.Uint32(src[12:16]),
		Seq:        binary.LittleEndian.Uint64(src[16:24]),
	}, nil
}

func checksum(header []byte, payload []byte) uint32 {
	crc := crc32.Update(0, crcTable, header)
	return crc32.Update(crc, crcTable, payload)
}

// AppendFrame appends header, payload and checksum to dst.
func AppendFrame(dst []byte, typ FrameType, seq uint64, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayloadSize {
		return dst, fmt.Errorf("%w, got %d bytes", exception.ErrPayloadTooLarge, len(payload))
	}
	start := len(dst)
	dst = append(dst, make([]byte, FrameHeaderSize)...)
	encodeHeader(dst[start:], FrameHeader{Type: typ, PayloadLen: uint32(len(payload)), Seq: seq})
	dst = append(dst, payload...)
	sum := checksum(dst[start:start+FrameHeaderSize], payload)
	return binary.LittleEndian.AppendUint32(dst, sum), nil
}

// Writer frames payloads onto a stream with increasing sequence numbers.
// It is not safe for concurrent use.
type Writer struct {
	w   io.Writer
	seq uint64
	buf []byte
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteFrame writes one complete frame in a single Write call.
func (w *Writer) WriteFrame(typ FrameType, payload []byte) error {
	w.seq++
	buf, err := AppendFrame(w.buf[:0], typ, w.seq, payload)
	if err != nil {
		return err
	}
	w.buf = buf
	if _, err := w.w.Write(buf); err != nil {
		return err
	}
	return nil
}

// Reader decodes frames sequentially.
type Reader struct {
	r         *bufio.Reader
	headerBuf []byte
	payload   []byte
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		r:         bufio.NewReader(r),
		headerBuf: make([]byte, FrameHeaderSize),
	}
}

// Next returns the next frame header and payload.
// The payload is only valid until the next call to Next. A clean end of stream is io.EOF.
func (r *Reader) Next() (FrameHeader, []byte, error) {
	n, err := io.ReadFull(r.r, r.headerBuf)
	if err != nil {
		if err == io.EOF && n == 0 {
			return FrameHeader{}, nil, io.EOF
		}
		return FrameHeader{}, nil, err
	}

	header, err := decodeHeader(r.headerBuf)
	if err != nil {
		return header, nil, err
	}
	if header.PayloadLen > MaxPayloadSize {
		return header, nil, fmt.Errorf("%w, got %d bytes", exception.ErrPayloadTooLarge, header.PayloadLen)
	}

	if cap(r.payload) < int(header.PayloadLen) {
		r.payload = make([]byte, header.PayloadLen)
	}
	r.payload = r.payload[:header.PayloadLen]
	if _, err := io.ReadFull(r.r, r.payload); err != nil {
		return header, nil, err
	}

	var checksumBuf [frameChecksumSize]byte
	if _, err := io.ReadFull(r.r, checksumBuf[:]); err != nil {
		return header, nil, err
	}
	if checksum(r.headerBuf, r.payload) != binary.LittleEndian.Uint32(checksumBuf[:]) {
		return header, nil, exception.ErrChecksumMismatch
	}

	return header, r.payload, nil
}
