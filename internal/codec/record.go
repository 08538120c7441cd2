package codec

import (
	"encoding/binary"
	"math"

	"mcpricer/internal/model"
)

const RecordPayloadSize = 48

// EncodePathRecord serializes a record into a fixed-size payload.
func EncodePathRecord(dst []byte, rec model.PathRecord) []byte {
	if cap(dst) < RecordPayloadSize {
		dst = make([]byte, RecordPayloadSize)
	} else {
		dst = dst[:RecordPayloadSize]
	}

	binary.LittleEndian.PutUint64(dst[0:8], uint64(rec.Index))
	binary.LittleEndian.PutUint64(dst[8:16], math.Float64bits(rec.Mean))
	binary.LittleEndian.PutUint64(dst[16:24], math.Float64bits(rec.Min))
	binary.LittleEndian.PutUint64(dst[24:32], math.Float64bits(rec.Max))
	binary.LittleEndian.PutUint64(dst[32:40], math.Float64bits(rec.StdDev))
	binary.LittleEndian.PutUint64(dst[40:48], math.Float64bits(rec.LastPrice))

	return dst
}

// DecodePathRecord parses a fixed-size record payload.
func DecodePathRecord(src []byte) (model.PathRecord, bool) {
	if len(src) < RecordPayloadSize {
		return model.PathRecord{}, false
	}
	return model.PathRecord{
		Index:     int64(binary.LittleEndian.Uint64(src[0:8])),
		Mean:      math.Float64frombits(binary.LittleEndian.Uint64(src[8:16])),
		Min:       math.Float64frombits(binary.LittleEndian.Uint64(src[16:24])),
		Max:       math.Float64frombits(binary.LittleEndian.Uint64(src[24:32])),
		StdDev:    math.Float64frombits(binary.LittleEndian.Uint64(src[32:40])),
		LastPrice: math.Float64frombits(binary.LittleEndian.Uint64(src[40:48])),
	}, true
}

// EncodePathRecords packs a batch back to back.
func EncodePathRecords(dst []byte, records []model.PathRecord) []byte {
	size := len(records) * RecordPayloadSize
	if cap(dst) < size {
		dst = make([]byte, size)
	} else {
		dst = dst[:size]
	}
	for i, rec := range records {
		off := i * RecordPayloadSize
		EncodePathRecord(dst[off:off+RecordPayloadSize], rec)
	}
	return dst
}

// DecodePathRecords unpacks a batch. The payload length must be a multiple of RecordPayloadSize.
func DecodePathRecords(src []byte) ([]model.PathRecord, bool) {
	if len(src)%RecordPayloadSize != 0 {
		return nil, false
	}
	records := make([]model.PathRecord, 0, len(src)/RecordPayloadSize)
	for off := 0; off < len(src); off += RecordPayloadSize {
		rec, _ := DecodePathRecord(src[off : off+RecordPayloadSize])
		records = append(records, rec)
	}
	return records, true
}
