package codec

import (
	"encoding/binary"
	"math"

	"mcpricer/internal/model"
)

const ReportPayloadSize = 48

// EncodeReport serializes a report into a fixed-size payload.
func EncodeReport(dst []byte, rep model.Report) []byte {
	if cap(dst) < ReportPayloadSize {
		dst = make([]byte, ReportPayloadSize)
	} else {
		dst = dst[:ReportPayloadSize]
	}

	copy(dst[0:16], rep.RunID[:])
	binary.LittleEndian.PutUint32(dst[16:20], uint32(rep.Rank))
	binary.LittleEndian.PutUint32(dst[20:24], uint32(rep.Size))
	binary.LittleEndian.PutUint64(dst[24:32], math.Float64bits(rep.Sum))
	binary.LittleEndian.PutUint64(dst[32:40], uint64(rep.Count))
	binary.LittleEndian.PutUint64(dst[40:48], math.Float64bits(rep.Average))

	return dst
}

// DecodeReport parses a fixed-size report payload.
func DecodeReport(src []byte) (model.Report, bool) {
	if len(src) < ReportPayloadSize {
		return model.Report{}, false
	}
	rep := model.Report{
		Rank:    int(binary.LittleEndian.Uint32(src[16:20])),
		Size:    int(binary.LittleEndian.Uint32(src[20:24])),
		Sum:     math.Float64frombits(binary.LittleEndian.Uint64(src[24:32])),
		Count:   int64(binary.LittleEndian.Uint64(src[32:40])),
		Average: math.Float64frombits(binary.LittleEndian.Uint64(src[40:48])),
	}
	copy(rep.RunID[:], src[0:16])
	return rep, true
}
