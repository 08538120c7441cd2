package sink

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcpricer/internal/codec"
	"mcpricer/internal/model"
)

func TestCSVLayout(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewCSV(&buf)
	require.NoError(t, err)

	require.NoError(t, s.Write(
		model.PathRecord{Index: 1, Mean: 100, Min: 99.994, Max: 101.236, StdDev: 0.5, LastPrice: 100.1234567},
		model.PathRecord{Index: 2, Mean: 98.126, Min: 97, Max: 99, StdDev: 0, LastPrice: 97},
	))
	require.NoError(t, s.Close())

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "path_index,mean,min,max,std_dev,last_price", lines[0])
	assert.Equal(t, "1,100.00,99.99,101.24,0.50,100.123457", lines[1])
	assert.Equal(t, "2,98.13,97.00,99.00,0.00,97.000000", lines[2])
}

func TestFormatRow(t *testing.T) {
	row := FormatRow(model.PathRecord{Index: 7, Mean: 1, Min: 2, Max: 3, StdDev: 4, LastPrice: 5})
	assert.Equal(t, "7,1.00,2.00,3.00,4.00,5.000000", row)
}

func TestCSVFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "paths.csv")
	s, err := CreateCSV(path)
	require.NoError(t, err)

	want := []model.PathRecord{
		{Index: 1, Mean: 100.5, Min: 99.25, Max: 102, StdDev: 1.25, LastPrice: 101.5},
		{Index: 2, Mean: 97.75, Min: 95, Max: 100, StdDev: 2.5, LastPrice: 96.125},
	}
	require.NoError(t, s.Write(want...))
	require.NoError(t, s.Close())

	got, err := ReadCSVFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadCSVRejectsBadInput(t *testing.T) {
	testCases := []struct {
		desc  string
		input string
	}{
		{desc: "empty", input: ""},
		{desc: "foreign header", input: "a,b,c,d,e,f\n"},
		{desc: "short row", input: model.RecordHeader + "\n1,2,3\n"},
		{desc: "bad number", input: model.RecordHeader + "\n1,x,3,4,5,6\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tc.input))
			require.Error(t, err)
		})
	}
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Write(model.PathRecord{Index: 1}))
	require.NoError(t, m.Write(model.PathRecord{Index: 2}, model.PathRecord{Index: 3}))

	got := m.Records()
	require.Len(t, got, 3)
	assert.Equal(t, 3, m.Len())

	got[0].Index = 99
	assert.Equal(t, int64(1), m.Records()[0].Index)
	require.NoError(t, m.Close())
}

type failingSink struct {
	err    error
	closed bool
}

func (f *failingSink) Write(...model.PathRecord) error { return f.err }
func (f *failingSink) Close() error {
	f.closed = true
	return f.err
}

func TestTee(t *testing.T) {
	a, b := NewMemory(), NewMemory()
	tee := Tee{a, b}
	require.NoError(t, tee.Write(model.PathRecord{Index: 5}))
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 1, b.Len())

	boom := errors.New("boom")
	bad := &failingSink{err: boom}
	tee = Tee{bad, a}
	require.ErrorIs(t, tee.Write(model.PathRecord{Index: 6}), boom)
	assert.Equal(t, 1, a.Len())

	require.ErrorIs(t, tee.Close(), boom)
	assert.True(t, bad.closed)
}

type fakeProducer struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeProducer) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	for _, m := range msgs {
		m.Key = bytes.Clone(m.Key)
		m.Value = bytes.Clone(m.Value)
		f.msgs = append(f.msgs, m)
	}
	return nil
}

func (f *fakeProducer) Close() error {
	f.closed = true
	return nil
}

func TestKafkaMessages(t *testing.T) {
	p := &fakeProducer{}
	k := newKafka(p, "run-1", 0)

	recs := []model.PathRecord{
		{Index: 11, Mean: 1, Min: 0.5, Max: 2, StdDev: 0.25, LastPrice: 1.5},
		{Index: 12, Mean: 3, Min: 3, Max: 3, LastPrice: 3},
	}
	require.NoError(t, k.Write(recs...))
	require.NoError(t, k.Write())
	require.Len(t, p.msgs, 2)

	for i, msg := range p.msgs {
		rec, ok := codec.DecodePathRecord(msg.Value)
		require.True(t, ok)
		assert.Equal(t, recs[i], rec)
		require.Len(t, msg.Headers, 1)
		assert.Equal(t, runIDHeader, msg.Headers[0].Key)
		assert.Equal(t, "run-1", string(msg.Headers[0].Value))
	}
	assert.Equal(t, "11", string(p.msgs[0].Key))
	assert.Equal(t, "12", string(p.msgs[1].Key))

	require.NoError(t, k.Close())
	assert.True(t, p.closed)
}

func TestKafkaWriteError(t *testing.T) {
	k := newKafka(&fakeProducer{err: errors.New("broker down")}, "run-1", 0)
	require.Error(t, k.Write(model.PathRecord{Index: 1}))
}

func TestPathRecordRow(t *testing.T) {
	rec := model.PathRecord{Index: 3, Mean: 1, Min: 0.5, Max: 2, StdDev: 0.1, LastPrice: 1.2}
	row := newPathRecordRow("run-1", rec)
	assert.Equal(t, "run-1", row.RunID)
	assert.Equal(t, int64(3), row.PathIndex)
	assert.Equal(t, PathRecordRow{RunID: "run-1", PathIndex: 3, Mean: 1, Min: 0.5, Max: 2, StdDev: 0.1, LastPrice: 1.2}, row)
	assert.Equal(t, "path_records", row.TableName())
}

func TestLockedConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	csvSink, err := NewCSV(&buf)
	require.NoError(t, err)
	s := Locked(csvSink)

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 50 {
				assert.NoError(t, s.Write(model.PathRecord{Index: int64(w*100 + i), Mean: 1, Min: 1, Max: 1, LastPrice: 1}))
			}
		}()
	}
	wg.Wait()
	require.NoError(t, s.Close())

	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Len(t, got, 400)
}
