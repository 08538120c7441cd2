package ops

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcpricer/internal/model"
	"mcpricer/internal/model/enum"
	"mcpricer/pkg/exception"
)

func TestDefaults(t *testing.T) {
	loaded, err := Parse([]byte(`{}`))
	require.NoError(t, err)

	assert.Equal(t, model.Params{
		StartPrice: 100,
		Drift:      0.1,
		Volatility: 0.2,
		DeltaT:     1.0 / 252,
		Days:       252,
		Hours:      6,
		Minutes:    60,
		Strike:     105,
		Side:       enum.SideCall,
		Iterations: 1000,
	}, loaded.Params)
	assert.Equal(t, 0, loaded.Run.Workers)
	assert.Equal(t, enum.ScheduleStatic, loaded.Run.Schedule)
	assert.Equal(t, enum.PersistNone, loaded.Run.Persist)
	assert.Equal(t, 1, loaded.Cluster.Processes)
	assert.Equal(t, DefaultSocket, loaded.Cluster.Socket)
	assert.Equal(t, enum.MergeMeanOfMeans, loaded.Cluster.Merge)
	assert.Nil(t, loaded.Postgres)
	assert.Nil(t, loaded.Kafka)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"startPrice": 50,
		"drift": 0,
		"volatility": 0.35,
		"days": 20,
		"hours": 0,
		"minutes": 0,
		"strike": 48.5,
		"side": "put",
		"iterations": 200,
		"run": {"workers": 0, "schedule": "guided", "chunk": 4, "persist": "buffered", "output": "out.csv"},
		"cluster": {"processes": 4, "socket": "/tmp/x.sock", "merge": "pooled", "awaitRecords": true},
		"postgres": {"host": "db", "database": "paths", "batchSize": 100},
		"kafka": {"brokers": ["k1:9092"], "topic": "paths", "writeTimeout": "2s"}
	}`), 0o600))

	loaded, err := Load(path)
	require.NoError(t, err)

	p := loaded.Params
	assert.Equal(t, 50.0, p.StartPrice)
	assert.Equal(t, 0.0, p.Drift)
	assert.Equal(t, 0.35, p.Volatility)
	assert.Equal(t, 1.0/20, p.DeltaT)
	assert.Equal(t, 20, p.Days)
	assert.Equal(t, 0, p.Hours)
	assert.Equal(t, 0, p.Minutes)
	assert.Equal(t, 48.5, p.Strike)
	assert.Equal(t, enum.SidePut, p.Side)
	assert.Equal(t, 200, p.Iterations)

	assert.Equal(t, RunSpec{Workers: 0, Schedule: enum.ScheduleGuided, Chunk: 4, Persist: enum.PersistBuffered, Output: "out.csv"}, loaded.Run)
	assert.Equal(t, ClusterSpec{Processes: 4, Socket: "/tmp/x.sock", Merge: enum.MergePooled, AwaitRecords: true}, loaded.Cluster)

	require.NotNil(t, loaded.Postgres)
	assert.Equal(t, "db", loaded.Postgres.Option.Host)
	assert.Equal(t, "paths", loaded.Postgres.Option.Database)
	assert.Equal(t, 100, loaded.Postgres.BatchSize)

	require.NotNil(t, loaded.Kafka)
	assert.Equal(t, []string{"k1:9092"}, loaded.Kafka.Option.Brokers)
	assert.Equal(t, 2*time.Second, loaded.Kafka.WriteTimeout)
}

func TestParseRejects(t *testing.T) {
	testCases := []struct {
		desc    string
		input   string
		wantErr error
	}{
		{desc: "bad side", input: `{"side": "straddle"}`, wantErr: exception.ErrInvalidSide},
		{desc: "side is case sensitive", input: `{"side": "Call"}`, wantErr: exception.ErrInvalidSide},
		{desc: "zero start price", input: `{"startPrice": 0}`, wantErr: exception.ErrInvalidStartPrice},
		{desc: "zero days", input: `{"days": 0}`, wantErr: exception.ErrInvalidDays},
		{desc: "negative volatility", input: `{"volatility": -0.1}`, wantErr: exception.ErrInvalidVolatility},
		{desc: "negative minutes", input: `{"minutes": -1}`, wantErr: exception.ErrInvalidIntraday},
		{desc: "zero deltaT", input: `{"deltaT": 0}`, wantErr: exception.ErrInvalidDeltaT},
		{desc: "zero iterations", input: `{"iterations": 0}`, wantErr: exception.ErrInvalidIterations},
		{desc: "malformed json", input: `{"days": `},
		{desc: "unknown schedule", input: `{"run": {"schedule": "fair"}}`},
		{desc: "negative chunk", input: `{"run": {"chunk": -1}}`},
		{desc: "unknown persist", input: `{"run": {"persist": "maybe"}}`},
		{desc: "unknown merge", input: `{"cluster": {"merge": "median"}}`},
		{desc: "kafka without topic", input: `{"kafka": {"brokers": ["k:9092"]}}`},
		{desc: "kafka bad timeout", input: `{"kafka": {"brokers": ["k:9092"], "topic": "t", "writeTimeout": "soon"}}`},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := Parse([]byte(tc.input))
			require.Error(t, err)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestExplicitDeltaT(t *testing.T) {
	loaded, err := Parse([]byte(`{"days": 10, "deltaT": 0.004}`))
	require.NoError(t, err)
	assert.Equal(t, 0.004, loaded.Params.DeltaT)
	assert.Equal(t, 10, loaded.Params.Days)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
