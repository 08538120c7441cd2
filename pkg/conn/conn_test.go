package conn

import (
	"net/url"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionDSN(t *testing.T) {
	testCases := []struct {
		desc  string
		opt   Option
		check func(t *testing.T, u *url.URL)
	}{
		{
			desc: "defaults",
			opt:  Option{},
			check: func(t *testing.T, u *url.URL) {
				assert.Equal(t, "localhost:5432", u.Host)
				assert.Equal(t, "disable", u.Query().Get("sslmode"))
				assert.Equal(t, "mcpricer", u.Query().Get("application_name"))
				assert.Nil(t, u.User)
			},
		},
		{
			desc: "credentials and database",
			opt: Option{
				Host:     "db",
				Port:     6543,
				User:     "pricer",
				Password: "p@ss",
				Database: "paths",
				Params:   map[string]string{"connect_timeout": "5", "": "ignored"},
			},
			check: func(t *testing.T, u *url.URL) {
				assert.Equal(t, "db:6543", u.Host)
				assert.Equal(t, "/paths", u.Path)
				assert.Equal(t, "pricer", u.User.Username())
				pass, ok := u.User.Password()
				assert.True(t, ok)
				assert.Equal(t, "p@ss", pass)
				assert.Equal(t, "5", u.Query().Get("connect_timeout"))
				assert.NotContains(t, u.Query(), "")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			dsn, err := tc.opt.dsn()
			require.NoError(t, err)
			u, err := url.Parse(dsn)
			require.NoError(t, err)
			assert.Equal(t, "postgres", u.Scheme)
			tc.check(t, u)
		})
	}
}

func TestOptionDSNOverride(t *testing.T) {
	dsn, err := Option{Host: "ignored", ConnString: "host=x user=y"}.dsn()
	require.NoError(t, err)
	assert.Equal(t, "host=x user=y", dsn)
}

func TestOptionDSNInvalidPort(t *testing.T) {
	_, err := Option{Port: 70000}.dsn()
	require.Error(t, err)
}

func TestNewKafkaWriter(t *testing.T) {
	_, err := NewKafkaWriter(KafkaOption{Topic: "paths"})
	require.Error(t, err)

	_, err = NewKafkaWriter(KafkaOption{Brokers: []string{"localhost:9092"}})
	require.Error(t, err)

	w, err := NewKafkaWriter(KafkaOption{Brokers: []string{"localhost:9092"}, Topic: "paths", Compress: true})
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, "paths", w.Topic)
	assert.Equal(t, defaultKafkaBatchSize, w.BatchSize)
	assert.Equal(t, defaultKafkaBatchTimeout, w.BatchTimeout)
	assert.Equal(t, kafka.Snappy, w.Compression)
	assert.Equal(t, time.Duration(0), w.WriteTimeout)
}
