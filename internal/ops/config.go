package ops

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"mcpricer/internal/model"
	"mcpricer/internal/model/enum"
	"mcpricer/pkg/conn"
	"mcpricer/pkg/exception"
)

// Defaults of a run without config file or flags.
const (
	DefaultStartPrice = 100.0
	DefaultDrift      = 0.1
	DefaultVolatility = 0.2
	DefaultDays       = 252
	DefaultHours      = 6
	DefaultMinutes    = 60
	DefaultStrike     = 105.0
	DefaultSide       = enum.SideCall
	DefaultIterations = 1000

	DefaultSocket = "/tmp/mcpricer.sock"
)

// FileConfig mirrors the JSON config layout. Absent fields keep their defaults.
type FileConfig struct {
	StartPrice *float64 `json:"startPrice"`
	Drift      *float64 `json:"drift"`
	Volatility *float64 `json:"volatility"`
	DeltaT     *float64 `json:"deltaT"` // defaults to 1/days
	Days       *int     `json:"days"`
	Hours      *int     `json:"hours"`
	Minutes    *int     `json:"minutes"`
	Strike     *float64 `json:"strike"`
	Side       *string  `json:"side"`
	Iterations *int     `json:"iterations"`

	Run      RunConfig       `json:"run"`
	Cluster  ClusterConfig   `json:"cluster"`
	Postgres *PostgresConfig `json:"postgres"`
	Kafka    *KafkaConfig    `json:"kafka"`
}

// RunConfig describes how one process spreads its share over workers.
type RunConfig struct {
	Workers  *int   `json:"workers"`
	Schedule string `json:"schedule"`
	Chunk    int    `json:"chunk"`
	Persist  string `json:"persist"`
	Output   string `json:"output"`
}

// ClusterConfig describes a multi-process run.
type ClusterConfig struct {
	Processes    int    `json:"processes"`
	Socket       string `json:"socket"`
	Merge        string `json:"merge"`
	AwaitRecords bool   `json:"awaitRecords"`
}

// PostgresConfig enables the Postgres record sink.
type PostgresConfig struct {
	Host      string            `json:"host"`
	Port      int               `json:"port"`
	User      string            `json:"user"`
	Password  string            `json:"password"`
	Database  string            `json:"database"`
	SSLMode   string            `json:"sslMode"`
	Params    map[string]string `json:"params"`
	DSN       string            `json:"dsn"`
	BatchSize int               `json:"batchSize"`
}

// KafkaConfig enables the Kafka record sink.
type KafkaConfig struct {
	Brokers      []string `json:"brokers"`
	Topic        string   `json:"topic"`
	BatchSize    int      `json:"batchSize"`
	WriteTimeout string   `json:"writeTimeout"`
	Compress     bool     `json:"compress"`
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	Params   model.Params
	Run      RunSpec
	Cluster  ClusterSpec
	Postgres *PostgresSpec
	Kafka    *KafkaSpec
}

// RunSpec is the resolved RunConfig. Workers 0 means one per CPU.
type RunSpec struct {
	Workers  int
	Schedule enum.Schedule
	Chunk    int
	Persist  enum.PersistMode
	Output   string
}

// ClusterSpec is the resolved ClusterConfig.
type ClusterSpec struct {
	Processes    int
	Socket       string
	Merge        enum.MergeMode
	AwaitRecords bool
}

// PostgresSpec is the resolved PostgresConfig.
type PostgresSpec struct {
	Option    conn.Option
	BatchSize int
}

// KafkaSpec is the resolved KafkaConfig.
type KafkaSpec struct {
	Option       conn.KafkaOption
	WriteTimeout time.Duration
}

// DeltaTForDays is the step used when deltaT is not given: one day of a year made of the
// simulated days.
func DeltaTForDays(days int) float64 {
	return 1.0 / float64(days)
}

// DefaultParams returns the parameters used when nothing overrides them.
func DefaultParams() model.Params {
	return model.Params{
		StartPrice: DefaultStartPrice,
		Drift:      DefaultDrift,
		Volatility: DefaultVolatility,
		DeltaT:     DeltaTForDays(DefaultDays),
		Days:       DefaultDays,
		Hours:      DefaultHours,
		Minutes:    DefaultMinutes,
		Strike:     DefaultStrike,
		Side:       DefaultSide,
		Iterations: DefaultIterations,
	}
}

// Default returns the configuration of a run without config file.
func Default() Loaded {
	return Loaded{
		Params: DefaultParams(),
		Run: RunSpec{
			Workers:  0,
			Schedule: enum.ScheduleStatic,
			Persist:  enum.PersistNone,
		},
		Cluster: ClusterSpec{
			Processes: 1,
			Socket:    DefaultSocket,
			Merge:     enum.MergeMeanOfMeans,
		},
	}
}

// Load reads a JSON config file over the defaults and validates it.
func Load(path string) (Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, err
	}
	return Parse(data)
}

// Parse resolves a JSON document over the defaults and validates it.
func Parse(data []byte) (Loaded, error) {
	var cfg FileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Loaded{}, fmt.Errorf("decode config: %w", err)
	}
	return Resolve(cfg)
}

// Resolve applies cfg over the defaults and validates the result.
func Resolve(cfg FileConfig) (Loaded, error) {
	loaded := Default()

	params, err := resolveParams(cfg, loaded.Params)
	if err != nil {
		return Loaded{}, err
	}
	loaded.Params = params

	if loaded.Run, err = resolveRun(cfg.Run, loaded.Run); err != nil {
		return Loaded{}, err
	}
	if loaded.Cluster, err = resolveCluster(cfg.Cluster, loaded.Cluster); err != nil {
		return Loaded{}, err
	}
	if cfg.Postgres != nil {
		loaded.Postgres = resolvePostgres(*cfg.Postgres)
	}
	if cfg.Kafka != nil {
		if loaded.Kafka, err = resolveKafka(*cfg.Kafka); err != nil {
			return Loaded{}, err
		}
	}

	if err := loaded.Params.Validate(); err != nil {
		return Loaded{}, err
	}
	return loaded, nil
}

func resolveParams(cfg FileConfig, p model.Params) (model.Params, error) {
	setFloat(&p.StartPrice, cfg.StartPrice)
	setFloat(&p.Drift, cfg.Drift)
	setFloat(&p.Volatility, cfg.Volatility)
	setInt(&p.Days, cfg.Days)
	if cfg.DeltaT != nil {
		p.DeltaT = *cfg.DeltaT
	} else if p.Days > 0 {
		p.DeltaT = DeltaTForDays(p.Days)
	}
	setInt(&p.Hours, cfg.Hours)
	setInt(&p.Minutes, cfg.Minutes)
	setFloat(&p.Strike, cfg.Strike)
	setInt(&p.Iterations, cfg.Iterations)
	if cfg.Side != nil {
		side, err := ParseSide(*cfg.Side)
		if err != nil {
			return p, err
		}
		p.Side = side
	}
	return p, nil
}

func resolveRun(cfg RunConfig, spec RunSpec) (RunSpec, error) {
	setInt(&spec.Workers, cfg.Workers)
	if spec.Workers < 0 {
		return spec, fmt.Errorf("run workers must be >= 0, got %d", spec.Workers)
	}
	if cfg.Schedule != "" {
		s, ok := enum.ParseSchedule(cfg.Schedule)
		if !ok {
			return spec, fmt.Errorf("unknown run schedule %q", cfg.Schedule)
		}
		spec.Schedule = s
	}
	if cfg.Chunk < 0 {
		return spec, fmt.Errorf("run chunk must be >= 0, got %d", cfg.Chunk)
	}
	spec.Chunk = cfg.Chunk
	if cfg.Persist != "" {
		m, ok := enum.ParsePersistMode(cfg.Persist)
		if !ok {
			return spec, fmt.Errorf("unknown run persist mode %q", cfg.Persist)
		}
		spec.Persist = m
	}
	spec.Output = cfg.Output
	return spec, nil
}

func resolveCluster(cfg ClusterConfig, spec ClusterSpec) (ClusterSpec, error) {
	if cfg.Processes < 0 {
		return spec, fmt.Errorf("cluster processes must be >= 0, got %d", cfg.Processes)
	}
	if cfg.Processes > 0 {
		spec.Processes = cfg.Processes
	}
	if cfg.Socket != "" {
		spec.Socket = cfg.Socket
	}
	if cfg.Merge != "" {
		m, ok := enum.ParseMergeMode(cfg.Merge)
		if !ok {
			return spec, fmt.Errorf("unknown cluster merge mode %q", cfg.Merge)
		}
		spec.Merge = m
	}
	spec.AwaitRecords = cfg.AwaitRecords
	return spec, nil
}

func resolvePostgres(cfg PostgresConfig) *PostgresSpec {
	return &PostgresSpec{
		Option: conn.Option{
			Host:       cfg.Host,
			Port:       cfg.Port,
			User:       cfg.User,
			Password:   cfg.Password,
			Database:   cfg.Database,
			SSLMode:    cfg.SSLMode,
			Params:     cfg.Params,
			ConnString: cfg.DSN,
		},
		BatchSize: cfg.BatchSize,
	}
}

func resolveKafka(cfg KafkaConfig) (*KafkaSpec, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		return nil, fmt.Errorf("kafka needs brokers and topic")
	}
	spec := &KafkaSpec{
		Option: conn.KafkaOption{
			Brokers:   cfg.Brokers,
			Topic:     cfg.Topic,
			BatchSize: cfg.BatchSize,
			Compress:  cfg.Compress,
		},
	}
	if cfg.WriteTimeout != "" {
		d, err := time.ParseDuration(cfg.WriteTimeout)
		if err != nil {
			return nil, fmt.Errorf("kafka writeTimeout: %w", err)
		}
		spec.WriteTimeout = d
	}
	return spec, nil
}

// ParseSide accepts exactly "call" or "put".
func ParseSide(s string) (enum.Side, error) {
	side, ok := enum.ParseSide(s)
	if !ok {
		return side, fmt.Errorf("%w, got %q", exception.ErrInvalidSide, s)
	}
	return side, nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
