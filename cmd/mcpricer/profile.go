package main

import (
	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
)

type pyroscopeLogger struct{}

func (pyroscopeLogger) Infof(format string, args ...interface{})  { logs.Infof(format, args...) }
func (pyroscopeLogger) Debugf(string, ...interface{})             {}
func (pyroscopeLogger) Errorf(format string, args ...interface{}) { logs.Errorf(format, args...) }

// startProfiler pushes profiles of this process to addr. An empty addr disables it.
func startProfiler(addr, role string) (stop func(), err error) {
	if addr == "" {
		return func() {}, nil
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: "mcpricer",
		ServerAddress:   addr,
		Tags: map[string]string{
			"role": role,
		},
		Logger: pyroscopeLogger{},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "start pyroscope").With("addr", addr)
	}
	return func() {
		if err := profiler.Stop(); err != nil {
			logs.Errorf("stop pyroscope, err: %+v", err)
		}
	}, nil
}
