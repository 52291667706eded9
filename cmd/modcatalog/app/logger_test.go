package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   string
	}{
		{name: "default", config: Config{}, want: "info"},
		{name: "verbose", config: Config{Verbose: true}, want: "debug"},
		{name: "quiet", config: Config{Quiet: true}, want: "warn"},
		{name: "verbose and quiet", config: Config{Verbose: true, Quiet: true}, want: "warn"},
		{name: "explicit wins", config: Config{Verbose: true, LogLevel: "error"}, want: "error"},
		{name: "invalid explicit", config: Config{LogLevel: "loud"}, want: "info"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, determineLogLevel(&tt.config))
		})
	}
}

func TestValidateLogLevel(t *testing.T) {
	for _, level := range validLevels {
		assert.Equal(t, level, validateLogLevel(level))
	}
	assert.Equal(t, "info", validateLogLevel("WARNING"))
}
