package consumer

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsIncompleteConfig(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "brokers", cfg: Config{GroupID: "g", Topics: []string{"t"}}, want: "brokers"},
		{name: "group", cfg: Config{Brokers: "localhost:9092", Topics: []string{"t"}}, want: "group"},
		{name: "topics", cfg: Config{Brokers: "localhost:9092", GroupID: "g"}, want: "topics"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg, HandlerFunc(nil), logger)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
