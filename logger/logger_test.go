package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestInit(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		format    string
		wantLevel logrus.Level
		wantJSON  bool
	}{
		{"defaults", "", "", logrus.InfoLevel, false},
		{"debug text", "debug", "text", logrus.DebugLevel, false},
		{"warn json", "warn", "JSON", logrus.WarnLevel, true},
		{"bad level falls back", "loud", "", logrus.InfoLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.level != "" {
				t.Setenv("LOG_LEVEL", tt.level)
			}
			t.Setenv("LOG_FORMAT", tt.format)

			Init()

			if Log.GetLevel() != tt.wantLevel {
				t.Errorf("Expected level %v, got %v", tt.wantLevel, Log.GetLevel())
			}
			_, isJSON := Log.Formatter.(*logrus.JSONFormatter)
			if isJSON != tt.wantJSON {
				t.Errorf("Expected JSON formatter=%v, got %T", tt.wantJSON, Log.Formatter)
			}
		})
	}
}

func TestSetDebug(t *testing.T) {
	Init()
	SetDebug()
	if Log.GetLevel() != logrus.DebugLevel {
		t.Errorf("Expected debug level, got %v", Log.GetLevel())
	}
}
