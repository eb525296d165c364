package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestInitLevelsAndFormatters(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		env       string
		wantLevel logrus.Level
		wantJSON  bool
	}{
		{name: "defaults", level: "", env: "", wantLevel: logrus.InfoLevel},
		{name: "debug development", level: "DEBUG", env: "development", wantLevel: logrus.DebugLevel},
		{name: "invalid level", level: "loud", env: "", wantLevel: logrus.InfoLevel},
		{name: "production json", level: "warn", env: "production", wantLevel: logrus.WarnLevel, wantJSON: true},
		{name: "staging json", level: "error", env: "Staging", wantLevel: logrus.ErrorLevel, wantJSON: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Init(tt.level, tt.env)
			if Log.GetLevel() != tt.wantLevel {
				t.Fatalf("level = %v, want %v", Log.GetLevel(), tt.wantLevel)
			}
			_, isJSON := Log.Formatter.(*logrus.JSONFormatter)
			if isJSON != tt.wantJSON {
				t.Fatalf("JSON formatter = %v, want %v", isJSON, tt.wantJSON)
			}
		})
	}
}

func TestForTagsComponent(t *testing.T) {
	entry := For("poller")
	if entry.Data["component"] != "poller" {
		t.Fatalf("component = %v, want poller", entry.Data["component"])
	}
}
