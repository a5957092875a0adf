package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestInitWritesJSON(t *testing.T) {
	defer logrus.SetOutput(logrus.StandardLogger().Out)

	var buf bytes.Buffer
	Init("debug", &buf)
	New("reader").WithField("slide", 3).Debug("parsed")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if entry["message"] != "parsed" || entry["level"] != "debug" || entry["component"] != "reader" {
		t.Errorf("unexpected entry %v", entry)
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Error("missing timestamp field")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]logrus.Level{
		"warn":    logrus.WarnLevel,
		" ERROR ": logrus.ErrorLevel,
		"":        logrus.InfoLevel,
		"chatty":  logrus.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
