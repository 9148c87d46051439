package obs

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewLogger_JSONOutsideDev(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, "prod").Info("[payment][usecase] payment completed", "booking_id", "b-1")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected json log line, got %q: %v", buf.String(), err)
	}
	if line["booking_id"] != "b-1" || line["msg"] != "[payment][usecase] payment completed" {
		t.Fatalf("unexpected log line %v", line)
	}
}

func TestNewLogger_TextInDev(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, "dev").Debug("hello", "k", "v")

	if buf.Len() == 0 {
		t.Fatalf("expected dev logger to emit debug output")
	}
	if json.Valid(buf.Bytes()) {
		t.Fatalf("expected human readable output, got json %q", buf.String())
	}
}
