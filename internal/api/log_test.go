package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"nanonav/pkg/logging"
)

func TestFormatLogLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Params",
			input: `time=2026-01-18T06:50:46.074+01:00 level=INFO msg="Navigation airfield set" airfield="Old Airfield " runway="RWY 090" session=0b4e1c7a-55f2-4cd4-9d41-52a0c8f8b1d7`,
			want:  "06:50:46 Navigation airfield set (airfield=Old Airfield, runway=RWY 090)",
		},
		{
			name:  "NoParams",
			input: `time=2026-01-18T06:50:46Z level=INFO msg="Navigation reset"`,
			want:  "06:50:46 Navigation reset",
		},
		{
			name:  "NotSlog",
			input: "plain text",
			want:  "plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatLogLine(tt.input); got != tt.want {
				t.Errorf("Expected '%s', got '%s'", tt.want, got)
			}
		})
	}
}

func TestHandleLatestLog(t *testing.T) {
	_, _ = logging.GlobalLogCapture.Write([]byte(`time=2026-01-18T06:50:46Z level=INFO msg="Navigation reset"`))
	_, _ = logging.GlobalEventCapture.Write([]byte("[12:00:00] Destination Old Airfield\n"))

	w := httptest.NewRecorder()
	handleLatestLog(w, httptest.NewRequest("GET", "/api/log/latest", http.NoBody))

	var got map[string]string
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if got["log"] != "06:50:46 Navigation reset" {
		t.Errorf("log = %q", got["log"])
	}
	if got["event"] != "[12:00:00] Destination Old Airfield" {
		t.Errorf("event = %q", got["event"])
	}
}
