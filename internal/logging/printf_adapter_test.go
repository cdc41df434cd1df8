// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestPrintfLogger_Levels(t *testing.T) {
	original := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	defer zerolog.SetGlobalLevel(original)

	tests := []struct {
		name      string
		log       func(l *PrintfLogger)
		wantLevel string
	}{
		{"error", func(l *PrintfLogger) { l.Errorf("disk %s full\n", "sda") }, `"level":"error"`},
		{"warning", func(l *PrintfLogger) { l.Warningf("disk %s full\n", "sda") }, `"level":"warn"`},
		{"info demoted", func(l *PrintfLogger) { l.Infof("disk %s full\n", "sda") }, `"level":"debug"`},
		{"debug demoted", func(l *PrintfLogger) { l.Debugf("disk %s full\n", "sda") }, `"level":"trace"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewPrintfLogger(zerolog.New(&buf).Level(zerolog.TraceLevel)))

			out := buf.String()
			if !strings.Contains(out, tt.wantLevel) {
				t.Errorf("output %q missing %s", out, tt.wantLevel)
			}
			if !strings.Contains(out, `"message":"disk sda full"`) {
				t.Errorf("output %q missing formatted message without newline", out)
			}
		})
	}
}

func TestPrintfLogger_RespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewPrintfLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))
	l.Infof("compaction done")
	l.Debugf("level details")

	if buf.Len() != 0 {
		t.Errorf("routine badger output should be suppressed at info, got %q", buf.String())
	}
}
