package utils

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func withLogger(t *testing.T, production bool, level string) *bytes.Buffer {
	t.Helper()
	prev := IsProduction()
	buf := &bytes.Buffer{}
	InitLogger(buf, production, level)
	t.Cleanup(func() { InitLogger(&bytes.Buffer{}, prev, "INFO") })
	return buf
}

func TestMaskingInProduction(t *testing.T) {
	withLogger(t, true, "INFO")

	if got := MaskID("0f8fad5b-d9cb-469f-a165-70867728950e"); got != "0f8fad5b..." {
		t.Errorf("MaskID = %q", got)
	}
	if got := MaskID("short"); got != "***" {
		t.Errorf("MaskID(short) = %q", got)
	}
	if got := MaskEmail("jane@example.com"); got != "***@***.***" {
		t.Errorf("MaskEmail = %q", got)
	}
	if got := MaskAmount(decimal.RequireFromString("12.5")); got != "***" {
		t.Errorf("MaskAmount = %q", got)
	}

	msg := MaskString("jane@example.com paid $1,200.00 ssn 123-45-6789")
	for _, leaked := range []string{"jane@example.com", "1,200", "123-45-6789"} {
		if strings.Contains(msg, leaked) {
			t.Errorf("MaskString leaked %q: %s", leaked, msg)
		}
	}
}

func TestMaskingInDevelopment(t *testing.T) {
	withLogger(t, false, "INFO")

	if got := MaskID("0f8fad5b-d9cb-469f-a165-70867728950e"); got != "0f8fad5b-d9cb-469f-a165-70867728950e" {
		t.Errorf("MaskID = %q", got)
	}
	if got := MaskAmount(decimal.RequireFromString("12.5")); got != "12.50" {
		t.Errorf("MaskAmount = %q", got)
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := withLogger(t, true, "WARN")

	SafeInfo("hidden %d", 1)
	SafeWarn("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info logged at WARN level: %s", out)
	}
	if !strings.Contains(out, "shown 2") {
		t.Errorf("warn missing: %s", out)
	}
}

func TestLogBankingActionIsStructured(t *testing.T) {
	buf := withLogger(t, true, "INFO")

	LogBankingAction("Banks linked", "item-0123456789", "user-0123456789")

	out := buf.String()
	for _, want := range []string{`"scope":"banking"`, `"connection":"item-012..."`, `"message":"Banks linked"`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in %s", want, out)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"WARNING": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInitLoggerConcurrentWithMasking(t *testing.T) {
	withLogger(t, false, "INFO")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			InitLogger(&bytes.Buffer{}, i%2 == 0, "INFO")
		}()
		go func() {
			defer wg.Done()
			_ = MaskID("0f8fad5b-d9cb-469f-a165-70867728950e")
			_ = MaskString("jane@example.com")
		}()
	}
	wg.Wait()

	InitLogger(&bytes.Buffer{}, true, "INFO")
	if !IsProduction() || MaskEmail("jane@example.com") != "***@***.***" {
		t.Error("production flag not applied after InitLogger")
	}
}
