package util

import (
    "strconv"
    "testing"
    "time"
)

func TestParseTimeRFC3339(t *testing.T) {
    s := "2024-10-10T10:10:10Z"
    got, ok := ParseTime(s)
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.UTC().Format(time.RFC3339) != s {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestParseTimeUnix(t *testing.T) {
    ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
    got, ok := ParseTime(strconv.FormatInt(ts, 10))
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.Unix() != ts {
        t.Fatalf("unexpected unix %v", got.Unix())
    }
}

func TestParseTimeDefault(t *testing.T) {
    def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
    got := ParseTimeDefault("", def)
    if !got.Equal(def) {
        t.Fatalf("expected default")
    }
}

func TestDayKey(t *testing.T) {
    ts := time.Date(2024, 10, 10, 23, 59, 0, 0, time.FixedZone("KST", 9*3600))
    if got := DayKey(ts); got != "2024-10-10" {
        t.Fatalf("unexpected day key %q", got)
    }
}

func TestHistorySince(t *testing.T) {
    now := time.Date(2024, 10, 10, 12, 0, 0, 0, time.UTC)
    if got := HistorySince(now, 7); !got.Equal(now.AddDate(0, 0, -7)) {
        t.Fatalf("unexpected since %v", got)
    }
    if got := HistorySince(now, -1); !got.IsZero() {
        t.Fatalf("unbounded window should be zero, got %v", got)
    }
}