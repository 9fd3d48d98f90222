// Package feed decodes merged-day tick files. The upstream dumper
// writes one JSON record per line, one file per trading day.
package feed

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"ticksplit/internal/domain"
)

// Scanner buffer sizing: a full-market day runs to tens of millions of
// rows but individual lines stay small.
const (
	initialBuf = 64 * 1024
	maxLineBuf = 1024 * 1024
)

// ReadDay reads a merged-day feed file. Lines that fail to decode are
// counted and skipped; the file as a whole only fails on I/O errors.
func ReadDay(path string) (ticks []domain.RawTick, badLines int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening feed file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, initialBuf), maxLineBuf)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var t domain.RawTick
		if err := json.Unmarshal(line, &t); err != nil {
			badLines++
			slog.Warn("undecodable feed line", "file", path, "line", lineNo, "err", err)
			continue
		}
		ticks = append(ticks, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, badLines, fmt.Errorf("reading feed file: %w", err)
	}

	return ticks, badLines, nil
}

// GroupBySecurity splits a day's rows into per-security slices.
// Slices keep file order; the replay applies its own sort.
func GroupBySecurity(ticks []domain.RawTick) map[string][]domain.RawTick {
	groups := make(map[string][]domain.RawTick)
	for _, t := range ticks {
		groups[t.SecurityID] = append(groups[t.SecurityID], t)
	}
	return groups
}
