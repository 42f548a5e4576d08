package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"

	"maya-backend/internal/domain/entities"
	"maya-backend/internal/infra/logger"
)

// RhubarbExtractor derives viseme timelines by running the rhubarb binary
// against a WAV file. The process writes a JSON timeline to outPath which is
// then read back. Phonetic recognition keeps the per-call latency low enough
// for steady-state use.
type RhubarbExtractor struct {
	Logger *logger.Logger
	Bin    string
}

func NewRhubarbExtractor(logger *logger.Logger, bin string) *RhubarbExtractor {
	return &RhubarbExtractor{Logger: logger, Bin: bin}
}

// ExtractVisemes runs rhubarb on wavPath and parses the resulting timeline.
func (rx *RhubarbExtractor) ExtractVisemes(ctx context.Context, wavPath, outPath string) (*entities.Lipsync, error) {
	cmd := exec.CommandContext(ctx, rx.Bin,
		"-q",
		"--threads", "2",
		"-f", "json",
		"-o", outPath,
		wavPath,
		"-r", "phonetic",
	)

	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("rhubarb failed: %w: %s", err, truncate(string(output), 300))
	}

	return ParseLipsyncFile(outPath)
}

// ParseLipsyncFile reads a rhubarb JSON timeline from disk.
func ParseLipsyncFile(path string) (*entities.Lipsync, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lipsync file: %w", err)
	}

	var timeline entities.Lipsync
	if err := json.Unmarshal(raw, &timeline); err != nil {
		return nil, fmt.Errorf("failed to unmarshal lipsync file: %w", err)
	}

	return &timeline, nil
}
