package provider

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleTimeline = `{
  "metadata": {
    "soundFile": "message_0.wav",
    "duration": 1.48
  },
  "mouthCues": [
    { "start": 0.00, "end": 0.35, "value": "X" },
    { "start": 0.35, "end": 0.62, "value": "B" },
    { "start": 0.62, "end": 1.48, "value": "A" }
  ]
}`

func TestParseLipsyncFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "message_0.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleTimeline), 0o644))

	timeline, err := ParseLipsyncFile(path)
	require.NoError(t, err)
	require.Equal(t, "message_0.wav", timeline.Metadata.SoundFile)
	require.InDelta(t, 1.48, timeline.Metadata.Duration, 1e-9)
	require.Len(t, timeline.MouthCues, 3)
	require.Equal(t, "B", timeline.MouthCues[1].Value)
	require.InDelta(t, 0.35, timeline.MouthCues[1].Start, 1e-9)
}

func TestParseLipsyncFileMissing(t *testing.T) {
	t.Parallel()

	_, err := ParseLipsyncFile(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestParseLipsyncFileInvalidJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

	_, err := ParseLipsyncFile(path)
	require.Error(t, err)
}
