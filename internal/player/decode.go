package player

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"
)

// decodeClip opens the file at path and returns a decoded streamer chosen by
// extension. The streamer owns the file handle; closing the streamer closes
// the file.
func decodeClip(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("player: open clip: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		s, format, err := mp3.Decode(f)
		if err != nil {
			f.Close()
			return nil, beep.Format{}, fmt.Errorf("player: decode mp3 %s: %w", path, err)
		}
		return s, format, nil
	case ".wav":
		s, format, err := wav.Decode(f)
		if err != nil {
			f.Close()
			return nil, beep.Format{}, fmt.Errorf("player: decode wav %s: %w", path, err)
		}
		return s, format, nil
	default:
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("player: unsupported clip format %q", filepath.Ext(path))
	}
}
