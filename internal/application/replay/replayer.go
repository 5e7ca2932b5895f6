package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/younwookim/framehost/internal/application/input"
)

// Replayer handles input playback from recorded data
type Replayer struct {
	data  ReplayData
	frame int
}

// NewReplayer creates a new replayer from replay data
func NewReplayer(data ReplayData) *Replayer {
	return &Replayer{
		data:  data,
		frame: 0,
	}
}

// LoadReplay loads replay data from a file
func LoadReplay(filename string) (*ReplayData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var data ReplayData
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode replay: %w", err)
	}

	return &data, nil
}

// Next returns the events and delta of the current frame and advances
func (r *Replayer) Next() ([]input.Event, time.Duration, bool) {
	if r.frame >= len(r.data.Frames) {
		return nil, 0, false
	}

	fr := r.data.Frames[r.frame]
	r.frame++
	return fr.Events, time.Duration(fr.DT), true
}

// CurrentFrame returns the current frame number
func (r *Replayer) CurrentFrame() int {
	return r.frame
}

// TotalFrames returns the total number of frames
func (r *Replayer) TotalFrames() int {
	return len(r.data.Frames)
}

// Scene returns the scene the recording started on
func (r *Replayer) Scene() string {
	return r.data.Scene
}

// Reset resets the replayer to the beginning
func (r *Replayer) Reset() {
	r.frame = 0
}

// CreateTestReplayData creates replay data for testing (idle input)
func CreateTestReplayData(frames int, dt time.Duration) ReplayData {
	data := ReplayData{
		Version:   Version,
		Scene:     "test",
		StartTime: time.Now().Format(time.RFC3339),
		Frames:    make([]FrameRecord, frames),
	}

	for i := 0; i < frames; i++ {
		data.Frames[i] = FrameRecord{F: i, DT: int64(dt)}
	}

	return data
}
