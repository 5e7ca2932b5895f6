package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/younwookim/framehost/internal/application/input"
)

// Version is written into every recording
const Version = "1.0"

// Recorder captures dispatched input and frame deltas
type Recorder struct {
	data      ReplayData
	pending   []input.Event
	recording bool
	frame     int
}

// NewRecorder creates a new recorder for a session starting on scene
func NewRecorder(scene string, width, height int) *Recorder {
	return &Recorder{
		data: ReplayData{
			Version:   Version,
			Scene:     scene,
			Width:     width,
			Height:    height,
			StartTime: time.Now().Format(time.RFC3339),
			Frames:    make([]FrameRecord, 0, 3600), // Pre-allocate for ~1 minute at 60fps
		},
		recording: true,
	}
}

// RecordEvent queues an event for the frame being built
func (r *Recorder) RecordEvent(ev input.Event) {
	if !r.recording {
		return
	}
	r.pending = append(r.pending, ev)
}

// RecordFrame closes the current frame with its delta
func (r *Recorder) RecordFrame(dt time.Duration) {
	if !r.recording {
		return
	}

	r.data.Frames = append(r.data.Frames, FrameRecord{
		F:      r.frame,
		DT:     int64(dt),
		Events: r.pending,
	})
	r.pending = nil
	r.frame++
}

// Data returns the recorded session
func (r *Recorder) Data() ReplayData {
	return r.data
}

// Save writes the replay data to a file
func (r *Recorder) Save(filename string) error {
	if len(r.data.Frames) == 0 {
		return fmt.Errorf("no frames to save")
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r.data); err != nil {
		return fmt.Errorf("failed to encode replay: %w", err)
	}

	return nil
}

// Stop stops recording
func (r *Recorder) Stop() {
	r.recording = false
}

// IsRecording returns whether recording is active
func (r *Recorder) IsRecording() bool {
	return r.recording
}

// FrameCount returns the number of recorded frames
func (r *Recorder) FrameCount() int {
	return len(r.data.Frames)
}

// GenerateFilename creates a filename based on current time
func GenerateFilename() string {
	return fmt.Sprintf("replay_%s.json", time.Now().Format("20060102_150405"))
}
