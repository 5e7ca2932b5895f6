package replay

import "github.com/younwookim/framehost/internal/application/input"

// FrameRecord holds the input events dispatched before one update and the
// delta that update used
type FrameRecord struct {
	F      int           `json:"f"`                // Frame number
	DT     int64         `json:"dt"`               // Frame delta, nanoseconds
	Events []input.Event `json:"events,omitempty"` // Dispatched events
}

// ReplayData contains all data needed to replay a session
type ReplayData struct {
	Version   string        `json:"version"`
	Scene     string        `json:"scene"`
	Width     int           `json:"width"`
	Height    int           `json:"height"`
	StartTime string        `json:"startTime"`
	Frames    []FrameRecord `json:"frames"`
}
