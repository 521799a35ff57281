package syncer

import "time"

// Status is the run-level state reported through the progress stream.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusSyncing   Status = "syncing"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// Phase is the fine-grained step within a run.
type Phase string

const (
	PhaseInitializing Phase = "initializing"
	PhaseCredentials  Phase = "fetching-credentials"
	PhaseFetching     Phase = "fetching"
	PhaseDownloading  Phase = "downloading"
	PhaseProcessing   Phase = "processing"
	PhaseComplete     Phase = "complete"
)

// Progress is one structured event on the progress stream, the sole contract
// with the presentation layer.
type Progress struct {
	Status              Status     `json:"status"`
	Phase               Phase      `json:"phase"`
	TotalGalleries      int        `json:"totalGalleries"`
	CurrentGalleryIndex int        `json:"currentGalleryIndex"`
	CurrentGalleryName  string     `json:"currentGalleryName,omitempty"`
	TotalPhotos         int        `json:"totalPhotos"`
	CurrentPhotoIndex   int        `json:"currentPhotoIndex"`
	CurrentPhotoName    string     `json:"currentPhotoName,omitempty"`
	Message             string     `json:"message,omitempty"`
	StartedAt           time.Time  `json:"startedAt"`
	CompletedAt         *time.Time `json:"completedAt,omitempty"`
	Error               string     `json:"error,omitempty"`
}

// Reporter receives progress events. A nil Reporter drops them.
type Reporter func(Progress)

func (r Reporter) emit(p Progress) {
	if r != nil {
		r(p)
	}
}
