package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during an analytics run.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	FetchTracks Phase = iota
	FetchArtists
	Aggregate
	ExportSnapshot
)

func (p Phase) String() string {
	switch p {
	case FetchTracks:
		return "fetch_tracks"
	case FetchArtists:
		return "fetch_artists"
	case Aggregate:
		return "aggregate"
	case ExportSnapshot:
		return "export_snapshot"
	default:
		return ""
	}
}

func fetchTracksUpdate(timeRange string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetched %d top tracks (%s)", count, timeRange),
	}
}

func fetchArtistsUpdate(timeRange string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchArtists,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetched %d top artists (%s)", count, timeRange),
	}
}

func aggregateUpdate(step, total int, view string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Aggregate,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Built %s", step, total, view),
	}
}

func snapshotCompletedUpdate(step, total int, timeRange, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportSnapshot,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s → %s", step, total, timeRange, path),
		Data:    path,
	}
}

func snapshotFailedUpdate(step, total int, timeRange string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportSnapshot,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, timeRange, err),
	}
}
