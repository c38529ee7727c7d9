// Package analytics computes per-project time totals and estimate accuracy
// from persisted board snapshots.
package analytics

import (
	"sort"

	"github.com/dori/focusboard/internal/board"
	"github.com/dori/focusboard/internal/model"
	"github.com/rs/zerolog"
)

// Rating bands an efficiency percentage.
type Rating string

const (
	RatingNone      Rating = ""
	RatingExcellent Rating = "Excellent"
	RatingGood      Rating = "Good"
	RatingNeedsWork Rating = "Needs work"
)

// Rate bands efficiency: 90-110% excellent, 80-130% good, anything else needs work.
func Rate(efficiency float64) Rating {
	switch {
	case efficiency >= 90 && efficiency <= 110:
		return RatingExcellent
	case efficiency >= 80 && efficiency <= 130:
		return RatingGood
	}
	return RatingNeedsWork
}

// ProjectBoard pairs a project with its board snapshot.
type ProjectBoard struct {
	Project  model.Project
	Snapshot model.Snapshot
}

// ProjectStats is the aggregate for one project.
type ProjectStats struct {
	Project model.Project

	Tasks          int
	CompletedTasks int

	// ActualMinutes sums actual time over every task, completed or not.
	ActualMinutes int
	// CompletedActualMinutes sums actual time over completed tasks only.
	CompletedActualMinutes int
	EstimatedMinutes       int

	// Share is this project's percentage of all actual minutes.
	Share float64

	Efficiency    float64
	HasEfficiency bool
	Rating        Rating

	FocusSeconds int
}

// Report is the aggregate over every project.
type Report struct {
	Projects           []ProjectStats
	TotalActualMinutes int
}

// Aggregate computes stats for each board. Efficiency is completed actual
// minutes over all estimated minutes, reported only when both are nonzero.
func Aggregate(boards []ProjectBoard) Report {
	var r Report
	for _, b := range boards {
		st := ProjectStats{Project: b.Project}
		snap := b.Snapshot
		completed := snap.ColumnByRole(model.RoleCompleted)
		for i := range snap.Tasks {
			t := &snap.Tasks[i]
			st.Tasks++
			actual := t.ActualMinutes()
			st.ActualMinutes += actual
			st.EstimatedMinutes += t.EstimatedMinutes()
			if completed != nil && t.ColumnID == completed.ID {
				st.CompletedTasks++
				st.CompletedActualMinutes += actual
			}
		}
		if st.CompletedActualMinutes > 0 && st.EstimatedMinutes > 0 {
			st.Efficiency = float64(st.CompletedActualMinutes) / float64(st.EstimatedMinutes) * 100
			st.HasEfficiency = true
			st.Rating = Rate(st.Efficiency)
		}
		r.TotalActualMinutes += st.ActualMinutes
		r.Projects = append(r.Projects, st)
	}
	if r.TotalActualMinutes > 0 {
		for i := range r.Projects {
			r.Projects[i].Share = float64(r.Projects[i].ActualMinutes) / float64(r.TotalActualMinutes) * 100
		}
	}
	return r
}

// ApplyFocusTotals attaches recorded focus seconds keyed by board id.
func (r *Report) ApplyFocusTotals(totals map[string]int) {
	for i := range r.Projects {
		r.Projects[i].FocusSeconds = totals[r.Projects[i].Project.ID]
	}
}

// ByShare returns the projects with time tracked, largest share first.
func (r Report) ByShare() []ProjectStats {
	var out []ProjectStats
	for _, p := range r.Projects {
		if p.ActualMinutes > 0 {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ActualMinutes > out[j].ActualMinutes })
	return out
}

// WithEfficiency returns the projects that have an efficiency figure.
func (r Report) WithEfficiency() []ProjectStats {
	var out []ProjectStats
	for _, p := range r.Projects {
		if p.HasEfficiency {
			out = append(out, p)
		}
	}
	return out
}

// Load reads the snapshot of every project. A project with no saved board,
// or one that cannot be read, contributes an empty snapshot; read failures
// are logged.
func Load(kv board.KV, projects []model.Project, log zerolog.Logger) []ProjectBoard {
	out := make([]ProjectBoard, 0, len(projects))
	for _, p := range projects {
		snap, _, err := board.LoadSnapshot(kv, p.ID)
		if err != nil {
			log.Error().Err(err).Str("board", p.ID).Msg("load board snapshot")
			snap = model.Snapshot{}
		}
		out = append(out, ProjectBoard{Project: p, Snapshot: snap})
	}
	return out
}
