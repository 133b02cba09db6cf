package kitchen

import (
	"sort"
	"time"

	"mechanical-burger/internal/model"
)

// Transition is a status change between two order snapshots. From is empty
// for orders that just appeared and To is empty for orders that disappeared.
type Transition struct {
	OrderID string            `json:"orderId"`
	From    model.OrderStatus `json:"from,omitempty"`
	To      model.OrderStatus `json:"to,omitempty"`
}

// StatusMap indexes order statuses by order ID.
func StatusMap(orders []model.Order) map[string]model.OrderStatus {
	m := make(map[string]model.OrderStatus, len(orders))
	for _, o := range orders {
		m[o.ID] = o.Status
	}
	return m
}

// Diff returns every transition from prev to next, sorted by order ID.
func Diff(prev, next map[string]model.OrderStatus) []Transition {
	var out []Transition

	for id, to := range next {
		from, seen := prev[id]
		if !seen || from != to {
			out = append(out, Transition{OrderID: id, From: from, To: to})
		}
	}
	for id, from := range prev {
		if _, still := next[id]; !still {
			out = append(out, Transition{OrderID: id, From: from})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].OrderID < out[j].OrderID })
	return out
}

// CueKind classifies a kitchen cue.
type CueKind string

const (
	CueNewOrder     CueKind = "new_order"
	CueStatusChange CueKind = "status_change"
	CueRemoved      CueKind = "removed"
)

// Tone frequencies in hertz.
const (
	ToneNewOrder  = 1200
	TonePreparing = 900
	ToneReady     = 600
	ToneCompleted = 440
)

// Cue tells the kitchen screen what to flash and which tone to play.
// ToneHz is zero for silent cues.
type Cue struct {
	Kind       CueKind           `json:"kind"`
	OrderID    string            `json:"orderId"`
	From       model.OrderStatus `json:"from,omitempty"`
	To         model.OrderStatus `json:"to,omitempty"`
	ToneHz     int               `json:"toneHz,omitempty"`
	Waveform   string            `json:"waveform,omitempty"`
	DurationMs int               `json:"durationMs,omitempty"`
	At         time.Time         `json:"at"`
}

// CueFor maps a transition to a cue.
func CueFor(t Transition, at time.Time) Cue {
	cue := Cue{OrderID: t.OrderID, From: t.From, To: t.To, At: at}

	switch {
	case t.To == "":
		cue.Kind = CueRemoved
	case t.From == "":
		cue.Kind = CueNewOrder
		if t.To == model.StatusPending {
			cue.ToneHz, cue.Waveform, cue.DurationMs = ToneNewOrder, "square", 300
		}
	default:
		cue.Kind = CueStatusChange
		if hz := statusTone(t.To); hz > 0 {
			cue.ToneHz, cue.Waveform, cue.DurationMs = hz, "sine", 250
		}
	}

	return cue
}

func statusTone(s model.OrderStatus) int {
	switch s {
	case model.StatusPreparing:
		return TonePreparing
	case model.StatusReady:
		return ToneReady
	case model.StatusCompleted:
		return ToneCompleted
	}
	return 0
}

// Cues diffs two snapshots and returns the resulting cues.
func Cues(prev, next map[string]model.OrderStatus, at time.Time) []Cue {
	transitions := Diff(prev, next)
	cues := make([]Cue, len(transitions))
	for i, t := range transitions {
		cues[i] = CueFor(t, at)
	}
	return cues
}
