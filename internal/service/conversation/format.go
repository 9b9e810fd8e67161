package conversation

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandevgo/stoptext/internal/core"
	"github.com/sandevgo/stoptext/internal/service/messages"
)

type arrivalFormatter struct {
	msgs      *messages.Messages
	lookahead time.Duration
}

// format renders arrivals grouped by headsign in first-seen order. Departed
// arrivals are dropped. An empty headsign filter keeps every headsign.
func (f arrivalFormatter) format(data core.StopArrivals, headsign string) string {
	var (
		order     []string
		times     = make(map[string][]string)
		scheduled bool
	)

	for _, a := range data.Arrivals {
		if headsign != "" && a.Headsign != headsign {
			continue
		}
		delta := a.Time().Sub(data.ServerNow)
		if delta < 0 {
			continue
		}

		s := strconv.FormatInt(int64(delta/time.Minute), 10)
		if !a.Predicted {
			s += f.msgs.ScheduledMark
			scheduled = true
		}
		if _, ok := times[a.Headsign]; !ok {
			order = append(order, a.Headsign)
		}
		times[a.Headsign] = append(times[a.Headsign], s)
	}

	if len(order) == 0 {
		return fmt.Sprintf(f.msgs.NoArrivals, int(f.lookahead/time.Minute), data.Stop.Name)
	}

	lines := make([]string, 0, len(order)+1)
	for _, h := range order {
		lines = append(lines, fmt.Sprintf(f.msgs.ArrivalLine, h, strings.Join(times[h], ", ")))
	}
	if scheduled {
		lines = append(lines, f.msgs.ScheduledNote)
	}
	return strings.Join(lines, "\n")
}

// headsigns lists the distinct headsigns format would render for data, in
// arrival order.
func headsigns(data core.StopArrivals) []string {
	seen := make(map[string]bool)
	var res []string
	for _, a := range data.Arrivals {
		if a.Headsign == "" || seen[a.Headsign] || a.Time().Before(data.ServerNow) {
			continue
		}
		seen[a.Headsign] = true
		res = append(res, a.Headsign)
	}
	return res
}
