package core

import "time"

type Stop struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Distance float64 `json:"distance"` // meters from the queried point
}

type Arrival struct {
	Headsign      string    `json:"headsign"`
	Route         string    `json:"route"`
	ScheduledTime time.Time `json:"scheduled_time"`
	Predicted     bool      `json:"predicted"`
	PredictedTime time.Time `json:"predicted_time"`
}

// Time returns the best known arrival time.
func (a Arrival) Time() time.Time {
	if a.Predicted && !a.PredictedTime.IsZero() {
		return a.PredictedTime
	}
	return a.ScheduledTime
}

type StopArrivals struct {
	ServerNow time.Time
	Stop      Stop
	Arrivals  []Arrival
}

type Route struct {
	ID        string `json:"id"`
	ShortName string `json:"short_name"`
	LongName  string `json:"long_name"`
}
