package messages

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/sandevgo/stoptext/configs"
)

// Messages holds every user facing reply template.
type Messages struct {
	GenericFail     string `yaml:"generic_fail" validate:"required"`
	Greeting        string `yaml:"greeting" validate:"required"`
	Help            string `yaml:"help" validate:"required"`
	NoArrivals      string `yaml:"no_arrivals" validate:"required"`
	ClosestStop     string `yaml:"closest_stop" validate:"required"`
	OtherCloseStops string `yaml:"other_close_stops" validate:"required"`
	Option          string `yaml:"option" validate:"required"`
	StopOption      string `yaml:"stop_option" validate:"required"`
	SingleStop      string `yaml:"single_stop" validate:"required"`
	ArrivalLine     string `yaml:"arrival_line" validate:"required"`
	ScheduledMark   string `yaml:"scheduled_mark" validate:"required"`
	ScheduledNote   string `yaml:"scheduled_note" validate:"required"`
	UnknownCommand  string `yaml:"unknown_command" validate:"required"`
	NearbyStops     string `yaml:"nearby_stops" validate:"required"`
	Routes          string `yaml:"routes" validate:"required"`
	Geocoded        string `yaml:"geocoded" validate:"required"`
}

// Load reads templates from path, or the embedded defaults when path is empty.
func Load(path string) (*Messages, error) {
	data := configs.Messages
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read messages: %w", err)
		}
	}
	return Parse(data)
}

func Parse(data []byte) (*Messages, error) {
	var m Messages
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	if err := validator.New().Struct(m); err != nil {
		return nil, fmt.Errorf("invalid messages: %w", err)
	}
	return &m, nil
}

// Default returns the embedded templates. They are validated by tests, so a
// failure here is a build defect.
func Default() *Messages {
	m, err := Parse(configs.Messages)
	if err != nil {
		panic(err)
	}
	return m
}
