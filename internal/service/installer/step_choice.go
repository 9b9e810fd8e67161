package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ChoiceStep asks the user to pick one of a fixed list of options.
type ChoiceStep struct {
	title   string
	choices []string
	cursor  int
	apply   func(state *InstallState, choice string)
}

func (s *ChoiceStep) Init() tea.Cmd {
	return nil
}

func (s *ChoiceStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.choices)-1 {
				s.cursor++
			}
		case "enter":
			s.apply(state, s.choices[s.cursor])
			return nil, nil
		}
	}
	return s, nil
}

func (s *ChoiceStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString(s.title + "\n\n")
	for i, choice := range s.choices {
		cursor := " "
		if s.cursor == i {
			cursor = "❯"
			b.WriteString(selStyle.Render(fmt.Sprintf("%s %s", cursor, choice)) + "\n")
		} else {
			b.WriteString(itemStyle.Render(fmt.Sprintf("%s %s", cursor, choice)) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}

var geocoders = []string{"arcgis", "pelias", "nominatim", "google"}

// NewGeocoderStep selects the primary geocoding service.
func NewGeocoderStep() Step {
	return &ChoiceStep{
		title:   "Select the primary geocoder:",
		choices: geocoders,
		apply: func(state *InstallState, choice string) {
			state.Settings.GeocoderPrimary = choice
		},
	}
}

// NewChannelStep selects the messaging gateway.
func NewChannelStep() Step {
	return &ChoiceStep{
		title:   "Select your messaging channel:",
		choices: []string{ChannelWebhook, ChannelTelegram, ChannelCLI},
		apply: func(state *InstallState, choice string) {
			state.Channel = choice
		},
	}
}

// NewStorageStep selects where the geocode cache lives.
func NewStorageStep() Step {
	return &ChoiceStep{
		title:   "Select the geocode cache storage:",
		choices: []string{"sqlite", "postgres", "memory"},
		apply: func(state *InstallState, choice string) {
			state.Settings.DatabaseDriver = choice
		},
	}
}
