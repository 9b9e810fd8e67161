package installer

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// APIKeyStep collects the key of the primary geocoder (skipped for keyless services)
type APIKeyStep struct {
	input    textinput.Model
	provider string
	title    string
	target   func(*Settings) *string
}

func NewAPIKeyStep() Step {
	return &APIKeyStep{}
}

func (s *APIKeyStep) Init() tea.Cmd {
	return nil
}

func (s *APIKeyStep) initProvider(state *InstallState) bool {
	s.provider = state.Settings.GeocoderPrimary

	switch s.provider {
	case "pelias":
		s.title = "Pelias (geocode.earth) API Key"
		s.target = func(c *Settings) *string { return &c.PeliasKey }
	case "google":
		s.title = "Google Geocoding API Key"
		s.target = func(c *Settings) *string { return &c.GoogleKey }
	default:
		return false
	}

	s.input = textinput.New()
	s.input.Focus()
	s.input.CharLimit = 255
	s.input.Width = 40
	s.input.EchoMode = textinput.EchoPassword
	s.input.EchoCharacter = '•'
	return true
}

func (s *APIKeyStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.target == nil {
		if !s.initProvider(state) {
			return nil, nil
		}
		return s, textinput.Blink
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "enter" {
			*s.target(&state.Settings) = s.input.Value()
			return nil, nil
		}
	}
	return s, cmd
}

func (s *APIKeyStep) View(state *InstallState) string {
	if s.target == nil {
		return "Loading..."
	}
	return fmt.Sprintf("Enter your %s:\n\n%s\n\n(press enter to confirm)\n", s.title, s.input.View())
}
