package installer

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
)

// FinalizationStep computes derived values
type FinalizationStep struct{}

func NewFinalizationStep() Step {
	return &FinalizationStep{}
}

func (s *FinalizationStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *FinalizationStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	Finalize(state)
	return nil, nil
}

func (s *FinalizationStep) View(state *InstallState) string {
	return "Finalizing configuration...\n"
}

// Finalize turns the picked channel into transport flags and fills defaults.
func Finalize(state *InstallState) {
	c := &state.Settings
	c.EnableWebhook = strconv.FormatBool(state.Channel == ChannelWebhook)
	c.EnableTelegram = strconv.FormatBool(state.Channel == ChannelTelegram && c.TelegramToken != "")
	c.EnableCLI = strconv.FormatBool(state.Channel == ChannelCLI)

	c.GeocoderSecondaries = nil
	for _, name := range geocoders {
		if name == c.GeocoderPrimary {
			continue
		}
		if (name == "pelias" && c.PeliasKey == "") || (name == "google" && c.GoogleKey == "") {
			continue
		}
		c.GeocoderSecondaries = append(c.GeocoderSecondaries, name)
	}

	if c.DatabaseDriver == "" {
		c.DatabaseDriver = "sqlite"
	}
	if c.Debug == "" {
		c.Debug = "0"
	}
}
