package installer

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandevgo/stoptext/configs"
	"github.com/sandevgo/stoptext/internal/config"
	"github.com/sandevgo/stoptext/pkg/env"
)

const messagesFile = "messages.yml"

// SaveEnvStep writes the collected configuration to .env file
type SaveEnvStep struct {
	err   error
	saved bool
}

func NewSaveEnvStep() Step {
	return &SaveEnvStep{}
}

func (s *SaveEnvStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *SaveEnvStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.saved {
		return nil, nil
	}

	if err := WriteEnv(config.GetRuntimePath(), &state.Settings); err != nil {
		s.err = err
		return s, nil
	}

	s.saved = true
	return nil, nil // Signal completion
}

func (s *SaveEnvStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.saved {
		return "Configuration saved successfully!\n"
	}
	return "Saving configuration...\n"
}

// WriteEnv creates dir/.env from settings. An existing file is never overwritten.
func WriteEnv(dir string, settings *Settings) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create runtime directory: %w", err)
	}

	envPath := filepath.Join(dir, ".env")
	if _, err := os.Stat(envPath); err == nil {
		return fmt.Errorf(".env file already exists at %s", envPath)
	}

	content, err := env.MarshalEnv(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	return os.WriteFile(envPath, []byte(content), 0600)
}

// InitializeFilesStep copies the embedded reply templates to the runtime directory
// so operators can edit them.
type InitializeFilesStep struct {
	err  error
	done bool
}

func NewInitializeFilesStep() Step {
	return &InitializeFilesStep{}
}

func (s *InitializeFilesStep) Init() tea.Cmd {
	return nil
}

func (s *InitializeFilesStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.done {
		return nil, nil
	}

	path, err := WriteMessages(config.GetRuntimePath())
	if err != nil {
		s.err = err
		return s, nil
	}
	state.Settings.MessagesPath = path

	s.done = true
	return nil, nil
}

func (s *InitializeFilesStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.done {
		return "Runtime files initialized successfully!\n"
	}
	return "Initializing runtime files...\n"
}

// WriteMessages writes the default templates to dir unless a copy already exists.
func WriteMessages(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create runtime directory: %w", err)
	}

	dst := filepath.Join(dir, messagesFile)
	if _, err := os.Stat(dst); err == nil {
		return dst, nil
	}
	if err := os.WriteFile(dst, configs.Messages, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return dst, nil
}
