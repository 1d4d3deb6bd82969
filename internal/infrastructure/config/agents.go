package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"jetlag-advisor/internal/domain/entity"
)

//go:embed agents.yaml
var defaultAgentsYAML []byte

// Agents holds the persona of each generation stage.
type Agents struct {
	TravelAssistant entity.AgentDefinition `yaml:"travel_assistant"`
	HealthMonitor   entity.AgentDefinition `yaml:"health_monitor"`
	SchedulePlanner entity.AgentDefinition `yaml:"schedule_planner"`
}

// LoadAgents returns the built-in agent definitions, overlaid with path when it is set.
// Agents missing from the file keep their built-in definition.
func LoadAgents(path string) (*Agents, error) {
	agents := &Agents{}
	if err := yaml.Unmarshal(defaultAgentsYAML, agents); err != nil {
		return nil, fmt.Errorf("failed to parse built-in agents: %w", err)
	}
	if path == "" {
		return agents, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read agents file %s: %w", path, err)
	}
	var override Agents
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("failed to parse agents file %s: %w", path, err)
	}
	mergeAgent(&agents.TravelAssistant, override.TravelAssistant)
	mergeAgent(&agents.HealthMonitor, override.HealthMonitor)
	mergeAgent(&agents.SchedulePlanner, override.SchedulePlanner)

	if err := agents.Validate(); err != nil {
		return nil, err
	}
	return agents, nil
}

// Validate requires a role for every agent.
func (a *Agents) Validate() error {
	for name, agent := range map[string]entity.AgentDefinition{
		"travel_assistant": a.TravelAssistant,
		"health_monitor":   a.HealthMonitor,
		"schedule_planner": a.SchedulePlanner,
	} {
		if agent.Role == "" {
			return fmt.Errorf("agent %s has no role", name)
		}
	}
	return nil
}

func mergeAgent(dst *entity.AgentDefinition, src entity.AgentDefinition) {
	if src.Role != "" {
		dst.Role = src.Role
	}
	if src.Goal != "" {
		dst.Goal = src.Goal
	}
	if src.Backstory != "" {
		dst.Backstory = src.Backstory
	}
}
