package entity

// AgentDefinition describes the persona a generation call runs under.
type AgentDefinition struct {
	Role      string `yaml:"role" json:"role"`
	Goal      string `yaml:"goal" json:"goal"`
	Backstory string `yaml:"backstory" json:"backstory"`
}

// GenerationRequest is one call to the text-generation capability.
type GenerationRequest struct {
	Agent  AgentDefinition
	Prompt string
}
