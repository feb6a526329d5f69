package templating

// TemplateConfig holds all configuration options for the templating engine.
type TemplateConfig struct {
	// MaxGenerate caps the number of symbols a single generate or words call
	// may request.
	MaxGenerate int `json:"max_generate"`

	// MaxRepeat caps the length of the slice returned by repeat.
	MaxRepeat int `json:"max_repeat"`

	// DefaultWrap is the width used by wrap when it is given a width below 1.
	DefaultWrap int `json:"default_wrap"`
}

// DefaultConfig returns a TemplateConfig with safe default values.
func DefaultConfig() TemplateConfig {
	return TemplateConfig{
		MaxGenerate: 100_000,
		MaxRepeat:   1_000,
		DefaultWrap: 80,
	}
}
