package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/pattarin/bloodlens/agent/contract"
	openrouterx "github.com/pattarin/bloodlens/pkg/openrouter"
)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.3"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"60s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	VerifierModel           string  `envconfig:"VERIFIER_MODEL" split_words:"true"`
	DoctorModel             string  `envconfig:"DOCTOR_MODEL" split_words:"true"`
	NutritionistModel       string  `envconfig:"NUTRITIONIST_MODEL" split_words:"true"`
	ExerciseModel           string  `envconfig:"EXERCISE_MODEL" split_words:"true"`
	VerifierTemperature     float32 `envconfig:"VERIFIER_TEMPERATURE" split_words:"true" default:"-1"`
	DoctorTemperature       float32 `envconfig:"DOCTOR_TEMPERATURE" split_words:"true" default:"-1"`
	NutritionistTemperature float32 `envconfig:"NUTRITIONIST_TEMPERATURE" split_words:"true" default:"-1"`
	ExerciseTemperature     float32 `envconfig:"EXERCISE_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

func (c Config) OpenRouterFor(agentType contractx.AgentType) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	switch agentType {
	case contractx.AgentTypeVerifier:
		if v := strings.TrimSpace(c.VerifierModel); v != "" {
			modelName = v
		}
		if c.VerifierTemperature >= 0 {
			temp = c.VerifierTemperature
		}
	case contractx.AgentTypeDoctor:
		if v := strings.TrimSpace(c.DoctorModel); v != "" {
			modelName = v
		}
		if c.DoctorTemperature >= 0 {
			temp = c.DoctorTemperature
		}
	case contractx.AgentTypeNutritionist:
		if v := strings.TrimSpace(c.NutritionistModel); v != "" {
			modelName = v
		}
		if c.NutritionistTemperature >= 0 {
			temp = c.NutritionistTemperature
		}
	case contractx.AgentTypeExercise:
		if v := strings.TrimSpace(c.ExerciseModel); v != "" {
			modelName = v
		}
		if c.ExerciseTemperature >= 0 {
			temp = c.ExerciseTemperature
		}
	}

	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
