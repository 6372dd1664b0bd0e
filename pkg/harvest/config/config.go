package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/neurocorpus/harvest/pkg/harvest"
	"github.com/neurocorpus/harvest/pkg/harvest/keywords"
)

// Duration wraps time.Duration so pacing values can be written as "500ms"
// or "2s" in YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Study is the on-disk study configuration: which containers and search
// terms to collect, the keyword categories, and pipeline constants. Omitted
// sections fall back to the built-in study defaults.
type Study struct {
	Containers []string `yaml:"containers"`
	Terms      []string `yaml:"terms"`

	Keywords struct {
		Subject    []string `yaml:"subject"`
		Domain     []string `yaml:"domain"`
		Experience []string `yaml:"experience"`
	} `yaml:"keywords"`

	Labels     []string `yaml:"labels"`
	Threshold  float64  `yaml:"threshold"`
	CommentCap int      `yaml:"comment_cap"`

	PacingConfig *struct {
		PerSubmission Duration `yaml:"per_submission"`
		TermMin       Duration `yaml:"term_min"`
		TermMax       Duration `yaml:"term_max"`
		ContainerMin  Duration `yaml:"container_min"`
		ContainerMax  Duration `yaml:"container_max"`
	} `yaml:"pacing"`
}

// LoadStudy loads a study configuration from a YAML file.
func LoadStudy(path string) (*Study, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Study
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}

	return &s, nil
}

// Filter builds the relevance filter from the configured keyword lists,
// falling back per category to the study defaults.
func (s *Study) Filter() *keywords.Filter {
	subject := s.Keywords.Subject
	if len(subject) == 0 {
		subject = keywords.DefaultSubjectTerms
	}
	domain := s.Keywords.Domain
	if len(domain) == 0 {
		domain = keywords.DefaultDomainTerms
	}
	experience := s.Keywords.Experience
	if len(experience) == 0 {
		experience = keywords.DefaultExperienceTerms
	}
	return keywords.NewFilter(
		keywords.NewCategory("subject", subject),
		keywords.NewCategory("domain", domain),
		keywords.NewCategory("experience", experience),
	)
}

// Pacing returns the configured pacing, or the polite defaults when the
// pacing section is absent.
func (s *Study) Pacing() harvest.Pacing {
	if s.PacingConfig == nil {
		return harvest.DefaultPacing()
	}
	return harvest.Pacing{
		PerSubmission: s.PacingConfig.PerSubmission.Std(),
		TermMin:       s.PacingConfig.TermMin.Std(),
		TermMax:       s.PacingConfig.TermMax.Std(),
		ContainerMin:  s.PacingConfig.ContainerMin.Std(),
		ContainerMax:  s.PacingConfig.ContainerMax.Std(),
	}
}
