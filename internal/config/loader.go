package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultListenAddr        = ":8080"
	defaultInactivityTimeout = Duration(10 * time.Minute)
	defaultSweepInterval     = Duration(time.Minute)
	defaultArtifactDir       = "replies"
	defaultArtifactMaxAge    = Duration(time.Hour)
	defaultArtifactSweep     = Duration(5 * time.Minute)
	defaultArtifactMaxCount  = 1000
)

// defaultLanguages is the menu offered when the config declares none.
var defaultLanguages = []LanguageConfig{
	{Code: "en-IN", Name: "English", Digit: "1", Fallback: true},
	{Code: "hi-IN", Name: "Hindi", Digit: "2"},
	{Code: "te-IN", Name: "Telugu", Digit: "3"},
}

// validProviderNames lists the implementations each stage can be wired to.
var validProviderNames = map[string][]string{
	"stt": {"sarvam"},
	"tts": {"sarvam"},
	"llm": {"", "openai", "anthropic", "gemini", "ollama", "deepseek", "mistral", "groq", "llamacpp", "llamafile"},
}

// envRef matches ${VAR} references in the raw config text. Bare $VAR is left
// alone so prompt texts may contain dollar signs.
var envRef = regexp.MustCompile(`\$\{(\w+)\}`)

func expandEnv(raw []byte) []byte {
	return envRef.ReplaceAllFunc(raw, func(m []byte) []byte {
		name := string(m[2 : len(m)-1])
		return []byte(os.Getenv(name))
	})
}

// Load reads, expands, decodes and validates the configuration file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a configuration document from r. ${VAR} references
// are replaced with environment values before decoding, unknown YAML keys are
// rejected, defaults are applied and the result is validated.
func LoadFromReader(r io.Reader) (*Config, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	dec := yaml.NewDecoder(strings.NewReader(string(expandEnv(raw))))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = defaultListenAddr
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = LogInfo
	}
	if len(c.Languages) == 0 {
		c.Languages = append(c.Languages, defaultLanguages...)
	}
	hasFallback := false
	for _, l := range c.Languages {
		if l.Fallback {
			hasFallback = true
			break
		}
	}
	if !hasFallback && len(c.Languages) > 0 {
		c.Languages[0].Fallback = true
	}
	if c.Providers.STT.Name == "" {
		c.Providers.STT.Name = "sarvam"
	}
	if c.Providers.TTS.Name == "" {
		c.Providers.TTS.Name = "sarvam"
	}
	if c.Session.InactivityTimeout <= 0 {
		c.Session.InactivityTimeout = defaultInactivityTimeout
	}
	if c.Session.SweepInterval <= 0 {
		c.Session.SweepInterval = defaultSweepInterval
	}
	if c.Artifacts.Dir == "" {
		c.Artifacts.Dir = defaultArtifactDir
	}
	if c.Artifacts.MaxAge <= 0 {
		c.Artifacts.MaxAge = defaultArtifactMaxAge
	}
	if c.Artifacts.SweepInterval <= 0 {
		c.Artifacts.SweepInterval = defaultArtifactSweep
	}
	if c.Artifacts.MaxCount == 0 {
		c.Artifacts.MaxCount = defaultArtifactMaxCount
	}
}

// Validate checks the configuration for consistency. All violations are
// reported at once, joined into a single error.
func (c *Config) Validate() error {
	var errs []error

	if !c.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level: unknown level %q", c.Server.LogLevel))
	}
	if c.Server.PublicURL == "" {
		errs = append(errs, errors.New("server.public_url: required, callers fetch audio from it"))
	} else if !strings.HasPrefix(c.Server.PublicURL, "http://") && !strings.HasPrefix(c.Server.PublicURL, "https://") {
		errs = append(errs, fmt.Errorf("server.public_url: %q is not an http(s) URL", c.Server.PublicURL))
	}

	partial := c.Telephony.AccountSID != "" || c.Telephony.AuthToken != "" || c.Telephony.FromNumber != ""
	if partial && !c.Telephony.Enabled() {
		errs = append(errs, errors.New("telephony: account_sid, auth_token and from_number must be set together"))
	}

	errs = append(errs, c.validateLanguages()...)
	errs = append(errs, validateProviderEntry("stt", c.Providers.STT)...)
	errs = append(errs, validateProviderEntry("tts", c.Providers.TTS)...)
	errs = append(errs, validateProviderEntry("llm", c.Providers.LLM)...)

	if c.Artifacts.MaxCount < 0 {
		errs = append(errs, fmt.Errorf("artifacts.max_count: must not be negative, got %d", c.Artifacts.MaxCount))
	}

	return errors.Join(errs...)
}

func (c *Config) validateLanguages() []error {
	var errs []error
	if len(c.Languages) == 0 {
		return []error{errors.New("languages: at least one language is required")}
	}
	codes := make(map[string]bool, len(c.Languages))
	digits := make(map[string]bool, len(c.Languages))
	fallbacks := 0
	for i, l := range c.Languages {
		if l.Code == "" {
			errs = append(errs, fmt.Errorf("languages[%d].code: required", i))
		} else if codes[l.Code] {
			errs = append(errs, fmt.Errorf("languages[%d].code: duplicate %q", i, l.Code))
		}
		codes[l.Code] = true

		if len(l.Digit) != 1 || l.Digit[0] < '0' || l.Digit[0] > '9' {
			errs = append(errs, fmt.Errorf("languages[%d].digit: must be a single digit 0-9, got %q", i, l.Digit))
		} else if digits[l.Digit] {
			errs = append(errs, fmt.Errorf("languages[%d].digit: duplicate %q", i, l.Digit))
		}
		digits[l.Digit] = true

		if l.Fallback {
			fallbacks++
		}
	}
	if fallbacks > 1 {
		errs = append(errs, fmt.Errorf("languages: %d languages marked fallback, want exactly one", fallbacks))
	}
	return errs
}

func validateProviderEntry(stage string, e ProviderEntry) []error {
	var errs []error
	valid := false
	for _, name := range validProviderNames[stage] {
		if e.Name == name {
			valid = true
			break
		}
	}
	if !valid {
		errs = append(errs, fmt.Errorf("providers.%s.name: unknown provider %q, valid: %s",
			stage, e.Name, strings.Join(validProviderNames[stage], ", ")))
	}
	if e.Name == "sarvam" && e.APIKey == "" {
		errs = append(errs, fmt.Errorf("providers.%s.api_key: required for sarvam", stage))
	}
	return errs
}
