// Package locale holds the localized prompt and answer texts spoken to
// callers. Texts for English, Hindi and Telugu are built in; any text can be
// overridden from configuration, and additional languages can be provided
// entirely through overrides.
package locale

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Anand38913/voice-outbound/internal/config"
)

// Key identifies one localized text.
type Key string

const (
	// KeyGreeting opens every call.
	KeyGreeting Key = "greeting"

	// KeyMenuItem is the per-language menu line. Takes the DTMF digit.
	KeyMenuItem Key = "menu_item"

	// KeyInvalidChoice is spoken when the caller's digit maps to no language.
	KeyInvalidChoice Key = "invalid_choice"

	// KeyQueryPrompt invites the caller to speak their question.
	KeyQueryPrompt Key = "query_prompt"

	// KeyNoInput is spoken when a recording produced no usable speech.
	KeyNoInput Key = "no_input"

	// KeyApology is spoken when the answer pipeline fails.
	KeyApology Key = "apology"

	// KeyContinuation asks whether the caller has another question.
	KeyContinuation Key = "continuation"

	// KeyGoodbye closes the call.
	KeyGoodbye Key = "goodbye"

	// KeyDefaultAnswer is the reply when no topic matches the question.
	KeyDefaultAnswer Key = "default_answer"

	// KeyAnswerBilling answers billing questions. Takes the care contact.
	KeyAnswerBilling Key = "answer_billing"

	// KeyAnswerRecharge answers recharge and plan questions.
	KeyAnswerRecharge Key = "answer_recharge"

	// KeyAnswerNetwork answers network and coverage questions.
	KeyAnswerNetwork Key = "answer_network"
)

// allKeys is the complete set every language must cover.
var allKeys = []Key{
	KeyGreeting, KeyMenuItem, KeyInvalidChoice, KeyQueryPrompt, KeyNoInput,
	KeyApology, KeyContinuation, KeyGoodbye, KeyDefaultAnswer,
	KeyAnswerBilling, KeyAnswerRecharge, KeyAnswerNetwork,
}

// ErrMissingText is returned by New when a configured language lacks a text.
var ErrMissingText = errors.New("missing localized text")

// Catalog maps language codes to their complete text sets.
type Catalog struct {
	texts map[string]map[Key]string
}

// New builds a catalog covering exactly the configured languages. Built-in
// texts are merged with the overrides (override wins); languages without
// built-in coverage must be fully supplied by overrides. The catalog is
// validated for totality so lookups at call time cannot miss.
func New(languages []config.LanguageConfig, overrides map[string]map[string]string) (*Catalog, error) {
	c := &Catalog{texts: make(map[string]map[Key]string, len(languages))}
	var errs []error
	for _, lang := range languages {
		set := make(map[Key]string, len(allKeys))
		for k, v := range builtin[lang.Code] {
			set[k] = v
		}
		for k, v := range overrides[lang.Code] {
			set[Key(k)] = v
		}
		var missing []string
		for _, k := range allKeys {
			if strings.TrimSpace(set[k]) == "" {
				missing = append(missing, string(k))
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			errs = append(errs, fmt.Errorf("%w: language %s lacks %s",
				ErrMissingText, lang.Code, strings.Join(missing, ", ")))
			continue
		}
		c.texts[lang.Code] = set
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return c, nil
}

// Text returns the text for key in the given language. New guarantees every
// configured language covers every key, so an empty result means the language
// code itself is unknown.
func (c *Catalog) Text(code string, key Key) string {
	return c.texts[code][key]
}

// Textf formats the text for key with args.
func (c *Catalog) Textf(code string, key Key, args ...any) string {
	return fmt.Sprintf(c.Text(code, key), args...)
}

// Languages returns the codes the catalog covers, sorted.
func (c *Catalog) Languages() []string {
	codes := make([]string, 0, len(c.texts))
	for code := range c.texts {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
