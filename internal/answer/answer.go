// Package answer turns a transcribed caller question into a localized reply
// text. Questions are routed to a known support topic by fuzzy keyword
// matching; unmatched questions go to an optional language model, and when
// that is absent or fails the caller gets the localized default reply.
package answer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/antzucaro/matchr"

	"github.com/Anand38913/voice-outbound/internal/locale"
	"github.com/Anand38913/voice-outbound/internal/observe"
	"github.com/Anand38913/voice-outbound/pkg/provider/llm"
)

// similarityThreshold is the Jaro-Winkler score above which a token counts as
// a keyword hit. Tuned to tolerate common transcription slips (billing vs
// biling) without matching unrelated words.
const similarityThreshold = 0.92

// Topic is a support subject the engine can answer directly.
type Topic string

const (
	TopicBilling  Topic = "billing"
	TopicRecharge Topic = "recharge"
	TopicNetwork  Topic = "network"
	TopicUnknown  Topic = "unknown"
)

// keywords per topic. Entries cover the built-in languages; transcripts
// arrive in the script of the chosen language.
var topicKeywords = map[Topic][]string{
	TopicBilling: {
		"bill", "billing", "invoice", "payment", "charge", "charged", "refund", "overcharged",
		"बिल", "बिलिंग", "भुगतान", "रिफंड", "चार्ज",
		"బిల్", "బిల్లు", "చెల్లింపు", "రీఫండ్",
	},
	TopicRecharge: {
		"recharge", "topup", "plan", "balance", "validity", "pack",
		"रिचार्ज", "प्लान", "बैलेंस", "पैक",
		"రీఛార్జ్", "ప్లాన్", "బ్యాలెన్స్", "ప్యాక్",
	},
	TopicNetwork: {
		"network", "signal", "coverage", "internet", "data", "slow", "connection",
		"नेटवर्क", "सिग्नल", "इंटरनेट", "डेटा", "कनेक्शन",
		"నెట్‌వర్క్", "సిగ్నల్", "ఇంటర్నెట్", "డేటా",
	},
}

// topicOrder breaks score ties deterministically.
var topicOrder = []Topic{TopicBilling, TopicRecharge, TopicNetwork}

// Engine produces reply texts.
type Engine struct {
	catalog     *locale.Catalog
	careContact string
	model       llm.Provider
	metrics     *observe.Metrics
	log         *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithModel wires a language model for questions no topic matches.
func WithModel(p llm.Provider) Option {
	return func(e *Engine) { e.model = p }
}

// WithLogger sets the engine's logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithMetrics sets the metrics instance. Defaults to the package-level one.
func WithMetrics(m *observe.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// New returns an engine answering from catalog, speaking careContact in
// billing replies.
func New(catalog *locale.Catalog, careContact string, opts ...Option) *Engine {
	e := &Engine{
		catalog:     catalog,
		careContact: careContact,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.metrics == nil {
		e.metrics = observe.DefaultMetrics()
	}
	return e
}

// Answer returns the reply text for question in the given language. It never
// fails: an unusable model response degrades to the localized default reply.
func (e *Engine) Answer(ctx context.Context, question, langCode string) string {
	topic := Classify(question)
	e.log.Debug("classified caller question", "topic", topic, "language", langCode)

	switch topic {
	case TopicBilling:
		return e.catalog.Textf(langCode, locale.KeyAnswerBilling, e.careContact)
	case TopicRecharge:
		return e.catalog.Text(langCode, locale.KeyAnswerRecharge)
	case TopicNetwork:
		return e.catalog.Text(langCode, locale.KeyAnswerNetwork)
	}

	if e.model != nil {
		if reply, err := e.complete(ctx, question, langCode); err != nil {
			e.log.Warn("model completion failed, using default reply", "error", err)
		} else if reply != "" {
			return reply
		}
	}
	return e.catalog.Text(langCode, locale.KeyDefaultAnswer)
}

func (e *Engine) complete(ctx context.Context, question, langCode string) (string, error) {
	start := time.Now()
	defer func() {
		e.metrics.LLMDuration.Record(ctx, time.Since(start).Seconds())
	}()
	resp, err := e.model.Complete(ctx, llm.Request{
		SystemPrompt: fmt.Sprintf(
			"You are a telecom customer support agent on a phone call. "+
				"Answer the caller's question in at most two short sentences, "+
				"in the language with BCP-47 code %s. The answer is spoken "+
				"aloud, so use no formatting or lists.", langCode),
		UserMessage: question,
		MaxTokens:   150,
		Temperature: 0.3,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp), nil
}

// Classify maps a question to the best-scoring topic, or [TopicUnknown] when
// no keyword comes close enough.
func Classify(question string) Topic {
	tokens := tokenize(question)
	if len(tokens) == 0 {
		return TopicUnknown
	}

	scores := make(map[Topic]int, len(topicKeywords))
	for topic, keywords := range topicKeywords {
		for _, tok := range tokens {
			for _, kw := range keywords {
				if tokenMatches(tok, kw) {
					scores[topic]++
					break
				}
			}
		}
	}

	best := TopicUnknown
	bestScore := 0
	for _, topic := range topicOrder {
		if scores[topic] > bestScore {
			best = topic
			bestScore = scores[topic]
		}
	}
	return best
}

func tokenMatches(token, keyword string) bool {
	if token == keyword {
		return true
	}
	if matchr.JaroWinkler(token, keyword, false) >= similarityThreshold {
		return true
	}
	// Phonetic equality catches transcription spellings of English terms,
	// e.g. "reacharge". Double Metaphone only handles Latin script, and
	// short codes collide too easily ("today" and "data" both code TT).
	if isASCII(token) && isASCII(keyword) {
		tp, ts := matchr.DoubleMetaphone(token)
		kp, ks := matchr.DoubleMetaphone(keyword)
		if len(tp) >= 3 && (tp == kp || tp == ks || (ts != "" && (ts == kp || ts == ks))) {
			return true
		}
	}
	return false
}

func tokenize(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?;:\"'()[]{}")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}
