package httpapi

import (
	"net/http"

	"github.com/Anand38913/voice-outbound/internal/config"
	"github.com/Anand38913/voice-outbound/internal/locale"
	"github.com/Anand38913/voice-outbound/internal/twiml"
)

const (
	// gatherTimeout is how long the provider waits for a digit.
	gatherTimeout = 5

	// recordMaxLength caps a recorded question, in seconds.
	recordMaxLength = 30

	// recordSilenceTimeout ends a recording after this much silence.
	recordSilenceTimeout = 4
)

func (s *Server) say(lang config.LanguageConfig, key locale.Key, args ...any) twiml.Say {
	return twiml.Say{
		Text:     s.catalog.Textf(lang.Code, key, args...),
		Language: lang.Code,
	}
}

// menuDocument greets the caller in every configured language and gathers the
// selection digit. A timeout falls through to the language callback without
// digits, which continues in the fallback language.
func (s *Server) menuDocument() *twiml.Response {
	verbs := make([]any, 0, 2*len(s.cfg.Languages))
	for _, lang := range s.cfg.Languages {
		verbs = append(verbs, s.say(lang, locale.KeyGreeting))
	}
	for _, lang := range s.cfg.Languages {
		verbs = append(verbs, s.say(lang, locale.KeyMenuItem, lang.Digit))
	}
	return &twiml.Response{Verbs: []any{
		twiml.Gather{
			Action:    s.webhookURL("/twilio/language"),
			Method:    http.MethodPost,
			NumDigits: 1,
			Timeout:   gatherTimeout,
			Verbs:     verbs,
		},
		twiml.Redirect{Method: http.MethodPost, URL: s.webhookURL("/twilio/language")},
	}}
}

// askQueryDocument prompts for a question and records it. A caller who stays
// silent falls through the Record verb into a no-input notice and the
// continuation menu in the same document, so the call never dangles and is
// never hung up on for saying nothing.
func (s *Server) askQueryDocument(lang config.LanguageConfig, invalid bool) *twiml.Response {
	doc := &twiml.Response{}
	if invalid {
		doc.Verbs = append(doc.Verbs, s.say(lang, locale.KeyInvalidChoice))
	}
	doc.Verbs = append(doc.Verbs,
		s.say(lang, locale.KeyQueryPrompt),
		twiml.Record{
			Action:    s.webhookURL("/twilio/recording"),
			Method:    http.MethodPost,
			MaxLength: recordMaxLength,
			Timeout:   recordSilenceTimeout,
		},
	)
	doc.Verbs = append(doc.Verbs, s.noInputDocument(lang).Verbs...)
	return doc
}

// noInputDocument tells the caller nothing was heard and offers the
// continuation menu.
func (s *Server) noInputDocument(lang config.LanguageConfig) *twiml.Response {
	doc := s.continuationDocument(lang)
	doc.Verbs = append([]any{s.say(lang, locale.KeyNoInput)}, doc.Verbs...)
	return doc
}

// answerDocument plays the reply and offers the continuation menu. The reply
// is the stored artifact when synthesis succeeded, otherwise the answer text
// spoken by the provider's own voice.
func (s *Server) answerDocument(lang config.LanguageConfig, artifactID, fallbackText string) *twiml.Response {
	var reply any
	if artifactID != "" {
		reply = twiml.Play{URL: s.webhookURL("/audio/" + artifactID)}
	} else {
		reply = twiml.Say{Text: fallbackText, Language: lang.Code}
	}
	doc := s.continuationDocument(lang)
	doc.Verbs = append([]any{reply}, doc.Verbs...)
	return doc
}

// apologyDocument is the spoken form of a pipeline failure.
func (s *Server) apologyDocument(lang config.LanguageConfig) *twiml.Response {
	doc := s.continuationDocument(lang)
	doc.Verbs = append([]any{s.say(lang, locale.KeyApology)}, doc.Verbs...)
	return doc
}

// continuationDocument gathers the next-question digit. A timeout falls
// through to the continuation callback without digits, which says goodbye.
func (s *Server) continuationDocument(lang config.LanguageConfig) *twiml.Response {
	return &twiml.Response{Verbs: []any{
		twiml.Gather{
			Action:    s.webhookURL("/twilio/continue"),
			Method:    http.MethodPost,
			NumDigits: 1,
			Timeout:   gatherTimeout,
			Verbs:     []any{s.say(lang, locale.KeyContinuation)},
		},
		twiml.Redirect{Method: http.MethodPost, URL: s.webhookURL("/twilio/continue")},
	}}
}

// goodbyeDocument wraps up and hangs up.
func (s *Server) goodbyeDocument(lang config.LanguageConfig) *twiml.Response {
	return &twiml.Response{Verbs: []any{
		s.say(lang, locale.KeyGoodbye),
		twiml.Hangup{},
	}}
}
