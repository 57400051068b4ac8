// Package callflow decides what happens next in a call. It is pure decision
// logic over the session state and the incoming webhook parameters; handlers
// perform the resulting I/O and persist the next state.
//
// The signaling provider may deliver a callback twice or out of order, so
// every function here is total: any state and input combination yields a
// usable step rather than an error the caller could not speak to.
package callflow

import (
	"github.com/Anand38913/voice-outbound/internal/config"
	"github.com/Anand38913/voice-outbound/internal/session"
)

// Step is the action the handler must take next.
type Step int

const (
	// StepMenu plays the greeting and the language menu.
	StepMenu Step = iota

	// StepAskQuery prompts for a question and records the caller.
	StepAskQuery

	// StepProcessRecording runs the transcription and answer pipeline.
	StepProcessRecording

	// StepNoInput tells the caller nothing was heard and offers the
	// continuation menu.
	StepNoInput

	// StepGoodbye wraps up and hangs up.
	StepGoodbye

	// StepRepeatContinuation re-asks the continuation menu after an
	// unmapped digit.
	StepRepeatContinuation
)

// Outcome is one flow decision.
type Outcome struct {
	Step Step

	// Language is the conversation language for the step. Valid for every
	// step except StepMenu.
	Language config.LanguageConfig

	// Invalid marks that the caller's digit mapped to nothing; the prompt
	// should say so before the step's own text.
	Invalid bool

	// Next is the session state to persist.
	Next session.State
}

// CallAnswered handles the initial voice webhook. A duplicate delivery mid
// call simply restarts the conversation at the menu; the session keeps its
// turn count.
func CallAnswered(_ session.Call) Outcome {
	return Outcome{Step: StepMenu, Next: session.StateAwaitingLanguage}
}

// LanguageChosen handles the menu digits. An unmapped digit degrades to the
// fallback language with an invalid-choice notice; absent digits (the gather
// timed out) degrade silently.
func LanguageChosen(cfg *config.Config, _ session.Call, digits string) Outcome {
	if lang, ok := cfg.LanguageByDigit(digits); ok {
		return Outcome{Step: StepAskQuery, Language: lang, Next: session.StateAwaitingQuery}
	}
	return Outcome{
		Step:     StepAskQuery,
		Language: cfg.FallbackLanguage(),
		Invalid:  digits != "",
		Next:     session.StateAwaitingQuery,
	}
}

// RecordingReceived handles the recording webhook. Without a recording URL
// the caller hears a no-input notice and lands on the continuation menu; with
// one the pipeline runs. A session that never saw a language selection (a
// dropped or duplicated callback) continues in the fallback language.
func RecordingReceived(cfg *config.Config, call session.Call, hasRecording bool) Outcome {
	lang := conversationLanguage(cfg, call)
	if !hasRecording {
		return Outcome{Step: StepNoInput, Language: lang, Next: session.StateAwaitingContinuation}
	}
	return Outcome{Step: StepProcessRecording, Language: lang, Next: session.StateAwaitingContinuation}
}

// ContinuationChosen handles the post-answer menu. Digit 1 starts another
// question, 2 returns to the language menu, 3 or a timeout ends the call. Any
// other digit re-asks the menu; a stray key must not hang up on the caller.
func ContinuationChosen(cfg *config.Config, call session.Call, digits string) Outcome {
	lang := conversationLanguage(cfg, call)
	switch digits {
	case "1":
		return Outcome{Step: StepAskQuery, Language: lang, Next: session.StateAwaitingQuery}
	case "2":
		return Outcome{Step: StepMenu, Language: lang, Next: session.StateAwaitingLanguage}
	case "3", "":
		return Outcome{Step: StepGoodbye, Language: lang, Next: session.StateEnded}
	}
	return Outcome{
		Step:     StepRepeatContinuation,
		Language: lang,
		Invalid:  true,
		Next:     session.StateAwaitingContinuation,
	}
}

func conversationLanguage(cfg *config.Config, call session.Call) config.LanguageConfig {
	if lang, ok := cfg.LanguageByCode(call.Language); ok {
		return lang
	}
	return cfg.FallbackLanguage()
}
