package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Anand38913/voice-outbound/internal/answer"
	"github.com/Anand38913/voice-outbound/internal/callflow"
	"github.com/Anand38913/voice-outbound/internal/config"
	"github.com/Anand38913/voice-outbound/internal/locale"
	"github.com/Anand38913/voice-outbound/internal/observe"
	"github.com/Anand38913/voice-outbound/internal/session"
	"github.com/Anand38913/voice-outbound/internal/twiml"
	"github.com/Anand38913/voice-outbound/pkg/audioformat"
	"github.com/Anand38913/voice-outbound/pkg/provider"
	"github.com/Anand38913/voice-outbound/pkg/provider/tts"
)

// emergencyDocument is written when rendering a real document fails. The
// caller hears nothing useful, but the provider gets valid XML and releases
// the call instead of retrying.
const emergencyDocument = `<?xml version="1.0" encoding="UTF-8"?><Response><Hangup></Hangup></Response>`

// writeDocument validates, renders and writes a call-control document with
// status 200. Webhook responses never carry an error status.
func (s *Server) writeDocument(w http.ResponseWriter, r *http.Request, doc *twiml.Response) {
	w.Header().Set("Content-Type", "application/xml")
	body, err := twiml.Render(doc)
	if err != nil {
		observe.Logger(r.Context()).Error("could not render call document", "error", err)
		body = []byte(emergencyDocument)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (s *Server) recordWebhook(ctx context.Context, route string, start time.Time) {
	s.metrics.WebhookDuration.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("route", route)))
}

// getSession looks up the call session, keeping the active-sessions gauge
// accurate when a webhook recreates a session the sweep already removed.
func (s *Server) getSession(ctx context.Context, callID string) (session.Call, bool) {
	call, created := s.sessions.GetOrCreate(callID)
	if created {
		s.metrics.ActiveSessions.Add(ctx, 1)
	}
	return call, created
}

// handleVoice answers the first webhook of a call with the language menu.
func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer s.recordWebhook(r.Context(), "voice", start)

	callID := r.FormValue("CallSid")
	call, created := s.getSession(r.Context(), callID)
	if created {
		s.metrics.RecordCallStarted(r.Context(), "inbound")
	}
	out := callflow.CallAnswered(call)
	s.sessions.Update(callID, func(c *session.Call) { c.State = out.Next })

	observe.Logger(r.Context()).Info("call answered", "call_id", callID, "new_session", created)
	s.writeDocument(w, r, s.menuDocument())
}

// handleLanguage consumes the menu digits and moves the call into the
// question prompt.
func (s *Server) handleLanguage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer s.recordWebhook(r.Context(), "language", start)

	callID := r.FormValue("CallSid")
	digits := r.FormValue("Digits")
	call, _ := s.getSession(r.Context(), callID)

	out := callflow.LanguageChosen(s.cfg, call, digits)
	s.sessions.Update(callID, func(c *session.Call) {
		c.Language = out.Language.Code
		c.State = out.Next
	})

	observe.Logger(r.Context()).Info("language chosen",
		"call_id", callID, "digits", digits, "language", out.Language.Code, "invalid", out.Invalid)
	s.writeDocument(w, r, s.askQueryDocument(out.Language, out.Invalid))
}

// handleRecording drives one question and answer cycle: download the
// recording, transcribe it, build the reply, synthesize it and play it back.
// Every failure degrades to a spoken path; the webhook response is always a
// valid document.
func (s *Server) handleRecording(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer s.recordWebhook(r.Context(), "recording", start)

	ctx := r.Context()
	log := observe.Logger(ctx)
	callID := r.FormValue("CallSid")
	recordingURL := r.FormValue("RecordingUrl")
	call, _ := s.getSession(r.Context(), callID)

	out := callflow.RecordingReceived(s.cfg, call, recordingURL != "")
	if out.Step == callflow.StepNoInput {
		s.sessions.Update(callID, func(c *session.Call) { c.State = out.Next })
		log.Info("recording callback without url", "call_id", callID)
		s.writeDocument(w, r, s.noInputDocument(out.Language))
		return
	}

	transcript, err := s.transcribe(ctx, recordingURL, out.Language)
	if err != nil {
		s.failTurn(w, r, callID, out, err)
		return
	}
	if transcript == "" {
		// The caller was silent or unintelligible; treat it as no input
		// without burning a turn.
		s.sessions.Update(callID, func(c *session.Call) { c.State = session.StateAwaitingContinuation })
		log.Info("empty transcript, treating as no input", "call_id", callID)
		s.writeDocument(w, r, s.noInputDocument(out.Language))
		return
	}

	reply := s.buildReply(ctx, transcript, out.Language)
	s.sessions.Update(callID, func(c *session.Call) {
		c.State = out.Next
		c.TurnCount++
	})
	s.metrics.RecordAnswerServed(ctx, out.Language.Code, string(answer.Classify(transcript)))
	log.Info("answer served",
		"call_id", callID, "language", out.Language.Code,
		"transcript_len", len(transcript), "artifact", reply.artifactID)
	s.writeDocument(w, r, s.answerDocument(out.Language, reply.artifactID, reply.text))
}

// handleContinue consumes the post-answer digit: another question, back to
// the language menu, goodbye, or a re-prompt for an unmapped digit.
func (s *Server) handleContinue(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer s.recordWebhook(r.Context(), "continue", start)

	callID := r.FormValue("CallSid")
	digits := r.FormValue("Digits")
	call, _ := s.getSession(r.Context(), callID)

	out := callflow.ContinuationChosen(s.cfg, call, digits)
	s.sessions.Update(callID, func(c *session.Call) { c.State = out.Next })

	switch out.Step {
	case callflow.StepGoodbye:
		s.sessions.Delete(callID)
		s.metrics.ActiveSessions.Add(r.Context(), -1)
		observe.Logger(r.Context()).Info("call ended",
			"call_id", callID, "turns", call.TurnCount)
		s.writeDocument(w, r, s.goodbyeDocument(out.Language))
	case callflow.StepMenu:
		s.writeDocument(w, r, s.menuDocument())
	case callflow.StepRepeatContinuation:
		doc := s.continuationDocument(out.Language)
		doc.Verbs = append([]any{s.say(out.Language, locale.KeyInvalidChoice)}, doc.Verbs...)
		s.writeDocument(w, r, doc)
	default:
		s.writeDocument(w, r, s.askQueryDocument(out.Language, false))
	}
}

// failTurn logs a pipeline failure, keeps the session moving and apologizes
// to the caller. The turn count does not advance.
func (s *Server) failTurn(w http.ResponseWriter, r *http.Request, callID string, out callflow.Outcome, err error) {
	var upErr *provider.UpstreamError
	if errors.As(err, &upErr) {
		s.metrics.RecordUpstreamError(r.Context(), upErr.Service)
	}
	s.sessions.Update(callID, func(c *session.Call) { c.State = out.Next })
	observe.Logger(r.Context()).Error("question pipeline failed", "call_id", callID, "error", err)
	s.writeDocument(w, r, s.apologyDocument(out.Language))
}

// transcribe downloads the recording and runs speech recognition. The
// returned transcript is trimmed; empty means the caller said nothing usable.
func (s *Server) transcribe(ctx context.Context, recordingURL string, lang config.LanguageConfig) (string, error) {
	if s.telephony == nil {
		return "", &provider.UpstreamError{Service: "recording", Err: errors.New("telephony not configured")}
	}

	fetchStart := time.Now()
	audio, err := s.telephony.FetchRecording(ctx, recordingURL)
	s.metrics.RecordingFetchDuration.Record(ctx, time.Since(fetchStart).Seconds())
	if err != nil {
		return "", err
	}

	sttStart := time.Now()
	transcript, err := s.stt.Transcribe(ctx, audio, lang.Code)
	s.metrics.STTDuration.Record(ctx, time.Since(sttStart).Seconds())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(transcript), nil
}

// builtReply is the outcome of answering one question.
type builtReply struct {
	// text is the answer, always set.
	text string

	// artifactID names the synthesized audio, empty when synthesis failed
	// and the text must be spoken by the provider instead.
	artifactID string
}

// buildReply produces the answer text and, best effort, its synthesized
// audio artifact. Synthesis failures are not fatal; the caller still hears
// the answer through the provider's voice.
func (s *Server) buildReply(ctx context.Context, transcript string, lang config.LanguageConfig) builtReply {
	log := observe.Logger(ctx)
	text := s.answerer.Answer(ctx, transcript, lang.Code)

	ttsStart := time.Now()
	audio, err := s.tts.Synthesize(ctx, tts.Request{
		Text:     text,
		Language: lang.Code,
		Voice:    lang.Voice,
	})
	s.metrics.TTSDuration.Record(ctx, time.Since(ttsStart).Seconds())
	if err != nil {
		var upErr *provider.UpstreamError
		if errors.As(err, &upErr) {
			s.metrics.RecordUpstreamError(ctx, upErr.Service)
		}
		log.Warn("synthesis failed, speaking answer text", "error", err)
		return builtReply{text: text}
	}

	format := audio.Format
	if format == "" {
		format = audioformat.Detect(audio.Data)
	}
	id, err := s.artifacts.Put(audio.Data, format)
	if err != nil {
		log.Warn("could not store reply artifact", "error", err)
		return builtReply{text: text}
	}
	s.metrics.ArtifactsStored.Add(ctx, 1)
	return builtReply{text: text, artifactID: id}
}
