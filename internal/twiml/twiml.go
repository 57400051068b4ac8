// Package twiml renders the XML call-control documents returned from webhook
// callbacks. Only the verbs this service speaks are modelled.
package twiml

import (
	"encoding/xml"
	"errors"
	"fmt"
)

// Response is the root document for one webhook reply.
type Response struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any
}

// Say speaks text with the provider's built-in voice.
type Say struct {
	XMLName  xml.Name `xml:"Say"`
	Voice    string   `xml:"voice,attr,omitempty"`
	Language string   `xml:"language,attr,omitempty"`
	Text     string   `xml:",chardata"`
}

// Play fetches and plays an audio URL.
type Play struct {
	XMLName xml.Name `xml:"Play"`
	URL     string   `xml:",chardata"`
}

// Gather collects DTMF digits and posts them to Action. Verbs nested inside
// are played while gathering; on timeout without input the document continues
// after the Gather, so a fallback verb must follow it.
type Gather struct {
	XMLName   xml.Name `xml:"Gather"`
	Action    string   `xml:"action,attr,omitempty"`
	Method    string   `xml:"method,attr,omitempty"`
	NumDigits int      `xml:"numDigits,attr,omitempty"`
	Timeout   int      `xml:"timeout,attr,omitempty"`
	Verbs     []any
}

// Record records the caller and posts the recording URL to Action. On
// silence past Timeout the document continues after the Record.
type Record struct {
	XMLName   xml.Name `xml:"Record"`
	Action    string   `xml:"action,attr,omitempty"`
	Method    string   `xml:"method,attr,omitempty"`
	MaxLength int      `xml:"maxLength,attr,omitempty"`
	Timeout   int      `xml:"timeout,attr,omitempty"`
}

// Redirect transfers control to another webhook URL.
type Redirect struct {
	XMLName xml.Name `xml:"Redirect"`
	Method  string   `xml:"method,attr,omitempty"`
	URL     string   `xml:",chardata"`
}

// Hangup ends the call.
type Hangup struct {
	XMLName xml.Name `xml:"Hangup"`
}

// Validate checks that the document cannot strand the call: it must contain
// at least one verb, end in a Redirect or Hangup so fallthrough is always
// defined, and every Gather or Record must carry an action callback.
func (r *Response) Validate() error {
	if len(r.Verbs) == 0 {
		return errors.New("empty response document")
	}
	switch r.Verbs[len(r.Verbs)-1].(type) {
	case Redirect, *Redirect, Hangup, *Hangup:
	default:
		return fmt.Errorf("document ends in %T, want Redirect or Hangup", r.Verbs[len(r.Verbs)-1])
	}
	return validateVerbs(r.Verbs)
}

func validateVerbs(verbs []any) error {
	for _, v := range verbs {
		switch v := v.(type) {
		case Gather:
			if v.Action == "" {
				return errors.New("Gather without action")
			}
			if err := validateVerbs(v.Verbs); err != nil {
				return err
			}
		case *Gather:
			if v.Action == "" {
				return errors.New("Gather without action")
			}
			if err := validateVerbs(v.Verbs); err != nil {
				return err
			}
		case Record:
			if v.Action == "" {
				return errors.New("Record without action")
			}
		case *Record:
			if v.Action == "" {
				return errors.New("Record without action")
			}
		}
	}
	return nil
}

// Render validates the document and marshals it with the XML declaration the
// signaling provider expects.
func Render(r *Response) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid response document: %w", err)
	}
	body, err := xml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal response document: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}
