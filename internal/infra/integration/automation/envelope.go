package automation

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/xavierca1/recruitica/internal/entity"
	"github.com/xavierca1/recruitica/internal/infra/htmlutil"
)

// envelopeShape is one historical wrapping of the draft payload.
type envelopeShape struct {
	name    string
	match   func(body any) bool
	extract func(body any) map[string]any
}

// Order matters: the first matching shape wins.
var envelopeShapes = []envelopeShape{
	{
		name: "array-output",
		match: func(body any) bool {
			return asObject(field(firstElement(body), "output")) != nil
		},
		extract: func(body any) map[string]any {
			return asObject(field(firstElement(body), "output"))
		},
	},
	{
		name: "object-output",
		match: func(body any) bool {
			return asObject(field(asObject(body), "output")) != nil
		},
		extract: func(body any) map[string]any {
			return asObject(field(asObject(body), "output"))
		},
	},
	{
		name: "array-response-body",
		match: func(body any) bool {
			return asObject(field(asObject(field(firstElement(body), "response")), "body")) != nil
		},
		extract: func(body any) map[string]any {
			return asObject(field(asObject(field(firstElement(body), "response")), "body"))
		},
	},
	{
		name: "canonical",
		match: func(body any) bool {
			obj := asObject(body)
			if obj == nil {
				return false
			}
			for _, k := range []string{"emailSubject", "emailBody", "html"} {
				if _, ok := obj[k]; ok {
					return true
				}
			}
			return false
		},
		extract: asObject,
	},
}

// normalizeDraft finds the envelope around body and returns the canonical
// draft together with the name of the shape that matched.
func normalizeDraft(body any) (*entity.Draft, string, error) {
	for _, shape := range envelopeShapes {
		if !shape.match(body) {
			continue
		}
		draft, err := decodeDraft(shape.extract(body))
		if err != nil {
			return nil, shape.name, fmt.Errorf("%w: %s: %v", ErrUnrecognizedResponseShape, shape.name, err)
		}
		return draft, shape.name, nil
	}
	return nil, "", ErrUnrecognizedResponseShape
}

func decodeDraft(inner map[string]any) (*entity.Draft, error) {
	var p draftPayload
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &p,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(inner); err != nil {
		return nil, err
	}

	body := p.EmailBody
	if strings.TrimSpace(body) == "" {
		body = p.HTML
	}
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("empty email body")
	}

	subject := strings.TrimSpace(p.EmailSubject)
	if subject == "" {
		subject = htmlutil.Title(body)
	}
	if subject == "" {
		subject = entity.DefaultEmailSubject
	}

	contacts := p.ClientList
	if len(contacts) == 0 {
		contacts = p.Contacts
	}
	if contacts == nil {
		contacts = []entity.Contact{}
	}

	return &entity.Draft{Subject: subject, Body: body, Contacts: contacts}, nil
}

func asObject(v any) map[string]any {
	obj, _ := v.(map[string]any)
	return obj
}

func firstElement(v any) any {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return nil
	}
	return arr[0]
}

func field(obj any, key string) any {
	m := asObject(obj)
	if m == nil {
		return nil
	}
	return m[key]
}
