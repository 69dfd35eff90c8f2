package opendata

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/ougirez/crimestat/internal/pkg/utils"
)

// RawRow is one flat record exactly as the portal returned it, keyed by
// the source-language field names.
type RawRow map[string]any

// Numbers decode as json.Number so large counts survive untouched.
var decoder = sonic.Config{UseNumber: true}.Froze()

var ErrUnexpectedPayload = errors.New("opendata: unexpected payload shape")

// Element is the outcome of decoding one entry of a payload's data array:
// either Row is set or Skip says why it was dropped.
type Element struct {
	Row  RawRow
	Skip SkipReason
}

type Payload struct {
	Elements   []Element
	TotalCount int
	Skipped    Tally
}

// DecodeCyberPayload expects {"data": [{...}, ...]}.
func DecodeCyberPayload(body []byte) (*Payload, error) {
	var top map[string]any
	if err := decoder.Unmarshal(body, &top); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedPayload, err.Error())
	}

	items, _ := top["data"].([]any)
	payload := &Payload{
		Elements:   make([]Element, 0, len(items)),
		TotalCount: totalCount(top),
		Skipped:    Tally{},
	}
	for _, item := range items {
		el := Element{Skip: SkipNotObject}
		if m, ok := item.(map[string]any); ok {
			el = Element{Row: m}
		}
		payload.add(el)
	}

	return payload, nil
}

// DecodeVoicePayload accepts either {"data": [...]} or a bare array. Each
// element may be an object or a string holding a JSON-encoded object.
// Anything else is skipped.
func DecodeVoicePayload(body []byte) (*Payload, error) {
	var top any
	if err := decoder.Unmarshal(body, &top); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedPayload, err.Error())
	}

	var (
		items []any
		total int
	)
	switch v := top.(type) {
	case map[string]any:
		items, _ = v["data"].([]any)
		total = totalCount(v)
	case []any:
		items = v
	default:
		return nil, fmt.Errorf("%w: top level is %T", ErrUnexpectedPayload, top)
	}

	payload := &Payload{Elements: make([]Element, 0, len(items)), TotalCount: total, Skipped: Tally{}}
	for _, item := range items {
		payload.add(decodeElement(item))
	}

	return payload, nil
}

func decodeElement(item any) Element {
	switch v := item.(type) {
	case map[string]any:
		return Element{Row: v}
	case string:
		var inner any
		if err := decoder.UnmarshalFromString(v, &inner); err != nil {
			return Element{Skip: SkipUndecodable}
		}
		if m, ok := inner.(map[string]any); ok {
			return Element{Row: m}
		}
		return Element{Skip: SkipNotObject}
	default:
		return Element{Skip: SkipNotObject}
	}
}

func (p *Payload) add(el Element) {
	p.Elements = append(p.Elements, el)
	if el.Row == nil {
		p.Skipped.Add(el.Skip)
	}
}

func totalCount(top map[string]any) int {
	return utils.CoerceInt(top["totalCount"], 0)
}
