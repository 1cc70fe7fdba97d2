// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/tfctl/a11ydiff/internal/log"
)

var (
	ErrMalformedResult = errors.New("malformed audit result")
	ErrUnknownOutcome  = errors.New("unknown outcome value")
)

// Decode parses an audit result document.
//
// outcomes may be a JSON object keyed by rule, or the engine's native list of
// [rule, [outcome, ...]] pairs where rule is a string or an object with a
// "uri". Either way rule order follows the document. Inapplicable outcomes are
// dropped. A rule listed twice keeps its first position and its last outcomes.
func Decode(data []byte) (*Result, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedResult)
	}

	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: document is not an object", ErrMalformedResult)
	}

	outcomes := doc.Get("outcomes")
	if !outcomes.Exists() {
		return nil, fmt.Errorf("%w: missing outcomes", ErrMalformedResult)
	}

	result := &Result{
		AlfaVersion: doc.Get("alfaVersion").String(),
		Page:        decodePage(doc.Get("page")),
		Outcomes:    NewOrderedMap[[]Outcome](),
		Durations:   rawOf(doc.Get("durations")),
	}

	var err error
	switch {
	case outcomes.IsObject():
		outcomes.ForEach(func(key, value gjson.Result) bool {
			err = decodeRule(result.Outcomes, Rule(key.String()), value)
			return err == nil
		})
	case outcomes.IsArray():
		for i, pair := range outcomes.Array() {
			var rule Rule
			rule, err = decodeRuleKey(pair.Get("0"))
			if err != nil {
				err = fmt.Errorf("outcomes[%d]: %w", i, err)
				break
			}
			if err = decodeRule(result.Outcomes, rule, pair.Get("1")); err != nil {
				break
			}
		}
	default:
		err = fmt.Errorf("%w: outcomes must be an object or a list", ErrMalformedResult)
	}
	if err != nil {
		return nil, err
	}

	result.ResultAggregates = Aggregates(result.Outcomes)
	log.Debugf("decoded result: alfaVersion=%s rules=%d outcomes=%d",
		result.AlfaVersion, result.Outcomes.Len(), result.OutcomeCount())

	return result, nil
}

func decodeRuleKey(key gjson.Result) (Rule, error) {
	switch {
	case key.Type == gjson.String && key.String() != "":
		return Rule(key.String()), nil
	case key.IsObject() && key.Get("uri").String() != "":
		return Rule(key.Get("uri").String()), nil
	}
	return "", fmt.Errorf("%w: rule must be a URI or an object with a uri", ErrMalformedResult)
}

func decodeRule(into *OrderedMap[[]Outcome], rule Rule, list gjson.Result) error {
	if !list.IsArray() {
		return fmt.Errorf("%w: outcomes of %s must be a list", ErrMalformedResult, rule)
	}

	outcomes := []Outcome{}
	for _, item := range list.Array() {
		raw := item.Get("outcome").String()
		value, ok := ParseValue(raw)
		if !ok {
			return fmt.Errorf("%w: %q for %s", ErrUnknownOutcome, raw, rule)
		}
		if value == Inapplicable {
			log.Tracef("dropping inapplicable outcome: rule=%s", rule)
			continue
		}

		outcomes = append(outcomes, Outcome{
			Rule:         rule,
			Value:        value,
			Target:       rawOf(item.Get("target")),
			Expectations: rawOf(item.Get("expectations")),
			Mode:         item.Get("mode").String(),
		})
	}

	into.Set(rule, outcomes)
	return nil
}

func decodePage(page gjson.Result) Page {
	if !page.Exists() {
		return Page{}
	}
	return Page{
		URL:   page.Get("url").String(),
		Title: page.Get("title").String(),
		raw:   rawOf(page),
	}
}

// rawOf copies the raw text of a value so the result does not alias the
// caller's buffer.
func rawOf(v gjson.Result) json.RawMessage {
	if !v.Exists() {
		return nil
	}
	return json.RawMessage(v.Raw)
}
