package transform

import (
	"context"
	"fmt"

	"github.com/valyala/fastjson"

	"cwlprocessor/internal/constants"
	apperrors "cwlprocessor/pkg/errors"
	"cwlprocessor/pkg/metrics"
)

const (
	dropReasonMessageType = "message_type"
	dropReasonPredicate   = "predicate"
)

// DocumentPredicate narrows DATA_MESSAGE documents further. A false result
// drops the record.
type DocumentPredicate interface {
	Evaluate(ctx context.Context, document map[string]interface{}) (bool, error)
}

// evaluateDocument parses a decompressed CloudWatch Logs document and decides
// its outcome. An Ok payload is the whole document re-serialised compactly
// with its field order preserved.
func (s *Service) evaluateDocument(ctx context.Context, raw []byte) Outcome {
	if err := fastjson.ValidateBytes(raw); err != nil {
		return Failed(apperrors.ErrParse.WithCause(err))
	}

	p := s.parsers.Get()
	defer s.parsers.Put(p)

	v, err := p.ParseBytes(raw)
	if err != nil {
		return Failed(apperrors.ErrParse.WithCause(err))
	}

	if v.Type() != fastjson.TypeObject {
		return Failed(apperrors.ErrUnexpected.WithCause(fmt.Errorf("log document is a JSON %s, not an object", v.Type())))
	}

	if !isDataMessage(v) {
		return Dropped(dropReasonMessageType)
	}

	// v is owned by the pooled parser, so the payload is copied out first.
	// Marshalling also has to happen before nativeObject unescapes strings
	// in place.
	payload := v.MarshalTo(nil)

	if s.predicate != nil {
		keep, err := s.predicate.Evaluate(ctx, nativeObject(v))
		if err != nil {
			metrics.IncPredicateEvaluation("error")
			return Failed(apperrors.ErrUnexpected.WithCause(err))
		}
		if !keep {
			metrics.IncPredicateEvaluation("dropped")
			return Dropped(dropReasonPredicate)
		}
		metrics.IncPredicateEvaluation("kept")
	}

	return Transformed(payload)
}

func isDataMessage(v *fastjson.Value) bool {
	mt := v.Get("messageType")
	if mt == nil || mt.Type() != fastjson.TypeString {
		return false
	}
	b, err := mt.StringBytes()
	if err != nil {
		return false
	}
	return string(b) == constants.MessageTypeData
}

func nativeObject(v *fastjson.Value) map[string]interface{} {
	doc, _ := nativeValue(v).(map[string]interface{})
	return doc
}

func nativeValue(v *fastjson.Value) interface{} {
	switch v.Type() {
	case fastjson.TypeObject:
		obj, _ := v.Object()
		out := make(map[string]interface{}, obj.Len())
		obj.Visit(func(key []byte, val *fastjson.Value) {
			out[string(key)] = nativeValue(val)
		})
		return out
	case fastjson.TypeArray:
		arr, _ := v.Array()
		out := make([]interface{}, len(arr))
		for i, item := range arr {
			out[i] = nativeValue(item)
		}
		return out
	case fastjson.TypeString:
		b, _ := v.StringBytes()
		return string(b)
	case fastjson.TypeNumber:
		f, _ := v.Float64()
		return f
	case fastjson.TypeTrue:
		return true
	case fastjson.TypeFalse:
		return false
	default:
		return nil
	}
}
