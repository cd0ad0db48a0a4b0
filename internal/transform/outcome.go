package transform

// Disposition tags an Outcome.
type Disposition int

const (
	DispositionOk Disposition = iota
	DispositionDropped
	DispositionFailed
)

func (d Disposition) Result() Result {
	switch d {
	case DispositionOk:
		return ResultOk
	case DispositionDropped:
		return ResultDropped
	default:
		return ResultProcessingFailed
	}
}

func (d Disposition) String() string {
	return string(d.Result())
}

// Outcome is the result of processing a single record. Payload is set only
// for DispositionOk and Err only for DispositionFailed.
type Outcome struct {
	Disposition Disposition
	Payload     []byte
	Reason      string
	Err         error
}

func Transformed(payload []byte) Outcome {
	return Outcome{Disposition: DispositionOk, Payload: payload}
}

func Dropped(reason string) Outcome {
	return Outcome{Disposition: DispositionDropped, Reason: reason}
}

func Failed(err error) Outcome {
	return Outcome{Disposition: DispositionFailed, Err: err}
}

// Response builds the output record. Non-Ok outcomes pass the original data
// through unchanged.
func (o Outcome) Response(rec Record) ResponseRecord {
	if o.Disposition == DispositionOk {
		return ResponseRecord{
			RecordID: rec.RecordID,
			Result:   ResultOk,
			Data:     EncodePayload(o.Payload),
		}
	}

	return ResponseRecord{
		RecordID: rec.RecordID,
		Result:   o.Disposition.Result(),
		Data:     rec.Data,
	}
}
