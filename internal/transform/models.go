package transform

import (
	"github.com/aws/aws-lambda-go/events"
)

// Result is the per-record disposition reported back to Firehose.
type Result string

const (
	ResultOk               Result = events.KinesisFirehoseTransformedStateOk
	ResultDropped          Result = events.KinesisFirehoseTransformedStateDropped
	ResultProcessingFailed Result = events.KinesisFirehoseTransformedStateProcessingFailed
)

// Event is the Firehose data-transformation request. Record data is kept as
// the raw base64 string so that a malformed record fails on its own instead
// of failing the whole invocation.
type Event struct {
	InvocationID           string   `json:"invocationId"`
	DeliveryStreamArn      string   `json:"deliveryStreamArn"`
	SourceKinesisStreamArn string   `json:"sourceKinesisStreamArn,omitempty"`
	Region                 string   `json:"region"`
	Records                []Record `json:"records"`
}

type Record struct {
	RecordID                    string `json:"recordId"`
	ApproximateArrivalTimestamp int64  `json:"approximateArrivalTimestamp,omitempty"`
	Data                        string `json:"data"`
}

type Response struct {
	Records []ResponseRecord `json:"records"`
}

type ResponseRecord struct {
	RecordID string `json:"recordId"`
	Result   Result `json:"result"`
	Data     string `json:"data"`
}

// Summary counts records per result.
type Summary struct {
	Ok               int `json:"ok"`
	Dropped          int `json:"dropped"`
	ProcessingFailed int `json:"processing_failed"`
}

func Summarize(records []ResponseRecord) Summary {
	var s Summary
	for _, r := range records {
		switch r.Result {
		case ResultOk:
			s.Ok++
		case ResultDropped:
			s.Dropped++
		case ResultProcessingFailed:
			s.ProcessingFailed++
		}
	}
	return s
}
