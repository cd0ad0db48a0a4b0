package transform

import (
	"context"
	"fmt"

	"cwlprocessor/internal/constants"
)

const selfCheckDocument = `{"messageType":"DATA_MESSAGE","owner":"health","logGroup":"health","logStream":"health","subscriptionFilters":[],"logEvents":[]}`

// SelfCheck pushes a synthetic record through the decode and filter stages.
// The document predicate is bypassed so a restrictive filter does not make
// the service look unhealthy.
type SelfCheck struct {
	service *Service
}

func NewSelfCheck(service *Service) *SelfCheck {
	return &SelfCheck{service: service}
}

func (c *SelfCheck) Name() string {
	return "transformer"
}

func (c *SelfCheck) Check(ctx context.Context) error {
	data, err := EncodeData([]byte(selfCheckDocument))
	if err != nil {
		return err
	}

	probe := &Service{workers: constants.DefaultWorkers, logger: c.service.logger}
	outcome := probe.TransformRecord(ctx, Record{RecordID: "health", Data: data})
	if outcome.Disposition != DispositionOk {
		return fmt.Errorf("self check produced %s: %v", outcome.Disposition, outcome.Err)
	}
	if string(outcome.Payload) != selfCheckDocument {
		return fmt.Errorf("self check payload mismatch")
	}
	return nil
}
