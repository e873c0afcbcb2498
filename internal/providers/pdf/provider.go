package pdf

import (
	"bytes"
	"context"
	"io"
)

type Provider interface {
	GeneratePayslip(ctx context.Context, data PayslipData) (io.Reader, error)
}

type NoOpProvider struct{}

func (p *NoOpProvider) GeneratePayslip(ctx context.Context, data PayslipData) (io.Reader, error) {
	return bytes.NewReader(nil), nil
}
