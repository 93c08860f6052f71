package app

import "context"

type ExtractService interface {
	Extract(ctx context.Context, req ExtractRequest) (*ExtractResult, error)
}
