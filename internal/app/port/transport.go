package port

import (
	"context"

	"balance_benchmark/internal/domain/entity"
)

// HTTPClient executes provider calls.
// Implementations return a classified *entity.RequestError for transport failures only;
// status classification is left to the caller.
type HTTPClient interface {
	Do(ctx context.Context, req entity.HTTPRequest) (entity.HTTPResponse, error)
}
