package identity

import "context"

// ServiceOption configures a Service instance.
type ServiceOption func(*Service)

// OperationLogger records domain-level events emitted by Service operations.
type OperationLogger interface {
	LogOperation(ctx context.Context, entry OperationLog)
}

// OperationLog describes an identity operation and its outcome.
type OperationLog struct {
	Operation string
	Email     string
	UserID    string
	Status    string
	Error     error
}

// WithOperationLogger wires a logger that receives callbacks for every operation.
func WithOperationLogger(logger OperationLogger) ServiceOption {
	return func(service *Service) {
		service.logger = logger
	}
}

// WithTokenSource overrides the session token generator; used by tests.
func WithTokenSource(tokenFn func() (string, error)) ServiceOption {
	return func(service *Service) {
		service.tokenFn = tokenFn
	}
}
