// Package apperr defines the closed error taxonomy shared by the cart
// and catalog services. Callers branch on the Kind, never on the
// concrete message.
package apperr

import "errors"

type Kind string

const (
	InvalidArgument     Kind = "invalid_argument"
	InvalidQuantity     Kind = "invalid_quantity"
	ProductNotFound     Kind = "product_not_found"
	ProductNotAvailable Kind = "product_not_available"
	OutOfStock          Kind = "out_of_stock"
	CartFull            Kind = "cart_full"
	ArithmeticOverflow  Kind = "arithmetic_overflow"
	CartNotFound        Kind = "cart_not_found"
	PersistenceFailure  Kind = "persistence_failure"
	ServiceFailure      Kind = "service_failure"
)

type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Wrap tags cause with kind while keeping it reachable via errors.Is
// and errors.As.
func Wrap(kind Kind, message string, cause error) error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf returns the kind of the outermost *Error in err's chain, or
// "" when err carries no kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
