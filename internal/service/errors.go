package service

import (
	"errors"
	"log/slog"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mmynk/paylink/internal/models"
)

// errPaymentLinkNotFound is the single answer for an unknown billing and a
// wrong token on the anonymous path.
var errPaymentLinkNotFound = errors.New("payment link not found")

// toConnectError maps domain errors onto Connect codes. Unknown errors are
// logged and reported as Internal without their message.
func toConnectError(logger *slog.Logger, err error) error {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		return validationError(ve)
	case errors.Is(err, models.ErrBillingNotFound):
		return connect.NewError(connect.CodeNotFound, models.ErrBillingNotFound)
	case errors.Is(err, models.ErrAlreadySettled):
		return connect.NewError(connect.CodeFailedPrecondition, models.ErrAlreadySettled)
	case errors.Is(err, models.ErrConcurrentUpdate):
		return connect.NewError(connect.CodeAborted, models.ErrConcurrentUpdate)
	case errors.Is(err, models.ErrUnauthenticated):
		return connect.NewError(connect.CodeUnauthenticated, models.ErrUnauthenticated)
	default:
		logger.Error("Internal error", "error", err)
		return connect.NewError(connect.CodeInternal, errors.New("internal error"))
	}
}

// toPaymentError is toConnectError for the token-gated path: a missing
// billing and a token mismatch are indistinguishable to the caller.
func toPaymentError(logger *slog.Logger, err error) error {
	if errors.Is(err, models.ErrBillingNotFound) || errors.Is(err, models.ErrTokenMismatch) {
		return connect.NewError(connect.CodeNotFound, errPaymentLinkNotFound)
	}
	return toConnectError(logger, err)
}

// validationError builds an InvalidArgument error with a {field, message} detail.
func validationError(ve *models.ValidationError) error {
	cerr := connect.NewError(connect.CodeInvalidArgument, ve)
	detail, err := structpb.NewStruct(map[string]any{
		"field":   ve.Field,
		"message": ve.Message,
	})
	if err != nil {
		return cerr
	}
	if d, err := connect.NewErrorDetail(detail); err == nil {
		cerr.AddDetail(d)
	}
	return cerr
}
