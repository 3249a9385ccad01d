package httperror

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/card-ledger/internal/apperr"
	"github.com/carson-networks/card-ledger/internal/logging"
)

// OwnerHeader carries the caller identity set by the upstream gateway.
const OwnerHeader = "X-Owner-ID"

var humaNewError = huma.NewError

// Request bodies that fail huma's schema checks are reported as 400 like
// every other field error, keeping huma's body.<field> details.
func init() {
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		if status == http.StatusUnprocessableEntity {
			status = http.StatusBadRequest
		}
		return humaNewError(status, msg, errs...)
	}
}

// ParseOwnerID returns the owner UUID from the X-Owner-ID header value.
func ParseOwnerID(ctx context.Context, raw string) (uuid.UUID, error) {
	ownerID, err := uuid.FromString(strings.TrimSpace(raw))
	if err != nil || ownerID == uuid.Nil {
		herr := huma.NewError(http.StatusBadRequest, "missing or malformed "+OwnerHeader+" header", &huma.ErrorDetail{
			Message:  "must be a non-nil UUID",
			Location: "header." + OwnerHeader,
			Value:    raw,
		})
		record(ctx, herr)
		return uuid.Nil, herr
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("ownerID", ownerID.String())
	}
	return ownerID, nil
}

// FromError records err on the request log line and converts it to the
// HTTP error returned to the caller. Storage failures keep their cause out
// of the response.
func FromError(ctx context.Context, err error) error {
	record(ctx, err)

	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		return huma.NewError(http.StatusInternalServerError, "internal error")
	}

	switch appErr.Kind {
	case apperr.KindValidation:
		details := make([]error, len(appErr.Fields))
		for i, f := range appErr.Fields {
			details[i] = &huma.ErrorDetail{
				Message:  f.Reason,
				Location: "body." + f.Field,
				Value:    f.Value,
			}
		}
		return huma.NewError(http.StatusBadRequest, appErr.Message, details...)
	case apperr.KindConflict:
		return huma.NewError(http.StatusBadRequest, appErr.Message)
	case apperr.KindNotFound:
		return huma.NewError(http.StatusNotFound, appErr.Message)
	case apperr.KindAuthorization:
		return huma.NewError(http.StatusForbidden, appErr.Message)
	case apperr.KindStorage:
		return huma.ErrorWithHeaders(
			huma.NewError(http.StatusInternalServerError, "storage unavailable, retry the request"),
			http.Header{"Retry-After": []string{"1"}},
		)
	default:
		return huma.NewError(http.StatusInternalServerError, "internal error")
	}
}

func record(ctx context.Context, err error) {
	if logData := logging.GetLogData(ctx); logData != nil {
		logData.SetError(err)
		logData.AddData("errorKind", apperr.KindOf(err).String())
	}
}
