package httpx

import (
	"context"
	"errors"

	"github.com/target/storefront-admin/internal/domain/model"
	apperrors "github.com/target/storefront-admin/internal/errors"
)

const errMsgSaveFailed = "Unable to save. Please try again."

// processError turns a service error into a general message plus any field
// errors it carries. Field messages from the backend or local validation win
// over the generic "fix below" banner.
func processError(err error, fieldErrors map[string]string) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) || apperrors.IsTimeout(err) {
		return "Request timed out. Please try again."
	}
	if errors.Is(err, context.Canceled) || apperrors.IsCanceled(err) {
		return "Request was canceled."
	}

	var fields model.FieldErrors
	if errors.As(err, &fields) {
		for k, v := range fields {
			fieldErrors[k] = v
		}
		return errMsgFixBelow
	}
	if field := apperrors.GetField(err); field != "" {
		fieldErrors[field] = apperrors.UserMessage(err, "This field has an invalid value.")
		return errMsgFixBelow
	}

	switch {
	case apperrors.IsConflict(err):
		return apperrors.UserMessage(err, "This value already exists. Please choose a different one.")
	case apperrors.IsForeignKey(err):
		return apperrors.UserMessage(err, "Cannot complete operation because this item is in use.")
	}
	return apperrors.UserMessage(err, errMsgSaveFailed)
}
