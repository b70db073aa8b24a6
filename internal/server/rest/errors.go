package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/contactkeeper/internal/common"
	"github.com/dmitrijs2005/contactkeeper/internal/logging"
)

// statusByKind is the only place where domain error kinds become HTTP codes.
var statusByKind = map[common.ErrorKind]int{
	common.KindValidation:         http.StatusBadRequest,
	common.KindUnauthenticated:    http.StatusUnauthorized,
	common.KindInvalidCredentials: http.StatusUnauthorized,
	common.KindEmailNotVerified:   http.StatusUnauthorized,
	common.KindNotFound:           http.StatusNotFound,
	common.KindAlreadyVerified:    http.StatusBadRequest,
	common.KindConflict:           http.StatusConflict,
	common.KindInternal:           http.StatusInternalServerError,
}

const internalErrorMessage = "Internal Server Error"

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

// writeError answers with the error's kind and message. Errors without a
// kind are infrastructure faults: they are logged and hidden from the caller.
func writeError(ctx context.Context, w http.ResponseWriter, log logging.Logger, err error) {
	var domainErr *common.Error
	if !errors.As(err, &domainErr) || domainErr.Kind == common.KindInternal {
		log.Error(ctx, "request failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	status, ok := statusByKind[domainErr.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	if domainErr.Err != nil {
		log.Debug(ctx, "request rejected", "kind", domainErr.Kind.String(), "cause", domainErr.Err)
	}
	writeMessage(w, status, domainErr.Message)
}

func badRequest(msg string) error {
	return common.NewError(common.KindValidation, msg)
}
