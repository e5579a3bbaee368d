package middleware

import (
	"net/http"
	"strconv"

	"github.com/adforge/briefapi/internal/handlers"
	"github.com/adforge/briefapi/internal/metrics"
	"github.com/adforge/briefapi/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
	id           string
}

var GetHandler = Wrap(handlers.GetHandler)

var UploadBriefHandler = Wrap(handlers.UploadBriefHandler)
var GetStatusHandler = Wrap(handlers.GetStatusHandler)

var GetWorkflowHandler = Wrap(handlers.GetWorkflowHandler)
var EditBriefHandler = Wrap(handlers.EditBriefHandler)
var ConfirmBriefHandler = Wrap(handlers.ConfirmBriefHandler)
var SelectMotivationsHandler = Wrap(handlers.SelectMotivationsHandler)
var SelectCopyHandler = Wrap(handlers.SelectCopyHandler)
var SelectAssetsHandler = Wrap(handlers.SelectAssetsHandler)
var SelectTemplateHandler = Wrap(handlers.SelectTemplateHandler)
var BindMatrixHandler = Wrap(handlers.BindMatrixHandler)
var ExecuteHandler = Wrap(handlers.ExecuteHandler)
var BackHandler = Wrap(handlers.BackHandler)
var CancelHandler = Wrap(handlers.CancelHandler)

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re.logger.Info("New request received")
	re = injectTrace(re)
	re = authenticate(re)
	if re.badRequest.isBadRequest {
		return re //stop if auth fails
	}
	re = rateLimiter(re)
	return re
}
