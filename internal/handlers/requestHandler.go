package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/adforge/briefapi/internal/adapter"
	"github.com/adforge/briefapi/internal/adapter/utils"
	"github.com/adforge/briefapi/internal/config"
	"github.com/adforge/briefapi/internal/domain/briefModel"
	"github.com/adforge/briefapi/internal/domain/jobModel"
	"github.com/adforge/briefapi/internal/extract"
	"github.com/adforge/briefapi/pkg/logger_i"
)

var logRH *logger_i.Logger

// technically i dont need this
// but i want to eventually remove jobHandler from handlers and set it in another package
// so in anticipation for that this struct exists
type newJobData struct {
	id                    string
	sessionId             string
	traceId               string
	jobType               jobModel.JobType
	documentName          string
	documentPath          string
	mediaType             string
	epoch                 int64
	selectedMotivationIds []string
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	return
}

// UploadBriefHandler handles the uploading of a creative brief document.
// @Summary      Upload a brief document
// @Description  Receives a file via multipart/form-data, saves it to a temporary directory, resets the session workflow and queues an extraction job.
// @Tags         Briefs
// @Accept       multipart/form-data
// @Produce      json
// @Param        session_id  formData  string  false  "Workflow session to upload into; a new one is created when empty"
// @Param        document    formData  file    true   "The brief document (txt, md, doc, docx or pdf)"
// @Success      202  {object}  api.InitJobResponse "Accepted - extraction queued"
// @Failure      400  {object}  api.JobResponse "Bad Request - missing file"
// @Failure      413  {object}  api.JobResponse "File exceeds the upload limit"
// @Failure      415  {object}  api.JobResponse "Unsupported document format"
// @Failure      500  {object}  api.JobResponse "Internal Server Error - Storage or Write Error"
// @Router       /briefs [post]
func UploadBriefHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		targetDir, errString := getTargetDirectory()

		if errString != "" {
			logRH.Error("Couldn't get target directory :", "err", errString)
			WriteErrorResponse(w, http.StatusInternalServerError, "", errString)
			return
		}

		//reject oversized payloads before buffering the form
		if r.ContentLength > config.MaxUploadBytes {
			WriteErrorResponse(w, http.StatusRequestEntityTooLarge, "", "Document exceeds the upload limit")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBytes)
		err := r.ParseMultipartForm(config.MaxUploadBytes)
		if err != nil {
			WriteErrorResponse(w, http.StatusRequestEntityTooLarge, "", "File too large or bad request")
			return
		}

		//get the document the user uploads
		fileReader, fileMetadata, err := r.FormFile("document")
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "", "Could not retrieve file")
			return
		}
		defer fileReader.Close()

		if fileMetadata.Size > config.MaxUploadBytes {
			WriteErrorResponse(w, http.StatusRequestEntityTooLarge, fileMetadata.Filename, "Document exceeds the upload limit")
			return
		}

		//reject formats we cannot extract before spending a job on them
		mediaType := fileMetadata.Header.Get("Content-Type")
		if extract.DetectFormat(fileMetadata.Filename, mediaType) == briefModel.FormatUnknown {
			WriteErrorResponse(w, http.StatusUnsupportedMediaType, fileMetadata.Filename, "Unsupported document format")
			return
		}

		filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), fileMetadata.Filename)
		tempFilePath := filepath.Join(targetDir, filename)
		destinationFileWriter, err := os.Create(tempFilePath)
		if err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, fileMetadata.Filename, "Storage error")
			return
		}
		defer destinationFileWriter.Close()

		if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, fileMetadata.Filename, "Write error")
			return
		}

		sessionId := r.FormValue("session_id")
		if sessionId == "" {
			sessionId = utils.GetNewUUID()
			logRH.Debug(" New workflow session : ", "sessionId:", sessionId)
		}
		//a re-upload resets the session and bumps its epoch so an
		//in-flight extraction for the old document is discarded
		state := workflowManager.BeginExtraction(r.Context(), sessionId)

		newJob := newJobData{
			id:           utils.GetNewUUID(),
			sessionId:    sessionId,
			traceId:      r.Context().Value(config.TRACE_ID_KEY).(string),
			jobType:      jobModel.JobTypeExtract,
			documentName: fileMetadata.Filename,
			documentPath: tempFilePath,
			mediaType:    mediaType,
			epoch:        state.Epoch,
		}
		CreateNewJob(newJob)
		writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.id, sessionId))
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a specific job using its ID.
// @Tags         Job Status
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Job ID "
// @Success      200  {object}  api.JobResponse   "Successful retrieval of job status"
// @Failure      404  {object}  api.JobResponse   "Job not found (returns Error object within JobResponse)"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		//use chi get the url id
		idString := utils.GetChiURLParam(r, "id")
		result, isFound := validateId(idString, r.Context().Value(config.TRACE_ID_KEY).(string))

		logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
		if !isFound {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
	}
}
