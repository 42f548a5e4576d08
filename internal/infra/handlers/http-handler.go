package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"maya-backend/internal/domain/dto"
	Iservices "maya-backend/internal/domain/interfaces/services"
	"maya-backend/internal/infra/logger"
	"maya-backend/internal/infra/repository"
	"maya-backend/internal/infra/services"
)

// maxUploadBytes caps the multipart form held in memory per transcription
// request.
const maxUploadBytes = 25 << 20

type ApiHandlers struct {
	Logger         *logger.Logger
	Pipeline       *services.TurnPipeline
	Session        *services.Session
	Persona        *repository.PersonaFileRepository
	Excel          *repository.ExcelExporter
	PDF            *services.PDFRenderer
	Mailer         Iservices.IMailer
	Recommendation *services.RecommendationService
}

func NewApiHandlers(
	logger *logger.Logger,
	pipeline *services.TurnPipeline,
	session *services.Session,
	persona *repository.PersonaFileRepository,
	excel *repository.ExcelExporter,
	pdf *services.PDFRenderer,
	mailer Iservices.IMailer,
	recommendation *services.RecommendationService,
) *ApiHandlers {
	return &ApiHandlers{
		Logger:         logger,
		Pipeline:       pipeline,
		Session:        session,
		Persona:        persona,
		Excel:          excel,
		PDF:            pdf,
		Mailer:         mailer,
		Recommendation: recommendation,
	}
}

func (ah *ApiHandlers) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Hello World!"})
}

// Transcribe runs one conversational turn: the uploaded recording in, the
// enriched reply messages out.
func (ah *ApiHandlers) Transcribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorDetail{Detail: "Invalid multipart form"})
		return
	}

	file, _, err := r.FormFile("audio")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorDetail{Detail: "Missing audio file"})
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorDetail{Detail: "Failed to read audio file"})
		return
	}

	messages, err := ah.Pipeline.Run(r.Context(), audio)
	if err != nil {
		ah.Logger.Error(fmt.Sprintf("Turn failed: %v", err))
		writeJSON(w, http.StatusInternalServerError, dto.ErrorDetail{Detail: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, dto.TranscribeResponse{Messages: messages})
}

// SetLanguage switches the transcription provider and synthesis voice for
// subsequent turns.
func (ah *ApiHandlers) SetLanguage(w http.ResponseWriter, r *http.Request) {
	var request dto.SetLanguageRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorDetail{Detail: "Error to process JSON"})
		return
	}
	defer r.Body.Close()

	binding, err := services.ResolveLanguage(request.Language)
	if err != nil {
		var unsupported *services.ErrUnsupportedLanguage
		if errors.As(err, &unsupported) {
			writeJSON(w, http.StatusBadRequest, dto.ErrorDetail{
				Detail: fmt.Sprintf("Unsupported language: %s. Supported languages: %s",
					request.Language, strings.Join(services.SupportedLanguages(), ", ")),
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorDetail{Detail: err.Error()})
		return
	}

	ah.Session.SetBinding(binding)
	ah.Logger.Info(fmt.Sprintf("Language set to %s (provider %s)", request.Language, binding.Provider))
	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "success"})
}

func (ah *ApiHandlers) GetUserPersona(w http.ResponseWriter, r *http.Request) {
	doc, err := ah.Persona.Load()
	if err != nil {
		ah.Logger.Error(fmt.Sprintf("Failed to read user persona: %v", err))
		writeJSON(w, http.StatusInternalServerError, dto.ErrorDetail{Detail: fmt.Sprintf("Failed to read user persona: %v", err)})
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (ah *ApiHandlers) UpdateUserPersona(w http.ResponseWriter, r *http.Request) {
	var update dto.UserPersonaUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorDetail{Detail: "Error to process JSON"})
		return
	}
	defer r.Body.Close()

	if err := ah.Persona.Save(update.Data); err != nil {
		ah.Logger.Error(fmt.Sprintf("Failed to update user persona: %v", err))
		writeJSON(w, http.StatusInternalServerError, dto.ErrorDetail{Detail: fmt.Sprintf("Failed to update user persona: %v", err)})
		return
	}

	writeJSON(w, http.StatusOK, dto.UpdateResult{Success: true, Message: "User persona updated successfully"})
}

// EndChat exports the persona to the workbook, clears the document and
// resets the conversation state.
func (ah *ApiHandlers) EndChat(w http.ResponseWriter, r *http.Request) {
	doc, err := ah.Persona.Load()
	if err != nil {
		writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "error", Message: err.Error()})
		return
	}

	if err := ah.Excel.AppendRow(repository.Flatten(doc)); err != nil {
		ah.Logger.Error(fmt.Sprintf("Failed to export session to Excel: %v", err))
		writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "error", Message: err.Error()})
		return
	}

	if err := ah.Persona.Clear(); err != nil {
		writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "error", Message: err.Error()})
		return
	}
	ah.Session.Reset()

	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "success", Message: "Chat ended and data saved to Excel"})
}

// GetPDF renders the form document (`action=show`) or emails the last
// rendered one (`action=send`).
func (ah *ApiHandlers) GetPDF(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")
	switch action {
	case "show":
		path, err := ah.PDF.Render(ah.Session.FormSnapshot())
		if err != nil {
			ah.Logger.Error(fmt.Sprintf("Failed to render PDF: %v", err))
			writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "error", Message: fmt.Sprintf("Failed to process PDF: %v", err)})
			return
		}

		data, err := os.ReadFile(path)
		if err != nil {
			writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "error", Message: fmt.Sprintf("Failed to process PDF: %v", err)})
			return
		}

		writeJSON(w, http.StatusOK, dto.PDFResponse{
			Status:      "success",
			PDFData:     base64.StdEncoding.EncodeToString(data),
			PDFFilename: "filled_form.pdf",
		})

	case "send":
		if !ah.PDF.Exists() {
			writeJSON(w, http.StatusOK, dto.StatusResponse{
				Status:  "error",
				Message: "No PDF has been generated yet. Please view the PDF first.",
			})
			return
		}

		if err := ah.Mailer.SendPDF(ah.PDF.OutputPath); err != nil {
			ah.Logger.Error(fmt.Sprintf("Error sending email: %v", err))
			writeJSON(w, http.StatusOK, dto.EmailResult{
				Status:    "error",
				Message:   fmt.Sprintf("Failed to send email: %v", err),
				EmailSent: false,
			})
			return
		}

		writeJSON(w, http.StatusOK, dto.EmailResult{
			Status:    "success",
			Message:   "PDF sent via email",
			EmailSent: true,
		})

	default:
		writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "error"})
	}
}

// Recommend asks for localized services based on the persona document.
// Validation and lookup failures come back as an error payload rather than
// an HTTP error, which the frontend renders inline.
func (ah *ApiHandlers) Recommend(w http.ResponseWriter, r *http.Request) {
	text, err := ah.Recommendation.Recommend(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPersonaIncomplete):
			writeJSON(w, http.StatusOK, map[string]string{
				"error": "Please make sure you have given location access to maya and provided basic details like name and the languages you speak",
			})
		case errors.Is(err, services.ErrLocationLookup):
			writeJSON(w, http.StatusOK, map[string]string{"error": "Could not retrieve location data"})
		default:
			ah.Logger.Error(fmt.Sprintf("Recommendation failed: %v", err))
			writeJSON(w, http.StatusInternalServerError, dto.ErrorDetail{Detail: fmt.Sprintf("An error occurred: %v", err)})
		}
		return
	}

	writeJSON(w, http.StatusOK, text)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
