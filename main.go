package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"maya-backend/internal/config"
	"maya-backend/internal/domain/entities"
	Iservices "maya-backend/internal/domain/interfaces/services"
	"maya-backend/internal/infra/handlers"
	"maya-backend/internal/infra/logger"
	"maya-backend/internal/infra/provider"
	"maya-backend/internal/infra/repository"
	"maya-backend/internal/infra/routes"
	"maya-backend/internal/infra/services"
	"maya-backend/internal/middleware"
	client "maya-backend/internal/pkg"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log := logger.NewLogger(ctx, cfg.LogLevel, true)

	httpClient := client.NewHTTPClient()

	deepgram := provider.NewDeepgramProvider(log, httpClient, cfg.DeepgramAPIKey)
	groq := provider.NewGroqProvider(log, httpClient, cfg.GroqAPIKey)
	openai := provider.NewOpenAIProvider(log, httpClient, cfg.OpenAIAPIKey)
	elevenlabs := provider.NewElevenLabsProvider(log, httpClient, cfg.ElevenLabsAPIKey)
	rhubarb := provider.NewRhubarbExtractor(log, cfg.RhubarbBin)
	geocoder := provider.NewNominatimGeocoder(log, httpClient)

	var mailer Iservices.IMailer = provider.NewSMTPMailer(log, cfg.SMTP)

	personaRepo := repository.NewPersonaFileRepository(cfg.PersonaPath)
	excelExporter := repository.NewExcelExporter(cfg.ExcelPath)
	if err := excelExporter.EnsureWorkbook(); err != nil {
		log.Error(fmt.Sprintf("Failed to prepare Excel workbook: %v", err))
	}

	session := services.NewSession(services.DefaultBinding())

	pipeline := services.NewTurnPipeline(
		log,
		session,
		map[entities.TranscriptionProvider]Iservices.ISpeechToText{
			entities.ProviderDeepgram: deepgram,
			entities.ProviderGroq:     groq,
		},
		openai,
		elevenlabs,
		rhubarb,
		personaRepo,
		cfg.AudioDir,
	)

	pdfRenderer := services.NewPDFRenderer(log, cfg.FormPDFTemplate, cfg.FilledPDFPath)
	recommendation := services.NewRecommendationService(log, openai, geocoder, personaRepo)

	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware(log))

	apiHandlers := handlers.NewApiHandlers(log, pipeline, session, personaRepo, excelExporter, pdfRenderer, mailer, recommendation)

	routes := routes.NewRoutes(router, apiHandlers)
	routes.Init()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler(router)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: corsHandler,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	go func() {
		log.Info(fmt.Sprintf("Server is running on port %s", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(fmt.Sprintf("Error running HTTP server: %s", err))
			os.Exit(1)
		}
	}()

	<-stop
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(fmt.Sprintf("Server forced to shutdown: %v", err))
	} else {
		log.Info("Server stopped gracefully.")
	}
}
