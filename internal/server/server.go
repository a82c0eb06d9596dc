package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/company-intel/internal/llm"
	"github.com/jonathan/company-intel/internal/pipeline"
)

// Server hosts the enrichment API.
type Server struct {
	httpServer *http.Server
	enricher   *pipeline.Enricher
	llmClient  llm.Client
	validate   *validator.Validate
}

// Config holds server configuration.
type Config struct {
	Port   int
	APIKey string
	Model  string
}

// New creates a server instance backed by the Gemini generation client and
// in-memory rate limiting and caching.
func New(ctx context.Context, cfg Config) (*Server, error) {
	llmClient, err := llm.NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation client: %w", err)
	}

	s := &Server{
		enricher:  pipeline.NewDefault(llmClient),
		llmClient: llmClient,
		validate:  validator.New(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/enrich", s.handleEnrich)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     s.withLogging(mux),
		ReadTimeout: 10 * time.Second,
		// Worst case: 4 page fetches at 5s each plus a retried model call.
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if err := s.llmClient.Close(); err != nil {
		log.Printf("Error closing generation client: %v", err)
	}

	log.Println("Server stopped")
	return nil
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}
