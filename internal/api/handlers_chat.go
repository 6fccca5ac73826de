package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/docchat/internal/llm"
	"github.com/dgallion1/docchat/internal/persona"
)

type analyzeRequest struct {
	Text     string `json:"text"`
	FileName string `json:"fileName"`
}

// handleAnalyzeText asks the model for the initial first-person summary of
// an extracted document. A failed completion degrades to a canned response:
// the document should always appear to answer, and the real error goes to
// the log.
func (s *Server) handleAnalyzeText(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.Text == "" {
		jsonError(w, "No text provided for analysis", http.StatusBadRequest)
		return
	}

	fileName := req.FileName
	if fileName == "" {
		fileName = "Document"
	}

	messages := persona.BuildSummaryPrompt(req.Text, fileName, s.cfg.SummaryCharLimit)
	analysis, err := s.completer.Complete(r.Context(), llm.CompletionRequest{
		Messages:  messages,
		MaxTokens: s.cfg.MaxCompletionTokens,
	})
	if errors.Is(err, llm.ErrMissingAPIKey) {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err != nil {
		s.log.Error("summary completion failed", "fileName", fileName, "error", err)
		analysis = persona.FallbackSummary
	} else if analysis == "" {
		analysis = "Unable to analyze the text."
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"analysis": analysis,
		"fileName": fileName,
	})
}

type chatRequest struct {
	Text        string         `json:"text"`
	Question    string         `json:"question"`
	ChatHistory []persona.Turn `json:"chatHistory"`
}

// handleChatWithPDF answers one chat turn. The caller round-trips the
// document text and full history every call; nothing is stored server-side.
func (s *Server) handleChatWithPDF(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.Text == "" {
		jsonError(w, "No document text provided", http.StatusBadRequest)
		return
	}
	if req.Question == "" {
		jsonError(w, "No question provided", http.StatusBadRequest)
		return
	}

	messages := persona.BuildChatPrompt(req.Text, req.Question, req.ChatHistory, s.cfg.ChatCharLimit)
	answer, err := s.completer.Complete(r.Context(), llm.CompletionRequest{
		Messages:    messages,
		MaxTokens:   s.cfg.MaxCompletionTokens,
		Temperature: s.cfg.ChatTemperature,
	})
	if errors.Is(err, llm.ErrMissingAPIKey) {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err != nil {
		s.log.Error("chat completion failed", "error", err)
		answer = persona.FallbackAnswer
	} else if answer == "" {
		answer = "I'm sorry, I couldn't process your question."
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"answer": answer})
}

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		jsonError(w, "llm stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"model": s.completer.Model(),
		"stats": s.stats.Snapshot(),
	})
}
