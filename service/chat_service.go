package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	model "github.com/turman-legal/tls-ediscovery/models"

	"gorm.io/datatypes"
)

// chatSystemPreamble instructs the model to cite sources with the Bates token
// convention the rest of the platform understands.
const chatSystemPreamble = `You are a litigation document-review assistant. Answer questions using only the document excerpts provided in the user message. Every factual claim drawn from a document must cite its source using the token [BATES: <bates number>], where <bates number> is the Bates number heading that excerpt. If the documents do not answer the question, say so.`

// batesCitationPattern pulls [BATES: ...] tokens out of a model reply.
var batesCitationPattern = regexp.MustCompile(`\[BATES:\s*([^\]]+)\]`)

// chatCompletionRequest is the OpenAI-compatible request body.
type chatCompletionRequest struct {
	Messages []chatMessage `json:"messages"`
	Model    string        `json:"model"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ExtractBatesCitations returns the distinct Bates tokens in reply, in order
// of first appearance.
func ExtractBatesCitations(reply string) []string {
	matches := batesCitationPattern.FindAllStringSubmatch(reply, -1)
	seen := make(map[string]bool, len(matches))
	citations := make([]string, 0, len(matches))
	for _, m := range matches {
		token := strings.TrimSpace(m[1])
		if token == "" || seen[token] {
			continue
		}
		seen[token] = true
		citations = append(citations, token)
	}
	return citations
}

// buildChatContext assembles the bounded-size context block from the selected
// documents' extracted text. Documents without extracted text contribute a
// placeholder so the model knows the source exists but is unread.
func (s *DocumentService) buildChatContext(docs []model.Document) string {
	var b strings.Builder
	for _, doc := range docs {
		fmt.Fprintf(&b, "--- Document %s (%s, %d pages) ---\n", doc.BatesStart, doc.Filename, doc.PageCount)
		if doc.TextExtracted && doc.ExtractedText != "" {
			b.WriteString(trimToBudget(doc.ExtractedText, s.contextCharBudget))
		} else {
			b.WriteString("[no extracted text available for this document]")
		}
		b.WriteString("\n\n")
	}
	return b.String()
}

// ChatWithDocuments forwards a question plus the selected documents' text to
// the external model, parses citation tokens out of the reply and logs the
// exchange on the matter.
//
// Transient upstream failures (HTTP 503/429) are retried up to 3 attempts
// with doubling delays of 2s, 4s, 8s. Any other failure surfaces immediately.
func (s *DocumentService) ChatWithDocuments(matterID, message string, selectedDocumentIDs []string) (*model.ChatExchange, error) {
	if strings.TrimSpace(message) == "" {
		return nil, newValidationError("message is required")
	}
	if s.chatAPIKey == "" {
		return nil, newUpstreamError("chat API key not configured", nil)
	}
	if _, err := s.GetMatter(matterID); err != nil {
		return nil, err
	}

	var docs []model.Document
	if len(selectedDocumentIDs) > 0 {
		if err := s.db.Where("matter_id = ? AND id IN ?", matterID, selectedDocumentIDs).Find(&docs).Error; err != nil {
			log.Printf("[ChatWithDocuments] document query error: %v", err)
			return nil, fmt.Errorf("failed to fetch selected documents: %w", err)
		}
	}

	userContent := message
	if context := s.buildChatContext(docs); context != "" {
		userContent = fmt.Sprintf("Document excerpts:\n\n%s\nQuestion: %s", context, message)
	}

	reqBody, err := json.Marshal(chatCompletionRequest{
		Model: s.chatModel,
		Messages: []chatMessage{
			{Role: "system", Content: chatSystemPreamble},
			{Role: "user", Content: userContent},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	replyText, err := s.callChatCompletions(reqBody)
	if err != nil {
		return nil, err
	}

	citations := ExtractBatesCitations(replyText)
	citationsJSON, err := json.Marshal(citations)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal citations: %w", err)
	}

	exchange := model.ChatExchange{
		MatterID:     matterID,
		UserMessage:  message,
		ResponseText: replyText,
		Citations:    datatypes.JSON(citationsJSON),
		CreatedAt:    time.Now(),
	}
	if err := s.db.Create(&exchange).Error; err != nil {
		log.Printf("[ChatWithDocuments] failed to log exchange: %v", err)
		return nil, fmt.Errorf("failed to log chat exchange: %w", err)
	}
	log.Printf("[ChatWithDocuments] matter %s: %d citation(s) in reply", matterID, len(citations))

	return &exchange, nil
}

// callChatCompletions posts the request with the bounded retry policy and
// returns the first choice's content.
func (s *DocumentService) callChatCompletions(reqBody []byte) (string, error) {
	const maxAttempts = 3

	var lastStatus int
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			wait := s.retryBaseDelay << (attempt - 1) // 2s, 4s, 8s
			log.Printf("[callChatCompletions] upstream returned %d, retrying in %v (attempt %d/%d)", lastStatus, wait, attempt+1, maxAttempts)
			time.Sleep(wait)
		}

		req, err := http.NewRequest(http.MethodPost, s.chatEndpoint, bytes.NewReader(reqBody))
		if err != nil {
			return "", fmt.Errorf("failed to create chat request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+s.chatAPIKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return "", newUpstreamError("chat request failed", err)
		}

		if resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusTooManyRequests {
			lastStatus = resp.StatusCode
			resp.Body.Close()
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return "", newUpstreamError("failed to read chat response", err)
		}
		if resp.StatusCode != http.StatusOK {
			return "", newUpstreamError(fmt.Sprintf("chat endpoint returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
		}

		var parsed chatCompletionResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return "", newUpstreamError("failed to parse chat response", err)
		}
		if len(parsed.Choices) == 0 {
			return "", newUpstreamError("chat response contained no choices", nil)
		}
		return parsed.Choices[0].Message.Content, nil
	}

	return "", newUpstreamError(fmt.Sprintf("chat endpoint unavailable after %d attempts (last status %d)", maxAttempts, lastStatus), nil)
}
