package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordrank/internal/utils"
	"github.com/bastiangx/wordrank/pkg/config"
	"github.com/bastiangx/wordrank/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC for word completions
type Server struct {
	completer suggest.Autocompletor
	config    config.ServerConfig
	decoder   *msgpack.Decoder
	writer    *bufio.Writer
	encoder   *msgpack.Encoder
	requests  int
}

// NewServer creates a completion server reading requests from r and
// writing replies to w.
func NewServer(completer suggest.Autocompletor, cfg config.ServerConfig, r io.Reader, w io.Writer) *Server {
	bw := bufio.NewWriter(w)
	return &Server{
		completer: completer,
		config:    cfg,
		decoder:   msgpack.NewDecoder(bufio.NewReader(r)),
		writer:    bw,
		encoder:   msgpack.NewEncoder(bw),
	}
}

// Start announces readiness and serves requests until the input ends or
// ctx is cancelled. A clean end of input returns nil.
func (s *Server) Start(ctx context.Context) error {
	log.Debug("Starting Server.")

	if err := s.send(StatusResponse{Status: "ready"}); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			log.Debugf("Server stopping after %d requests: %v", s.requests, err)
			return nil
		}

		raw, err := s.decoder.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Debugf("Input closed after %d requests", s.requests)
				return nil
			}
			log.Errorf("Reading request: %v", err)
			return err
		}
		s.requests++

		if err := s.handleRequest(raw); err != nil {
			return err
		}
	}
}

// handleRequest decodes one message and dispatches it by action. Only
// write failures are returned.
func (s *Server) handleRequest(raw msgpack.RawMessage) error {
	var req Request
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		log.Errorf("Unmarshaling request: %v", err)
		return s.sendError("", "invalid msgpack request", CodeBadRequest)
	}

	switch req.Action {
	case "", ActionComplete:
		return s.handleComplete(req)
	case ActionTop:
		return s.handleTop(req)
	case ActionWeight:
		return s.handleWeight(req)
	case ActionHealth:
		return s.send(StatusResponse{ID: req.ID, Status: "ok"})
	default:
		return s.sendError(req.ID, fmt.Sprintf("unknown action: %s", req.Action), CodeBadRequest)
	}
}

// checkPrefix bounds the prefix length in characters.
func (s *Server) checkPrefix(prefix string) error {
	n := utf8.RuneCountInString(prefix)
	if n < s.config.MinPrefix {
		return fmt.Errorf("prefix must be at least %d characters", s.config.MinPrefix)
	}
	if n > s.config.MaxPrefix {
		return fmt.Errorf("prefix exceeds maximum length of %d characters", s.config.MaxPrefix)
	}
	return nil
}

// limit applies the default to a missing limit and caps it at MaxLimit.
func (s *Server) limit(requested int) int {
	if requested < 1 {
		requested = s.config.DefaultLimit
	}
	return min(requested, s.config.MaxLimit)
}

func (s *Server) handleComplete(req Request) error {
	if err := s.checkPrefix(req.Prefix); err != nil {
		log.Debugf("Rejecting prefix %q: %v", req.Prefix, err)
		return s.sendError(req.ID, err.Error(), CodeBadRequest)
	}
	limit := s.limit(req.Limit)

	start := time.Now()
	words, err := s.completer.TopMatches(req.Prefix, limit)
	if err != nil {
		log.Errorf("Completing %q: %v", req.Prefix, err)
		return s.sendError(req.ID, err.Error(), CodeInternal)
	}
	suggestions := make([]CompletionSuggestion, len(words))
	ranks := utils.CreateRankList(len(words))
	for i, w := range words {
		suggestions[i] = CompletionSuggestion{
			Word:   w,
			Rank:   ranks[i],
			Weight: s.completer.WeightOf(w),
		}
	}
	elapsed := time.Since(start)

	return s.send(CompletionResponse{
		ID:          req.ID,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) handleTop(req Request) error {
	if err := s.checkPrefix(req.Prefix); err != nil {
		log.Debugf("Rejecting prefix %q: %v", req.Prefix, err)
		return s.sendError(req.ID, err.Error(), CodeBadRequest)
	}

	start := time.Now()
	word := s.completer.TopMatch(req.Prefix)
	var weight float64
	if word != "" {
		weight = s.completer.WeightOf(word)
	}
	return s.send(TermResponse{
		ID:        req.ID,
		Word:      word,
		Weight:    weight,
		TimeTaken: time.Since(start).Microseconds(),
	})
}

func (s *Server) handleWeight(req Request) error {
	start := time.Now()
	weight := s.completer.WeightOf(req.Word)
	return s.send(TermResponse{
		ID:        req.ID,
		Word:      req.Word,
		Weight:    weight,
		TimeTaken: time.Since(start).Microseconds(),
	})
}

// send encodes one reply and flushes it so clients see it immediately.
func (s *Server) send(response any) error {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
		return err
	}
	return s.writer.Flush()
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) error {
	return s.send(CompletionError{
		ID:    id,
		Error: message,
		Code:  code,
	})
}
