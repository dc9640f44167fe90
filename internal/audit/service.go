package audit

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ebaazee/payment-service/kit/broker"
	"github.com/ebaazee/payment-service/kit/observability"
)

// Service keeps an append-only local record of every published event, so the
// ledger's state transitions stay auditable even if the broker loses a
// message. Recording is best-effort and never blocks the operation.
type Service struct {
	logger *observability.Logger
	fileMu sync.Mutex
	f      *os.File
}

func NewService(logger *observability.Logger) *Service {
	return &Service{logger: logger}
}

func NewServiceWithFile(logger *observability.Logger, path string) (*Service, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		if logger != nil {
			logger.Error("audit error", "method", "NewServiceWithFile", "path", path, "error", err.Error())
		}
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		if logger != nil {
			logger.Error("audit error", "method", "NewServiceWithFile", "path", path, "error", err.Error())
		}
		return nil, err
	}
	return &Service{logger: logger, f: f}, nil
}

func (s *Service) Close() error {
	s.fileMu.Lock()
	defer s.fileMu.Unlock()
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	if err != nil && s.logger != nil {
		s.logger.Error("audit error", "method", "Close", "error", err.Error())
	}
	s.f = nil
	return err
}

func (s *Service) Record(ctx context.Context, evt broker.Event) {
	payload, err := json.Marshal(evt)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("audit error", "method", "Record", "event", evt.Name(), "error", err.Error())
		}
		return
	}
	if s.logger != nil {
		s.logger.Info("audit", "event", evt.Name(), "payload", string(payload))
	}

	s.fileMu.Lock()
	defer s.fileMu.Unlock()
	if s.f == nil {
		return
	}
	line := map[string]any{
		"at":      time.Now().UTC(),
		"event":   evt.Name(),
		"payload": json.RawMessage(payload),
	}
	b, err := json.Marshal(line)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("audit error", "method", "Record", "event", evt.Name(), "error", err.Error())
		}
		return
	}
	if _, err := s.f.Write(append(b, '\n')); err != nil && s.logger != nil {
		s.logger.Error("audit error", "method", "Record", "event", evt.Name(), "error", err.Error())
	}
}
