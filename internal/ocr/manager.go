package ocr

import (
	"context"
	"sync"

	"fjacquet/clarity-ledger/internal/apperror"
	"fjacquet/clarity-ledger/internal/logging"

	"golang.org/x/sync/singleflight"
)

// Manager owns at most one warm worker. Concurrent callers of Get share a
// single initialization. A worker whose recognition fails is discarded so
// the next call starts a fresh one.
type Manager struct {
	factory Factory
	logger  logging.Logger

	mu        sync.Mutex
	languages string
	worker    Recognizer
	group     singleflight.Group
}

// NewManager creates a Manager that starts workers with factory.
func NewManager(factory Factory, languages string, logger logging.Logger) *Manager {
	if languages == "" {
		languages = DefaultLanguages
	}
	return &Manager{
		factory:   factory,
		languages: languages,
		logger:    logging.OrDiscard(logger).WithField(logging.FieldComponent, "OCRManager"),
	}
}

// Languages returns the language set new workers are started with.
func (m *Manager) Languages() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.languages
}

// SetLanguages changes the language set. The warm worker is replaced on the
// next Get if it no longer matches.
func (m *Manager) SetLanguages(languages string) {
	if languages == "" {
		languages = DefaultLanguages
	}
	m.mu.Lock()
	m.languages = languages
	m.mu.Unlock()
}

// Warm reports whether a worker is currently alive.
func (m *Manager) Warm() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.worker != nil
}

// Get returns the warm worker when its languages match, otherwise tears it
// down and starts a new one.
func (m *Manager) Get(ctx context.Context) (Recognizer, error) {
	m.mu.Lock()
	langs := m.languages
	if m.worker != nil && m.worker.Languages() == langs {
		w := m.worker
		m.mu.Unlock()
		return w, nil
	}
	m.mu.Unlock()

	v, err, _ := m.group.Do(langs, func() (interface{}, error) {
		m.mu.Lock()
		if m.worker != nil && m.worker.Languages() == langs {
			w := m.worker
			m.mu.Unlock()
			return w, nil
		}
		old := m.worker
		m.worker = nil
		m.mu.Unlock()

		if old != nil {
			m.closeWorker(old, "Replacing OCR worker")
		}

		m.logger.Info("Starting OCR worker", logging.F(logging.FieldLanguages, langs))
		w, err := m.factory(ctx, langs)
		if err != nil {
			return nil, &apperror.WorkerError{Op: "initialize", Err: err}
		}

		// A flight for another language set may have finished meanwhile.
		m.mu.Lock()
		displaced := m.worker
		m.worker = w
		m.mu.Unlock()
		if displaced != nil && displaced != w {
			m.closeWorker(displaced, "Replacing OCR worker")
		}
		return w, nil
	})
	if err != nil {
		m.logger.WithError(err).Error("OCR worker initialization failed")
		return nil, err
	}
	return v.(Recognizer), nil
}

// Recognize runs imagePath through the warm worker.
func (m *Manager) Recognize(ctx context.Context, imagePath string, progress ProgressFunc) (string, error) {
	w, err := m.Get(ctx)
	if err != nil {
		return "", err
	}
	text, err := w.Recognize(ctx, imagePath, progress)
	if err != nil {
		m.discard(w)
		return "", &apperror.WorkerError{Op: "recognize", Err: err}
	}
	return text, nil
}

// Terminate stops the warm worker, if any.
func (m *Manager) Terminate() error {
	m.mu.Lock()
	w := m.worker
	m.worker = nil
	m.mu.Unlock()
	if w == nil {
		return nil
	}
	if err := w.Close(); err != nil {
		return &apperror.WorkerError{Op: "terminate", Err: err}
	}
	m.logger.Info("OCR worker terminated")
	return nil
}

func (m *Manager) discard(w Recognizer) {
	m.mu.Lock()
	if m.worker != w {
		m.mu.Unlock()
		return
	}
	m.worker = nil
	m.mu.Unlock()
	m.closeWorker(w, "Discarding failed OCR worker")
}

func (m *Manager) closeWorker(w Recognizer, msg string) {
	m.logger.Info(msg, logging.F(logging.FieldLanguages, w.Languages()))
	if err := w.Close(); err != nil {
		m.logger.WithError(err).Warn("Error closing OCR worker")
	}
}
