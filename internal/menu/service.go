package menu

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"menulens/internal/llm"
	"menulens/internal/schema"
)

// Archive stores the raw uploaded file in object storage. Optional —
// the service runs without one.
type Archive interface {
	Upload(ctx context.Context, key string, body io.Reader) (string, error)
}

// StoreError marks failures after a menu was already validated —
// extraction succeeded but storage did not, which callers must surface
// distinctly from extraction errors.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string {
	return "storing menu failed: " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

type Service struct {
	repo    Repository
	llm     llm.Client
	archive Archive
	logger  *zap.SugaredLogger
}

func NewService(
	repo Repository,
	llmClient llm.Client,
	archive Archive,
	logger *zap.SugaredLogger,
) *Service {
	return &Service{
		repo:    repo,
		llm:     llmClient,
		archive: archive,
		logger:  logger,
	}
}

// --------------------------------------------------
// EXTRACT AND STORE (UPLOAD FLOW)
// --------------------------------------------------
func (s *Service) ExtractAndStore(
	ctx context.Context,
	filename string,
	text string,
) (int, *schema.Menu, error) {

	m, _, err := s.llm.Extract(ctx, text)
	if err != nil {
		return 0, nil, err
	}

	s.archiveUpload(ctx, filename, text)

	if err := s.repo.EnsureSchema(ctx); err != nil {
		return 0, nil, &StoreError{Err: err}
	}

	id, err := s.repo.Insert(ctx, m)
	if err != nil {
		return 0, nil, &StoreError{Err: err}
	}

	return id, m, nil
}

// archiveUpload keeps a copy of the raw upload when object storage is
// configured. Best effort only — never fails the request.
func (s *Service) archiveUpload(ctx context.Context, filename, text string) {
	if s.archive == nil {
		return
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".txt"
	}

	key := fmt.Sprintf("uploads/%s%s", uuid.New().String(), ext)

	if _, err := s.archive.Upload(ctx, key, strings.NewReader(text)); err != nil {
		s.logger.Warnw("failed to archive upload", "key", key, "error", err)
	}
}

// --------------------------------------------------
// LIST RECENT MENUS
// --------------------------------------------------
func (s *Service) List(ctx context.Context, limit int) ([]Summary, error) {
	if err := s.repo.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, limit)
}

// --------------------------------------------------
// GET SINGLE MENU
// --------------------------------------------------
func (s *Service) Get(ctx context.Context, id int) (*StoredMenu, error) {
	if err := s.repo.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}
