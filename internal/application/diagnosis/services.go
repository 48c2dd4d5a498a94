package diagnosis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bryanwahyu/symptom-assist/internal/application"
	"github.com/bryanwahyu/symptom-assist/internal/domain/ai"
	domain "github.com/bryanwahyu/symptom-assist/internal/domain/analysis"
	"github.com/bryanwahyu/symptom-assist/internal/infra/ai/prompt"
)

// Service implements the diagnose, chat and listing use cases.
// It keeps no per-request state and is safe for concurrent use.
type Service struct {
	AI      ai.Client
	Repo    domain.Repository
	Archive domain.Archive // optional
	Clock   application.Clock
	Model   string
	Logger  *slog.Logger
}

// Diagnose asks the model about symptoms and stores exactly one record for a
// successful call. A missing structured block only leaves Confidence nil.
func (s *Service) Diagnose(ctx context.Context, symptoms string) (*domain.Analysis, error) {
	symptoms, err := domain.RequireText("symptoms", symptoms)
	if err != nil {
		return nil, err
	}

	text, err := s.AI.Generate(ctx, s.Model, prompt.Diagnosis(symptoms))
	if err != nil {
		return nil, fmt.Errorf("diagnose: %w", err)
	}

	conf, cerr := domain.ExtractConfidence(text)
	if cerr != nil {
		s.logger().DebugContext(ctx, "no confidence block in model output", "error", cerr)
	}

	a := &domain.Analysis{
		CreatedAt:  s.now(),
		Symptoms:   symptoms,
		ResultMD:   text,
		Confidence: conf,
	}
	if err := s.Repo.Save(ctx, a); err != nil {
		return nil, fmt.Errorf("save analysis: %w", err)
	}

	s.archive(ctx, a)
	return a, nil
}

// Chat continues a caller-held conversation. Nothing is persisted.
func (s *Service) Chat(ctx context.Context, message string, history []ai.Turn) (string, error) {
	message, err := domain.RequireText("message", message)
	if err != nil {
		return "", err
	}

	text, err := s.AI.Generate(ctx, s.Model, prompt.Chat(history, message))
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// Recent returns the newest records, at most domain.MaxRecent of them.
func (s *Service) Recent(ctx context.Context, limit int) ([]*domain.Analysis, error) {
	if limit <= 0 || limit > domain.MaxRecent {
		limit = domain.MaxRecent
	}
	list, err := s.Repo.Latest(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// Models lists the provider's model ids.
func (s *Service) Models(ctx context.Context) ([]string, error) {
	return s.AI.ListModels(ctx)
}

// archive copies the markdown result to the archive. Failures are only logged.
func (s *Service) archive(ctx context.Context, a *domain.Analysis) {
	if s.Archive == nil {
		return
	}
	key := ArchiveKey(a)
	url, err := s.Archive.Put(ctx, key, []byte(a.ResultMD), "text/markdown; charset=utf-8")
	if err != nil {
		s.logger().WarnContext(ctx, "archive analysis failed", "id", a.ID, "key", key, "error", err)
		return
	}
	s.logger().DebugContext(ctx, "analysis archived", "id", a.ID, "url", url)
}

// ArchiveKey is the object key for a record: analyses/YYYY/MM/DD/<id>.md.
func ArchiveKey(a *domain.Analysis) string {
	return fmt.Sprintf("analyses/%s/%d.md", a.CreatedAt.UTC().Format("2006/01/02"), a.ID)
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return application.SystemClock{}.Now()
	}
	return s.Clock.Now()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
