package diagnosis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/symptom-assist/internal/domain/ai"
	domain "github.com/bryanwahyu/symptom-assist/internal/domain/analysis"
)

type fakeAI struct {
	reply      string
	err        error
	models     []string
	prompts    []string
	usedModels []string
}

func (f *fakeAI) Generate(_ context.Context, model, p string) (string, error) {
	f.prompts = append(f.prompts, p)
	f.usedModels = append(f.usedModels, model)
	return f.reply, f.err
}

func (f *fakeAI) ListModels(context.Context) ([]string, error) {
	return f.models, f.err
}

type memRepo struct {
	saved []*domain.Analysis
	err   error
}

func (r *memRepo) Save(_ context.Context, a *domain.Analysis) error {
	if r.err != nil {
		return r.err
	}
	a.ID = domain.AnalysisID(len(r.saved) + 1)
	r.saved = append(r.saved, a)
	return nil
}

func (r *memRepo) Latest(_ context.Context, limit int) ([]*domain.Analysis, error) {
	out := []*domain.Analysis{}
	for i := len(r.saved) - 1; i >= 0; i-- {
		out = append(out, r.saved[i])
	}
	return out, r.err
}

type fakeArchive struct {
	keys []string
	err  error
}

func (f *fakeArchive) Put(_ context.Context, key string, _ []byte, _ string) (string, error) {
	f.keys = append(f.keys, key)
	return "mem://" + key, f.err
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var at = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

func newService(client *fakeAI, repo *memRepo) *Service {
	return &Service{AI: client, Repo: repo, Clock: fixedClock{at}, Model: "gemini-2.5-flash"}
}

func TestDiagnose_PersistsOneRecord(t *testing.T) {
	reply := "**Flu**\nFever.\n```json\n{\"items\":[{\"name\":\"Flu\",\"prob\":0.8}]}\n```\n"
	client := &fakeAI{reply: reply}
	repo := &memRepo{}

	a, err := newService(client, repo).Diagnose(context.Background(), "  fever and chills \n")
	require.NoError(t, err)

	require.Len(t, repo.saved, 1)
	assert.Same(t, repo.saved[0], a)
	assert.Equal(t, domain.AnalysisID(1), a.ID)
	assert.Equal(t, "fever and chills", a.Symptoms)
	assert.Equal(t, reply, a.ResultMD)
	assert.Equal(t, at, a.CreatedAt)
	assert.Equal(t, []domain.ConfidenceItem{{Name: "Flu", Prob: 0.8}}, a.Confidence.Items())

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "\"\"\"\nfever and chills\n\"\"\"")
	assert.Equal(t, []string{"gemini-2.5-flash"}, client.usedModels)
}

func TestDiagnose_NoBlockStillSaves(t *testing.T) {
	repo := &memRepo{}
	a, err := newService(&fakeAI{reply: "just text ```json {broken ``` "}, repo).Diagnose(context.Background(), "cough")
	require.NoError(t, err)
	assert.Nil(t, a.Confidence)
	assert.Len(t, repo.saved, 1)
}

func TestDiagnose_BlankIsValidationError(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t"} {
		client := &fakeAI{reply: "x"}
		repo := &memRepo{}

		_, err := newService(client, repo).Diagnose(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Empty(t, client.prompts)
		assert.Empty(t, repo.saved)
	}
}

func TestDiagnose_ProviderError(t *testing.T) {
	client := &fakeAI{err: &ai.ProviderError{Op: "generate", Err: ai.ErrQuotaExceeded}}
	repo := &memRepo{}

	_, err := newService(client, repo).Diagnose(context.Background(), "fever")
	assert.True(t, ai.IsProviderError(err))
	assert.ErrorIs(t, err, ai.ErrQuotaExceeded)
	assert.Empty(t, repo.saved)
}

func TestDiagnose_SaveError(t *testing.T) {
	repo := &memRepo{err: errors.New("disk full")}

	_, err := newService(&fakeAI{reply: "x"}, repo).Diagnose(context.Background(), "fever")
	require.Error(t, err)
	assert.Equal(t, "save analysis: disk full", err.Error())
	assert.False(t, ai.IsProviderError(err))
}

func TestDiagnose_Archive(t *testing.T) {
	arch := &fakeArchive{}
	svc := newService(&fakeAI{reply: "**Cold**"}, &memRepo{})
	svc.Archive = arch

	a, err := svc.Diagnose(context.Background(), "sneezing")
	require.NoError(t, err)
	assert.Equal(t, []string{"analyses/2026/10/14/1.md"}, arch.keys)
	assert.Equal(t, "analyses/2026/10/14/1.md", ArchiveKey(a))
}

func TestDiagnose_ArchiveFailureIgnored(t *testing.T) {
	svc := newService(&fakeAI{reply: "**Cold**"}, &memRepo{})
	svc.Archive = &fakeArchive{err: errors.New("bucket gone")}

	a, err := svc.Diagnose(context.Background(), "sneezing")
	require.NoError(t, err)
	assert.Equal(t, domain.AnalysisID(1), a.ID)
}

func TestChat(t *testing.T) {
	client := &fakeAI{reply: "\n  Please see a doctor.  \n"}
	repo := &memRepo{}
	history := []ai.Turn{
		{Role: ai.RoleUser, Content: "I have a fever"},
		{Role: "assistant", Content: "How long?"},
	}

	reply, err := newService(client, repo).Chat(context.Background(), " Two days ", history)
	require.NoError(t, err)
	assert.Equal(t, "Please see a doctor.", reply)
	assert.Empty(t, repo.saved)

	require.Len(t, client.prompts, 1)
	p := client.prompts[0]
	lines := []string{"Patient: I have a fever", "Assistant: How long?", "Patient: Two days", "Assistant:"}
	last := 0
	for _, l := range lines {
		i := strings.Index(p[last:], l)
		require.GreaterOrEqual(t, i, 0, l)
		last += i + len(l)
	}
	assert.Equal(t, len(p), last)
}

func TestChat_BlankMessage(t *testing.T) {
	client := &fakeAI{reply: "x"}

	_, err := newService(client, &memRepo{}).Chat(context.Background(), "  ", nil)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "message", ve.Field)
	assert.Empty(t, client.prompts)
}

func TestChat_ProviderError(t *testing.T) {
	client := &fakeAI{err: &ai.ProviderError{Op: "generate", Err: errors.New("connection reset")}}

	_, err := newService(client, &memRepo{}).Chat(context.Background(), "hi", nil)
	assert.True(t, ai.IsProviderError(err))
	assert.Contains(t, err.Error(), "connection reset")
}

func TestRecent_CapsLimit(t *testing.T) {
	repo := &memRepo{}
	for i := 0; i < 30; i++ {
		_ = repo.Save(context.Background(), &domain.Analysis{})
	}
	svc := newService(&fakeAI{}, repo)

	list, err := svc.Recent(context.Background(), 100)
	require.NoError(t, err)
	assert.Len(t, list, domain.MaxRecent)
	assert.Equal(t, domain.AnalysisID(30), list[0].ID)

	list, err = svc.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, list, 5)
}

func TestModels(t *testing.T) {
	svc := newService(&fakeAI{models: []string{"models/a", "models/b"}}, &memRepo{})

	ids, err := svc.Models(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"models/a", "models/b"}, ids)
}
