package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"feedback-bot/internal/domain"
	"feedback-bot/internal/repository"
)

type mockFeedbackRepo struct {
	inserted  []domain.FeedbackRecord
	records   []domain.FeedbackRecord
	insertErr error
	listErr   error
	listCalls int
}

func (m *mockFeedbackRepo) Insert(_ context.Context, record domain.FeedbackRecord) (int64, error) {
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	record.ID = int64(len(m.inserted) + 1)
	m.inserted = append(m.inserted, record)
	return record.ID, nil
}

func (m *mockFeedbackRepo) ListAll(_ context.Context) ([]domain.FeedbackRecord, error) {
	m.listCalls++
	return m.records, m.listErr
}

func (m *mockFeedbackRepo) ListByFraud(_ context.Context, isFraud bool) ([]domain.FeedbackRecord, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domain.FeedbackRecord
	for _, rec := range m.records {
		if rec.IsFraud == isFraud {
			out = append(out, rec)
		}
	}
	return out, nil
}

func newTestFeedbackService(repo repository.FeedbackRepository, polarity float64) *FeedbackService {
	return NewFeedbackService(zap.NewNop(), repo, NewSentimentClassifier(&fixedScorer{polarity: polarity}), nil)
}

func TestFeedbackServiceSubmitRequiresNPS(t *testing.T) {
	repo := &mockFeedbackRepo{}
	svc := newTestFeedbackService(repo, 0.5)

	_, err := svc.Submit(context.Background(), SubmitInput{Comment: strPtr("great experience overall")})
	if !errors.Is(err, ErrNPSRequired) {
		t.Fatalf("expected ErrNPSRequired, got %v", err)
	}
	if len(repo.inserted) != 0 {
		t.Fatalf("expected no insert on validation failure, got %d", len(repo.inserted))
	}
}

func TestFeedbackServiceSubmitHappyPath(t *testing.T) {
	repo := &mockFeedbackRepo{}
	svc := newTestFeedbackService(repo, 0.6)

	res, err := svc.Submit(context.Background(), SubmitInput{
		NPS:     intPtr(9),
		CSAT:    intPtr(5),
		CES:     intPtr(2),
		Comment: strPtr("the onboarding flow was smooth"),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.ID != 1 || res.Sentiment != domain.SentimentPositive || res.IsFraud {
		t.Fatalf("unexpected result: %+v", res)
	}

	if len(repo.inserted) != 1 {
		t.Fatalf("expected one insert, got %d", len(repo.inserted))
	}
	rec := repo.inserted[0]
	if rec.NPS != 9 || rec.CSAT == nil || *rec.CSAT != 5 {
		t.Fatalf("unexpected stored nps/csat: %+v", rec)
	}
	if rec.CES != nil {
		t.Fatalf("expected ces scaled down for promoter, got %v", *rec.CES)
	}
	if rec.Sentiment != domain.SentimentPositive || rec.IsFraud {
		t.Fatalf("expected derived fields to be stored, got %+v", rec)
	}
	if rec.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be set")
	}
}

func TestFeedbackServiceSubmitMissingCommentDefaultsEmpty(t *testing.T) {
	repo := &mockFeedbackRepo{}
	svc := newTestFeedbackService(repo, 0.9)

	res, err := svc.Submit(context.Background(), SubmitInput{NPS: intPtr(3), CSAT: intPtr(2)})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.Sentiment != domain.SentimentNeutral {
		t.Fatalf("expected Neutral for absent comment, got %s", res.Sentiment)
	}
	if !res.IsFraud {
		t.Fatalf("expected empty comment to be flagged as fraud")
	}
	rec := repo.inserted[0]
	if rec.Comment != "" || rec.CSAT != nil {
		t.Fatalf("expected empty comment and csat scaled down, got %+v", rec)
	}
}

func TestFeedbackServiceSubmitStoreError(t *testing.T) {
	repo := &mockFeedbackRepo{insertErr: errors.New("disk full")}
	svc := newTestFeedbackService(repo, 0)

	_, err := svc.Submit(context.Background(), SubmitInput{NPS: intPtr(7), Comment: strPtr("works as expected")})
	if err == nil {
		t.Fatalf("expected error from store")
	}
	if errors.Is(err, ErrNPSRequired) {
		t.Fatalf("did not expect validation error, got %v", err)
	}
}

func TestFeedbackServiceWithMemoryStore(t *testing.T) {
	repo := repository.NewMemoryFeedbackRepository()
	svc := newTestFeedbackService(repo, -0.5)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, SubmitInput{Comment: strPtr("no score here")}); err == nil {
		t.Fatalf("expected validation error")
	}
	if repo.Len() != 0 {
		t.Fatalf("expected store untouched after failed submit, got %d", repo.Len())
	}

	if _, err := svc.Submit(ctx, SubmitInput{NPS: intPtr(2), Comment: strPtr("checkout kept failing on mobile")}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.Submit(ctx, SubmitInput{NPS: intPtr(10), Comment: strPtr("test")}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	all, err := svc.ListAll(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if all.Count != 2 || all.Records[0].ID != 1 || all.Records[1].ID != 2 {
		t.Fatalf("unexpected listing: %+v", all)
	}

	fraud, err := svc.ListFraud(ctx)
	if err != nil {
		t.Fatalf("list fraud: %v", err)
	}
	if fraud.Count != 1 || fraud.Records[0].Comment != "test" || !fraud.Records[0].IsFraud {
		t.Fatalf("unexpected fraud listing: %+v", fraud)
	}
}

func TestFeedbackServiceListErrors(t *testing.T) {
	repo := &mockFeedbackRepo{listErr: errors.New("connection reset")}
	svc := newTestFeedbackService(repo, 0)

	if _, err := svc.ListAll(context.Background()); err == nil {
		t.Fatalf("expected list all error")
	}
	if _, err := svc.ListFraud(context.Background()); err == nil {
		t.Fatalf("expected list fraud error")
	}
}

func TestFeedbackServiceSubmitRateLimited(t *testing.T) {
	repo := &mockFeedbackRepo{}
	limiter := NewSubmissionRateLimiter(time.Minute, 1)
	svc := NewFeedbackService(zap.NewNop(), repo, NewSentimentClassifier(&fixedScorer{}), limiter)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, SubmitInput{NPS: intPtr(8), Comment: strPtr("solid product and support"), ClientKey: "10.0.0.1"}); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	_, err := svc.Submit(ctx, SubmitInput{NPS: intPtr(8), Comment: strPtr("solid product and support"), ClientKey: "10.0.0.1"})
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if _, err := svc.Submit(ctx, SubmitInput{NPS: intPtr(8), Comment: strPtr("solid product and support"), ClientKey: "10.0.0.2"}); err != nil {
		t.Fatalf("other client should pass: %v", err)
	}
	if len(repo.inserted) != 2 {
		t.Fatalf("expected 2 inserts, got %d", len(repo.inserted))
	}
}

func TestClientFingerprintIsStableAndOpaque(t *testing.T) {
	a := clientFingerprint("203.0.113.7")
	if a != clientFingerprint("203.0.113.7") {
		t.Fatalf("expected stable fingerprint")
	}
	if a == clientFingerprint("203.0.113.8") {
		t.Fatalf("expected distinct fingerprints per client")
	}
	if len(a) != 24 || strings.Contains(a, "203.0.113") {
		t.Fatalf("unexpected fingerprint %q", a)
	}
}

func TestFeedbackServiceMissingNPSDoesNotConsumeRateLimit(t *testing.T) {
	repo := &mockFeedbackRepo{}
	limiter := NewSubmissionRateLimiter(time.Minute, 1)
	svc := NewFeedbackService(zap.NewNop(), repo, NewSentimentClassifier(&fixedScorer{}), limiter)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.Submit(ctx, SubmitInput{Comment: strPtr("forgot the score field"), ClientKey: "10.0.0.9"})
		if !errors.Is(err, ErrNPSRequired) {
			t.Fatalf("attempt %d: expected ErrNPSRequired, got %v", i+1, err)
		}
	}

	if _, err := svc.Submit(ctx, SubmitInput{NPS: intPtr(8), Comment: strPtr("solid product and support"), ClientKey: "10.0.0.9"}); err != nil {
		t.Fatalf("valid submit after rejected ones: %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(repo.inserted))
	}
}

func TestFeedbackServiceAcceptsOutOfRangeNPS(t *testing.T) {
	repo := &mockFeedbackRepo{}
	svc := newTestFeedbackService(repo, 0)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, SubmitInput{NPS: intPtr(11), CSAT: intPtr(5), CES: intPtr(3), Comment: strPtr("went beyond the scale here")}); err != nil {
		t.Fatalf("submit nps 11: %v", err)
	}
	if _, err := svc.Submit(ctx, SubmitInput{NPS: intPtr(-1), CSAT: intPtr(1), CES: intPtr(6), Comment: strPtr("below the scale entirely")}); err != nil {
		t.Fatalf("submit nps -1: %v", err)
	}
	if len(repo.inserted) != 2 {
		t.Fatalf("expected both records stored, got %d", len(repo.inserted))
	}

	high, low := repo.inserted[0], repo.inserted[1]
	if high.NPS != 11 || high.CES != nil || high.CSAT == nil {
		t.Fatalf("expected nps 11 stored with ces dropped, got %+v", high)
	}
	if low.NPS != -1 || low.CSAT != nil || low.CES == nil {
		t.Fatalf("expected nps -1 stored with csat dropped, got %+v", low)
	}

	summary, err := ComputeNPSSummary(repo.inserted)
	if err != nil {
		t.Fatalf("nps summary: %v", err)
	}
	if summary.Promoters != 1 || summary.Detractors != 1 || summary.Passives != 0 || summary.NPSScore != 0 {
		t.Fatalf("expected 11 bucketed as promoter and -1 as detractor, got %+v", summary)
	}
}
