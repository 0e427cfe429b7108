package match_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"scoutbot/internal/embedding"
	embeddingmocks "scoutbot/internal/embedding/mocks"
	"scoutbot/internal/match"
	"scoutbot/internal/storage"
	storagemocks "scoutbot/internal/storage/mocks"

	"go.uber.org/mock/gomock"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// libraryFixture is the candidate pool most tests resolve against. Report 1
// and report 3 cover the same player in different leagues.
func libraryFixture() []*storage.ReportRecord {
	return []*storage.ReportRecord{
		{ID: 1, UserID: "owner-1", PlayerName: "Nikola Jokic", Team: "Denver Nuggets", League: "NBA"},
		{ID: 2, UserID: "owner-2", PlayerName: "Luka Doncic", Team: "Dallas Mavericks", League: "NBA"},
		{ID: 3, UserID: "owner-1", PlayerName: "Nikola Jokic", Team: "Mega Basket", League: "Adriatic"},
	}
}

func TestResolver_Resolve_ExactCanonical(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reports := storagemocks.NewMockReportStore(ctrl)
	reports.EXPECT().
		ListCandidates(gomock.Any(), storage.GlobalScope, storage.GlobalScanLimit).
		Return(libraryFixture(), nil)

	r := match.NewResolver(reports, nil, match.DefaultThresholds())
	// Accented spelling must hit the stored canonical form.
	d, err := r.Resolve(context.Background(), storage.GlobalScope, match.Query{Player: "Nikola Jokić"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if d.Kind != match.Suggest || !d.Exact {
		t.Fatalf("Resolve() = (%s, exact=%v), want exact suggest", d.Kind, d.Exact)
	}
	if d.ReportID != 1 || d.Score != 100 || d.Stage != "exact" {
		t.Errorf("Resolve() = report %d score %d stage %q, want report 1 score 100 stage exact", d.ReportID, d.Score, d.Stage)
	}
	if d.OwnerID != "owner-1" {
		t.Errorf("Resolve() owner = %q, want owner-1", d.OwnerID)
	}
}

func TestResolver_Resolve_ExactNickname(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reports := storagemocks.NewMockReportStore(ctrl)
	reports.EXPECT().
		ListCandidates(gomock.Any(), "user-1", storage.UserScanLimit).
		Return([]*storage.ReportRecord{
			{ID: 7, UserID: "user-1", PlayerName: "Mike Conley", Team: "Minnesota Timberwolves", League: "NBA"},
		}, nil)

	r := match.NewResolver(reports, nil, match.DefaultThresholds())
	d, err := r.Resolve(context.Background(), "user-1", match.Query{Player: "Michael Conley"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if d.Kind != match.Suggest || !d.Exact || d.ReportID != 7 {
		t.Errorf("Resolve() = (%s, exact=%v, report %d), want exact suggest for report 7", d.Kind, d.Exact, d.ReportID)
	}
}

func TestResolver_Resolve_EmbeddingAuto(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reports := storagemocks.NewMockReportStore(ctrl)
	reports.EXPECT().
		ListCandidates(gomock.Any(), storage.GlobalScope, storage.GlobalScanLimit).
		Return(libraryFixture(), nil)

	vec := []float32{0.1, 0.2}
	index := embeddingmocks.NewMockIndex(ctrl)
	index.EXPECT().QueryVector(gomock.Any(), "nicola jokic").Return(vec, nil)
	index.EXPECT().Similar(gomock.Any(), vec).Return([]embedding.Scored{
		{ReportID: 1, Score: 0.97},
		{ReportID: 3, Score: 0.90},
	}, nil)

	r := match.NewResolver(reports, index, match.DefaultThresholds())
	d, err := r.Resolve(context.Background(), storage.GlobalScope, match.Query{Player: "Nicola Jokic"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if d.Kind != match.Auto || d.ReportID != 1 || d.Stage != "embedding" {
		t.Errorf("Resolve() = (%s, report %d, stage %q), want embedding auto for report 1", d.Kind, d.ReportID, d.Stage)
	}
	if d.Score != 97 {
		t.Errorf("Resolve() score = %d, want 97", d.Score)
	}
}

func TestResolver_Resolve_EmbeddingLeagueFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reports := storagemocks.NewMockReportStore(ctrl)
	reports.EXPECT().
		ListCandidates(gomock.Any(), storage.GlobalScope, storage.GlobalScanLimit).
		Return(libraryFixture(), nil)

	vec := []float32{0.1, 0.2}
	index := embeddingmocks.NewMockIndex(ctrl)
	index.EXPECT().QueryVector(gomock.Any(), "nicola jokic").Return(vec, nil)
	index.EXPECT().Similar(gomock.Any(), vec).Return([]embedding.Scored{
		{ReportID: 1, Score: 0.96},
		{ReportID: 3, Score: 0.90},
	}, nil)

	r := match.NewResolver(reports, index, match.DefaultThresholds())
	// The best neighbor is the NBA report; the league hint must push the
	// decision to the Adriatic one.
	d, err := r.Resolve(context.Background(), storage.GlobalScope, match.Query{Player: "Nicola Jokic", League: "Adriatic"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if d.Kind != match.Suggest || d.ReportID != 3 || d.Stage != "embedding" {
		t.Errorf("Resolve() = (%s, report %d, stage %q), want embedding suggest for report 3", d.Kind, d.ReportID, d.Stage)
	}
	if d.Score != 90 {
		t.Errorf("Resolve() score = %d, want 90", d.Score)
	}
}

func TestResolver_Resolve_FuzzyAuto(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reports := storagemocks.NewMockReportStore(ctrl)
	reports.EXPECT().
		ListCandidates(gomock.Any(), storage.GlobalScope, storage.GlobalScanLimit).
		Return(libraryFixture(), nil)

	r := match.NewResolver(reports, nil, match.DefaultThresholds())
	d, err := r.Resolve(context.Background(), storage.GlobalScope, match.Query{Player: "Nicola Jokic"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if d.Kind != match.Auto || d.ReportID != 1 || d.Stage != "fuzzy" {
		t.Errorf("Resolve() = (%s, report %d, stage %q), want fuzzy auto for report 1", d.Kind, d.ReportID, d.Stage)
	}
	if d.Score < 88 {
		t.Errorf("Resolve() score = %d, want >= 88", d.Score)
	}
}

func TestResolver_Resolve_EmbeddingErrorDegradesToFuzzy(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reports := storagemocks.NewMockReportStore(ctrl)
	reports.EXPECT().
		ListCandidates(gomock.Any(), storage.GlobalScope, storage.GlobalScanLimit).
		Return(libraryFixture(), nil)

	index := embeddingmocks.NewMockIndex(ctrl)
	index.EXPECT().
		QueryVector(gomock.Any(), "nicola jokic").
		Return(nil, errors.New("embeddings backend down"))

	r := match.NewResolver(reports, index, match.DefaultThresholds())
	d, err := r.Resolve(context.Background(), storage.GlobalScope, match.Query{Player: "Nicola Jokic"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if d.Kind != match.Auto || d.Stage != "fuzzy" {
		t.Errorf("Resolve() = (%s, stage %q), want fuzzy auto despite embedding failure", d.Kind, d.Stage)
	}
}

func TestResolver_Resolve_SurnameCollisionMisses(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reports := storagemocks.NewMockReportStore(ctrl)
	reports.EXPECT().
		ListCandidates(gomock.Any(), "user-1", storage.UserScanLimit).
		Return([]*storage.ReportRecord{
			{ID: 9, UserID: "user-1", PlayerName: "John Smith", Team: "Boston Celtics", League: "NBA"},
		}, nil)

	r := match.NewResolver(reports, nil, match.DefaultThresholds())
	// Same surname, unrelated first name. Must never match.
	d, err := r.Resolve(context.Background(), "user-1", match.Query{Player: "Mark Smith"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if d.Kind != match.Miss {
		t.Errorf("Resolve() = %s (report %d, score %d), want miss", d.Kind, d.ReportID, d.Score)
	}
}

func TestResolver_Resolve_Miss(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reports := storagemocks.NewMockReportStore(ctrl)
	reports.EXPECT().
		ListCandidates(gomock.Any(), storage.GlobalScope, storage.GlobalScanLimit).
		Return(libraryFixture(), nil)

	r := match.NewResolver(reports, nil, match.DefaultThresholds())
	d, err := r.Resolve(context.Background(), storage.GlobalScope, match.Query{Player: "Victor Wembanyama"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if d.Kind != match.Miss {
		t.Errorf("Resolve() = %s, want miss", d.Kind)
	}
}

func TestResolver_Resolve_EmptyQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No store call expected: an unusable query short-circuits.
	reports := storagemocks.NewMockReportStore(ctrl)

	r := match.NewResolver(reports, nil, match.DefaultThresholds())
	d, err := r.Resolve(context.Background(), storage.GlobalScope, match.Query{Player: "  ...  "})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if d.Kind != match.Miss {
		t.Errorf("Resolve() = %s, want miss", d.Kind)
	}
}

func TestResolver_Resolve_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reports := storagemocks.NewMockReportStore(ctrl)
	reports.EXPECT().
		ListCandidates(gomock.Any(), storage.GlobalScope, storage.GlobalScanLimit).
		Return(nil, errors.New("disk gone"))

	r := match.NewResolver(reports, nil, match.DefaultThresholds())
	if _, err := r.Resolve(context.Background(), storage.GlobalScope, match.Query{Player: "Nikola Jokic"}); err == nil {
		t.Error("Resolve() with failing store should return an error")
	}
}

func TestResolver_ResolveFallback_StricterCutoffs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reports := storagemocks.NewMockReportStore(ctrl)
	reports.EXPECT().
		ListCandidates(gomock.Any(), "user-1", storage.UserScanLimit).
		Return(libraryFixture(), nil).
		Times(2)

	r := match.NewResolver(reports, nil, match.DefaultThresholds())

	// A near-identical spelling is auto in the primary pass but only a
	// suggestion under the fallback cutoffs.
	primary, err := r.Resolve(context.Background(), "user-1", match.Query{Player: "Nicola Jokic"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if primary.Kind != match.Auto {
		t.Fatalf("Resolve() = %s, want auto", primary.Kind)
	}

	fallback, err := r.ResolveFallback(context.Background(), "user-1", match.Query{Player: "Nicola Jokic"})
	if err != nil {
		t.Fatalf("ResolveFallback() error = %v", err)
	}
	if fallback.Kind != match.Suggest || fallback.Stage != "fallback" {
		t.Errorf("ResolveFallback() = (%s, stage %q), want fallback suggest", fallback.Kind, fallback.Stage)
	}
	if fallback.ReportID != primary.ReportID || fallback.Score != primary.Score {
		t.Errorf("ResolveFallback() = report %d score %d, want same report %d score %d as primary",
			fallback.ReportID, fallback.Score, primary.ReportID, primary.Score)
	}
}
