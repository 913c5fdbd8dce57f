package quickentry_test

import (
	"bookkeeper/internal/quickentry"
	mockquickentry "bookkeeper/internal/quickentry/mock"
	"bookkeeper/pkg/domain"
	"bookkeeper/pkg/storage/memory"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newResolver(t *testing.T, categories []domain.CategoryRecord) *quickentry.Resolver {
	t.Helper()

	strg := memory.New()
	require.NoError(t, strg.ReplaceCategories(context.Background(), testUser, categories...))

	return quickentry.NewResolver(strg, quickentry.NewResolverOptions(quickentry.DefaultOptions()))
}

func TestResolve(t *testing.T) {
	resolver := newResolver(t, testCategories())

	tests := []struct {
		name      string
		phrase    string
		subCode   string
		matchType domain.MatchType
		score     float64
	}{
		{name: "exact name", phrase: "午餐", subCode: "501", matchType: domain.MatchExact, score: 1},
		{name: "exact name trimmed", phrase: "  咖啡 ", subCode: "502", matchType: domain.MatchExact, score: 1},
		{name: "exact synonym", phrase: "月薪", subCode: "401", matchType: domain.MatchSynonymExact, score: 0.99},
		{name: "exact synonym ignores case", phrase: "LUNCH", subCode: "501", matchType: domain.MatchSynonymExact, score: 0.99},
		{name: "exact synonym full width", phrase: "ＴＡＸＩ", subCode: "601", matchType: domain.MatchSynonymExact, score: 0.99},
		{name: "name inside phrase", phrase: "計程車費", subCode: "601", matchType: domain.MatchContainsSubName, score: 0.75},
		{name: "synonym inside phrase", phrase: "高速鐵路票", subCode: "602", matchType: domain.MatchContainsSynonym, score: 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolver.Resolve(context.Background(), tt.phrase, testUser)
			require.NoError(t, err)
			require.Equal(t, tt.subCode, got.Category.SubCode)
			require.Equal(t, tt.matchType, got.MatchType)
			require.InDelta(t, tt.score, got.Score, 1e-9)
		})
	}
}

func TestResolve_ExactScoreIsOneOnlyForExact(t *testing.T) {
	resolver := newResolver(t, testCategories())

	for _, phrase := range []string{"午餐", "中餐", "lunch", "計程車費", "高速鐵路票", "薪資"} {
		got, err := resolver.Resolve(context.Background(), phrase, testUser)
		require.NoError(t, err, phrase)
		require.Equal(t, got.MatchType == domain.MatchExact, got.Score == 1.0, phrase)
		require.GreaterOrEqual(t, got.Score, 0.0)
		require.LessOrEqual(t, got.Score, 1.0)
	}
}

func TestResolve_ExactPreferredOverFuzzy(t *testing.T) {
	categories := []domain.CategoryRecord{
		{MajorCode: "5", SubCode: "510", SubName: "早午", Synonyms: []string{"午"}},
		{MajorCode: "5", SubCode: "511", SubName: "早午餐"},
	}
	resolver := newResolver(t, categories)

	got, err := resolver.Resolve(context.Background(), "早午餐", testUser)
	require.NoError(t, err)
	require.Equal(t, "511", got.Category.SubCode)
	require.Equal(t, domain.MatchExact, got.MatchType)
}

func TestResolve_NameBeforeSynonymInExactPhase(t *testing.T) {
	categories := []domain.CategoryRecord{
		{MajorCode: "5", SubCode: "520", SubName: "飲料", Synonyms: []string{"手搖"}},
		{MajorCode: "5", SubCode: "521", SubName: "手搖"},
	}
	resolver := newResolver(t, categories)

	got, err := resolver.Resolve(context.Background(), "手搖", testUser)
	require.NoError(t, err)
	require.Equal(t, "521", got.Category.SubCode)
	require.Equal(t, domain.MatchExact, got.MatchType)
}

func TestResolve_Idempotent(t *testing.T) {
	resolver := newResolver(t, testCategories())

	for _, phrase := range []string{"午餐", "lunch", "計程車費", "高速鐵路票"} {
		first, err := resolver.Resolve(context.Background(), phrase, testUser)
		require.NoError(t, err)
		second, err := resolver.Resolve(context.Background(), phrase, testUser)
		require.NoError(t, err)
		require.Equal(t, first, second)
	}
}

func TestMatch_ScoreCapsAndTies(t *testing.T) {
	categories := []domain.CategoryRecord{
		{MajorCode: "5", SubCode: "530", SubName: "早餐"},
		{MajorCode: "5", SubCode: "531", SubName: "晚餐", Synonyms: []string{"宵夜"}},
	}
	opts := quickentry.DefaultOptions()
	opts.FuzzyThreshold = 0.4
	opts.NameScoreCap = 0.3
	opts.SynonymScoreCap = 0.45
	resolver := quickentry.NewResolver(nil, quickentry.NewResolverOptions(opts))

	// both names score 0.5 capped to 0.3, the synonym 0.5 capped to 0.45
	got, ok := resolver.Match("早餐宵夜", categories)
	require.True(t, ok)
	require.Equal(t, "531", got.Category.SubCode)
	require.Equal(t, domain.MatchContainsSynonym, got.MatchType)
	require.InDelta(t, 0.45, got.Score, 1e-9)

	// equal scores keep the first seen
	opts.NameScoreCap = 0.9
	resolver = quickentry.NewResolver(nil, quickentry.NewResolverOptions(opts))
	got, ok = resolver.Match("早餐晚餐", categories)
	require.True(t, ok)
	require.Equal(t, "530", got.Category.SubCode)
	require.InDelta(t, 0.5, got.Score, 1e-9)
}

func TestMatch_BelowThreshold(t *testing.T) {
	resolver := quickentry.NewResolver(nil, quickentry.NewResolverOptions(quickentry.DefaultOptions()))

	// "午餐" covers 2 of 5 runes
	_, ok := resolver.Match("午餐吃太多", testCategories())
	require.False(t, ok)

	// the name must be inside the phrase, not the other way around
	_, ok = resolver.Match("計程", testCategories())
	require.False(t, ok)

	_, ok = resolver.Match("   ", testCategories())
	require.False(t, ok)
}

func TestResolve_CategoryNotFound(t *testing.T) {
	resolver := newResolver(t, nil)

	_, err := resolver.Resolve(context.Background(), "不存在的科目", testUser)
	require.ErrorIs(t, err, quickentry.ErrCategoryNotFound)
	d := quickentry.DetailOf(err)
	require.NotNil(t, d)
	require.Equal(t, "不存在的科目", d.Input)
	require.Empty(t, d.Suggestions)
}

func TestResolve_Suggestions(t *testing.T) {
	resolver := newResolver(t, testCategories())

	_, err := resolver.Resolve(context.Background(), "午參", testUser)
	require.ErrorIs(t, err, quickentry.ErrCategoryNotFound)
	require.Equal(t, []string{"午餐"}, quickentry.DetailOf(err).Suggestions)

	opts := quickentry.DefaultOptions()
	opts.MaxSuggestions = 2
	resolver = quickentry.NewResolver(nil, quickentry.NewResolverOptions(opts))
	got := resolver.Suggest("計程", testCategories())
	require.Equal(t, []string{"計程車"}, got)

	got = resolver.Suggest("taxu", testCategories())
	require.Equal(t, []string{"計程車"}, got)
}

func TestResolve_DirectoryUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	directory := mockquickentry.NewMockCategoryDirectory(ctrl)
	directory.EXPECT().GetCategories(gomock.Any(), testUser).Return(nil, errors.New("connection refused"))

	resolver := quickentry.NewResolver(directory, quickentry.NewResolverOptions(quickentry.DefaultOptions()))
	_, err := resolver.Resolve(context.Background(), "午餐", testUser)
	require.ErrorIs(t, err, quickentry.ErrDirectoryUnavailable)
	require.ErrorContains(t, err, "connection refused")
}

func TestResolve_DirectoryTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	directory := mockquickentry.NewMockCategoryDirectory(ctrl)
	directory.EXPECT().GetCategories(gomock.Any(), testUser).DoAndReturn(
		func(ctx context.Context, _ domain.UserID) ([]domain.CategoryRecord, error) {
			<-ctx.Done()

			return nil, ctx.Err()
		})

	opts := quickentry.DefaultOptions()
	opts.DirectoryTimeout = 10 * time.Millisecond
	resolver := quickentry.NewResolver(directory, quickentry.NewResolverOptions(opts))

	_, err := resolver.Resolve(context.Background(), "午餐", testUser)
	require.ErrorIs(t, err, quickentry.ErrDirectoryUnavailable)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
