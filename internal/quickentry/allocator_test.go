package quickentry_test

import (
	"bookkeeper/internal/quickentry"
	mockquickentry "bookkeeper/internal/quickentry/mock"
	"bookkeeper/pkg/domain"
	"bookkeeper/pkg/storage/memory"
	"context"
	"errors"
	"regexp"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAllocate_TwoConcurrentCalls(t *testing.T) {
	allocator := quickentry.NewAllocator(memory.New(), taipei())
	date := time.Date(2025, 7, 15, 9, 0, 0, 0, taipei())

	ids := make([]string, 2)
	var wg sync.WaitGroup
	for i := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := allocator.Allocate(context.Background(), date)
			if !assertNoError(t, err) {
				return
			}
			ids[i] = id.String()
		}()
	}
	wg.Wait()

	slices.Sort(ids)
	require.Equal(t, []string{"20250715-00001", "20250715-00002"}, ids)
}

func TestAllocate_ManyConcurrentCallsHaveNoGapsOrDuplicates(t *testing.T) {
	const n = 100
	allocator := quickentry.NewAllocator(memory.New(), taipei())
	date := time.Date(2025, 7, 15, 9, 0, 0, 0, taipei())

	seqs := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := allocator.Allocate(context.Background(), date)
			if !assertNoError(t, err) {
				return
			}
			seqs[i] = id.Sequence
		}()
	}
	wg.Wait()

	slices.Sort(seqs)
	for i, seq := range seqs {
		require.Equal(t, i+1, seq)
	}
}

func TestAllocate_DatesAreIndependent(t *testing.T) {
	allocator := quickentry.NewAllocator(memory.New(), taipei())
	day1 := time.Date(2025, 7, 15, 9, 0, 0, 0, taipei())
	day2 := day1.AddDate(0, 0, 1)

	for i := 1; i <= 3; i++ {
		id, err := allocator.Allocate(context.Background(), day1)
		require.NoError(t, err)
		require.Equal(t, domain.BookkeepingID{DatePart: "20250715", Sequence: i}, id)
	}

	id, err := allocator.Allocate(context.Background(), day2)
	require.NoError(t, err)
	require.Equal(t, "20250716-00001", id.String())
}

func TestAllocate_UsesConfiguredLocation(t *testing.T) {
	allocator := quickentry.NewAllocator(memory.New(), taipei())

	// 16:30 UTC is already the next day in Taipei
	id, err := allocator.Allocate(context.Background(), time.Date(2025, 7, 14, 16, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, "20250715-00001", id.String())
}

func TestAllocate_SequenceExhausted(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mockquickentry.NewMockSequenceStore(ctrl)
	store.EXPECT().AtomicIncrement(gomock.Any(), "20250715").Return(int64(domain.MaxSequence), nil)
	store.EXPECT().AtomicIncrement(gomock.Any(), "20250715").Return(int64(domain.MaxSequence+1), nil)

	allocator := quickentry.NewAllocator(store, taipei())
	date := time.Date(2025, 7, 15, 9, 0, 0, 0, taipei())

	id, err := allocator.Allocate(context.Background(), date)
	require.NoError(t, err)
	require.Equal(t, "20250715-99999", id.String())

	_, err = allocator.Allocate(context.Background(), date)
	require.ErrorIs(t, err, quickentry.ErrSequenceExhausted)
}

func TestAllocate_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mockquickentry.NewMockSequenceStore(ctrl)
	store.EXPECT().AtomicIncrement(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("connection reset"))
	store.EXPECT().AtomicIncrement(gomock.Any(), gomock.Any()).Return(int64(0), nil)

	allocator := quickentry.NewAllocator(store, taipei())

	_, err := allocator.Allocate(context.Background(), time.Now())
	require.ErrorIs(t, err, quickentry.ErrAllocatorUnavailable)
	require.ErrorContains(t, err, "connection reset")

	_, err = allocator.Allocate(context.Background(), time.Now())
	require.ErrorIs(t, err, quickentry.ErrAllocatorUnavailable)
}

func TestAllocateFallback(t *testing.T) {
	now := time.Date(2025, 7, 15, 3, 4, 5, 123_000_000, taipei())
	allocator := quickentry.NewAllocator(nil, taipei()).WithClock(func() time.Time { return now })

	first := allocator.AllocateFallback()
	second := allocator.AllocateFallback()

	require.True(t, first.IsFallback())
	require.Equal(t, "20250715", first.DatePart)
	require.Regexp(t, regexp.MustCompile(`^20250715-T030405123-[0-9a-f]{6}$`), first.String())
	require.NotEqual(t, first, second)

	parsed, err := domain.ParseBookkeepingID(first.String())
	require.NoError(t, err)
	require.Equal(t, first, parsed)
}

// assertNoError is require.NoError for goroutines other than the test's own.
func assertNoError(t *testing.T, err error) bool {
	t.Helper()
	if err != nil {
		t.Errorf("unexpected error: %v", err)

		return false
	}

	return true
}
