package application

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-cinema-seat-booking/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/domain/program"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/infrastructure/jsonfile"
)

// TestBenchmark_LargeShowing は大規模座席数でのパフォーマンスを計測する
// 1万席の上映回に対する並行予約のスループットを実証する
func TestBenchmark_LargeShowing(t *testing.T) {
	if testing.Short() {
		t.Skip("大規模ベンチマークテストはshortモードではスキップ")
	}

	const totalSeats = 10000

	store, err := jsonfile.NewStore(t.TempDir())
	require.NoError(t, err)

	startAt := time.Now().Add(24 * time.Hour)
	sh, err := program.NewShowing("showing-large", startAt, program.NewSeats("S", totalSeats))
	require.NoError(t, err)
	p, err := program.NewProgram("program-large", "大規模上映", []*program.Showing{sh})
	require.NoError(t, err)
	catalog, err := program.NewCatalog([]*program.Program{p})
	require.NoError(t, err)
	ledger, err := booking.NewLedger(nil)
	require.NoError(t, err)

	svc := NewBookingService(catalog, ledger, store, nil)
	ctx := context.Background()

	t.Run("1万席への並行予約", func(t *testing.T) {
		// 100ワーカーがそれぞれ別の4席ブロックを予約する
		const workers = 100
		var success atomic.Int64

		start := time.Now()
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				base := i*4 + 1
				seatIDs := make([]string, 4)
				for j := range seatIDs {
					seatIDs[j] = fmt.Sprintf("S%d", base+j)
				}
				_, err := svc.CreateBooking(ctx, CreateBookingInput{
					CustomerName: fmt.Sprintf("客%d", i),
					ShowingID:    "showing-large",
					SeatIDs:      seatIDs,
				})
				if err == nil {
					success.Add(1)
				}
			}(i)
		}
		wg.Wait()
		elapsed := time.Since(start)

		require.Equal(t, int64(workers), success.Load())
		require.Equal(t, totalSeats-workers*4, sh.CountAvailable())
		t.Logf("%d件の予約を%vで処理（永続化込み）", workers, elapsed)
	})

	t.Run("予約済み状態での空席確認", func(t *testing.T) {
		start := time.Now()
		const lookups = 1000
		for i := 0; i < lookups; i++ {
			sh.CountAvailable()
		}
		t.Logf("%d回の空席集計を%vで処理", lookups, time.Since(start))
	})
}
