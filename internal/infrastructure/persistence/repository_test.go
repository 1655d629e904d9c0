package persistence_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"git.appkode.ru/pub/go/failure"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"smartdeals/internal/domain"
	"smartdeals/internal/domain/entity"
	"smartdeals/internal/domain/service/similarity"
	"smartdeals/internal/infrastructure/persistence"
	"smartdeals/internal/infrastructure/persistence/migrations"
	"smartdeals/pkg/dbtest"
	"smartdeals/pkg/errcodes"
)

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) //nolint:gochecknoglobals

func TestRepositoriesSQLite(t *testing.T) {
	db := dbtest.SQLite(t)
	dbtest.ApplyMigrations(t, db, migrations.SQLiteFS, "sqlite/*.sql")

	runRepositorySuite(t, db)
}

func TestRepositoriesPostgres(t *testing.T) {
	db := dbtest.Postgres(t)

	require.NoError(t, persistence.Migrate(context.Background(), db))
	// повторный прогон миграций ничего не ломает
	require.NoError(t, persistence.Migrate(context.Background(), db))

	runRepositorySuite(t, db)
}

func TestMigrateSQLite(t *testing.T) {
	rq := require.New(t)

	db := dbtest.SQLite(t)

	rq.NoError(persistence.Migrate(context.Background(), db))
	rq.NoError(persistence.Migrate(context.Background(), db))

	var tables int
	rq.NoError(db.Get(&tables, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN
		('settings', 'deals', 'price_history', 'posts', 'scan_runs')`))
	rq.Equal(5, tables)
}

func newDeal(source, productID, title string, score int, status entity.DealStatus) *entity.Deal {
	return &entity.Deal{
		Candidate: entity.Candidate{
			Source:           source,
			ProductID:        productID,
			Title:            title,
			URL:              "https://example.com/" + productID,
			CurrentPrice:     199.9,
			OldPrice:         lo.ToPtr(299.9),
			Currency:         "BRL",
			SellerName:       "Loja",
			SellerReputation: "5_green",
			IsOfficialStore:  true,
			SoldQuantity:     120,
			Condition:        "new",
			Metadata:         map[string]any{"keyword": "rtx"},
		},
		SimilarityKey: similarity.Key(title, "", ""),
		Score:         score,
		Reasons:       []string{"Official store"},
		Verdict:       entity.VerdictWorthIt,
		Status:        status,
		CreatedAt:     baseTime,
		UpdatedAt:     baseTime,
		ScoredAt:      lo.ToPtr(baseTime),
	}
}

func runRepositorySuite(t *testing.T, db *sqlx.DB) {
	t.Helper()

	t.Run("Deals", func(t *testing.T) { testDeals(t, db) })
	t.Run("Price history", func(t *testing.T) { testPriceHistory(t, db) })
	t.Run("Posts", func(t *testing.T) { testPosts(t, db) })
	t.Run("Scan runs", func(t *testing.T) { testScanRuns(t, db) })
	t.Run("Settings", func(t *testing.T) { testSettings(t, db) })
}

func testDeals(t *testing.T, db *sqlx.DB) {
	rq := require.New(t)
	ctx := context.Background()
	repo := persistence.NewDealRepository(db)

	first := newDeal("mercadolivre", "MLB100", "Placa RTX 5060", 90, entity.DealStatusApproved)
	rq.NoError(repo.Create(ctx, first))
	rq.NotZero(first.ID)

	got, err := repo.GetByID(ctx, first.ID)
	rq.NoError(err)
	rq.Equal(first.Title, got.Title)
	rq.InDelta(299.9, *got.OldPrice, 0.001)
	rq.Equal("rtx", got.Metadata["keyword"])
	rq.Equal([]string{"Official store"}, got.Reasons)
	rq.True(got.IsOfficialStore)
	rq.Equal(baseTime, got.CreatedAt)
	rq.Nil(got.PostedAt)

	testCases := []struct {
		name string
		deal *entity.Deal
	}{
		{name: "Same product", deal: newDeal("mercadolivre", "MLB100", "Other title", 10, entity.DealStatusNew)},
		{name: "Same similarity key", deal: newDeal("amazon", "B000000001", "placa rtx 5060!!", 10, entity.DealStatusNew)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			err := repo.Create(ctx, tc.deal)
			rq.True(domain.IsDuplicate(err), "got %v", err)
		})
	}

	known, err := repo.ExistsByProduct(ctx, "mercadolivre", "MLB100")
	rq.NoError(err)
	rq.True(known)

	known, err = repo.ExistsByProduct(ctx, "amazon", "MLB100")
	rq.NoError(err)
	rq.False(known)

	held, err := repo.ExistsBySimilarityKey(ctx, similarity.Key("PLACA rtx-5060", "", ""))
	rq.NoError(err)
	rq.True(held)

	_, err = repo.GetByID(ctx, 999999)
	rq.True(failure.IsNotFoundError(err))
	rq.Equal(errcodes.DealNotFound, failure.Code(err))

	second := newDeal("mercadolivre", "MLB200", "Mouse gamer", 95, entity.DealStatusApproved)
	third := newDeal("amazon", "B000000003", "Teclado mecânico", 70, entity.DealStatusApproved)
	posted := newDeal("amazon", "B000000004", "Headset", 99, entity.DealStatusApproved)
	posted.PostedAt = lo.ToPtr(baseTime)
	pending := newDeal("amazon", "B000000005", "Monitor 27", 40, entity.DealStatusPendingApproval)
	pending.CreatedAt = baseTime.Add(time.Hour)

	for _, d := range []*entity.Deal{second, third, posted, pending} {
		rq.NoError(repo.Create(ctx, d))
	}

	publishable, err := repo.ListPublishable(ctx, 2)
	rq.NoError(err)
	rq.Equal([]int64{second.ID, first.ID}, lo.Map(publishable, func(d entity.Deal, _ int) int64 { return d.ID }))

	first.Status = entity.DealStatusPosted
	first.PostedAt = lo.ToPtr(baseTime.Add(time.Minute))
	first.UpdatedAt = baseTime.Add(time.Minute)
	rq.NoError(repo.Update(ctx, first))

	publishable, err = repo.ListPublishable(ctx, 10)
	rq.NoError(err)
	rq.Equal([]int64{second.ID, third.ID}, lo.Map(publishable, func(d entity.Deal, _ int) int64 { return d.ID }))

	missing := newDeal("x", "y", "z", 1, entity.DealStatusNew)
	missing.ID = 424242
	rq.True(failure.IsNotFoundError(repo.Update(ctx, missing)))

	filters := []struct {
		name    string
		filter  entity.DealFilter
		wantIDs []int64
	}{
		{name: "Newest first", filter: entity.DealFilter{Limit: 2}, wantIDs: []int64{pending.ID, posted.ID}},
		{name: "By status", filter: entity.DealFilter{Status: entity.DealStatusPendingApproval}, wantIDs: []int64{pending.ID}},
		{name: "By source", filter: entity.DealFilter{Source: "mercadolivre"}, wantIDs: []int64{second.ID, first.ID}},
		{name: "By title", filter: entity.DealFilter{Query: "MOUSE"}, wantIDs: []int64{second.ID}},
		{name: "By min score", filter: entity.DealFilter{MinScore: lo.ToPtr(95)}, wantIDs: []int64{posted.ID, second.ID}},
	}

	for _, tc := range filters {
		t.Run(tc.name, func(*testing.T) {
			deals, err := repo.List(ctx, tc.filter)
			rq.NoError(err)
			rq.Equal(tc.wantIDs, lo.Map(deals, func(d entity.Deal, _ int) int64 { return d.ID }))
		})
	}
}

func testPriceHistory(t *testing.T, db *sqlx.DB) {
	rq := require.New(t)
	ctx := context.Background()
	repo := persistence.NewPriceHistoryRepository(db)

	avg, err := repo.Average(ctx, "mercadolivre", "MLB-none", baseTime.AddDate(0, 0, -30))
	rq.NoError(err)
	rq.Nil(avg)

	points := []entity.PricePoint{
		{Source: "mercadolivre", ProductID: "MLB1", Price: 1000, CapturedAt: baseTime.AddDate(0, 0, -40)},
		{Source: "mercadolivre", ProductID: "MLB1", Price: 200, CapturedAt: baseTime.AddDate(0, 0, -10)},
		{Source: "mercadolivre", ProductID: "MLB1", Price: 100, CapturedAt: baseTime},
		{Source: "mercadolivre", ProductID: "MLB1", Price: 0, CapturedAt: baseTime},
		{Source: "amazon", ProductID: "MLB1", Price: 5000, CapturedAt: baseTime},
	}

	for i := range points {
		rq.NoError(repo.Append(ctx, &points[i]))
		rq.NotZero(points[i].ID)
	}

	avg, err = repo.Average(ctx, "mercadolivre", "MLB1", baseTime.AddDate(0, 0, -30))
	rq.NoError(err)
	rq.NotNil(avg)
	rq.InDelta(150, *avg, 0.001)

	history, err := repo.List(ctx, "mercadolivre", "MLB1")
	rq.NoError(err)
	rq.Len(history, 4)
	rq.InDelta(1000, history[0].Price, 0.001)
}

func testPosts(t *testing.T, db *sqlx.DB) {
	rq := require.New(t)
	ctx := context.Background()

	deal := newDeal("mercadolivre", "MLB-posts", "Cadeira gamer", 80, entity.DealStatusPosted)
	rq.NoError(persistence.NewDealRepository(db).Create(ctx, deal))

	repo := persistence.NewPostRepository(db)

	for i, status := range []entity.PostStatus{entity.PostStatusSkipped, entity.PostStatusDraft} {
		p := &entity.Post{
			DealID:    deal.ID,
			Channel:   entity.ChannelWhatsApp,
			Status:    status,
			Payload:   map[string]any{"message": fmt.Sprintf("msg %d", i)},
			CreatedAt: baseTime.Add(time.Duration(i) * time.Second),
		}
		rq.NoError(repo.Create(ctx, p))
		rq.NotZero(p.ID)
	}

	posts, err := repo.List(ctx, 1)
	rq.NoError(err)
	rq.Len(posts, 1)
	rq.Equal(entity.PostStatusDraft, posts[0].Status)
	rq.Equal("msg 1", posts[0].Payload["message"])
	rq.Equal(deal.ID, posts[0].DealID)
}

func testScanRuns(t *testing.T, db *sqlx.DB) {
	rq := require.New(t)
	ctx := context.Background()
	repo := persistence.NewScanRunRepository(db)

	run := &entity.ScanRun{StartedAt: baseTime, Status: entity.ScanRunStatusRunning}
	rq.NoError(repo.Create(ctx, run))
	rq.NotZero(run.ID)

	run.Status = entity.ScanRunStatusFinished
	run.FinishedAt = lo.ToPtr(baseTime.Add(time.Minute))
	run.Message = "ok"
	run.Stats = entity.ScanStats{Fetched: 10, New: 3, Scored: 3, SourceErrors: 1}
	rq.NoError(repo.Finish(ctx, run))

	runs, err := repo.List(ctx, 10)
	rq.NoError(err)
	rq.Len(runs, 1)
	rq.Equal(entity.ScanRunStatusFinished, runs[0].Status)
	rq.Equal(run.Stats, runs[0].Stats)
	rq.Equal(baseTime.Add(time.Minute), *runs[0].FinishedAt)
}

func testSettings(t *testing.T, db *sqlx.DB) {
	rq := require.New(t)
	ctx := context.Background()
	repo := persistence.NewSettingsRepository(db)

	s, err := repo.Get(ctx)
	rq.NoError(err)
	rq.Equal(entity.DefaultSettings(), s)

	s.Mode = entity.ModeAuto
	s.Telegram.ChatID = "-100123"
	rq.NoError(repo.Save(ctx, s))

	s.ApprovalThreshold = 85
	rq.NoError(repo.Save(ctx, s))

	got, err := repo.Get(ctx)
	rq.NoError(err)
	rq.Equal(entity.ModeAuto, got.Mode)
	rq.Equal(85, got.ApprovalThreshold)
	rq.Equal("-100123", got.Telegram.ChatID)
}
