package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/pricing"
	recdomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/recommendation/domain"
	subscriptiondomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/subscription/domain"
	subscriptionservice "github.com/ShreyamKeshri/subsavvyai-sub000/internal/subscription/service"
	usagedomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/usage/domain"
	usageservice "github.com/ShreyamKeshri/subsavvyai-sub000/internal/usage/service"
	"github.com/ShreyamKeshri/subsavvyai-sub000/pkg/repository"
)

func setupRecTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&subscriptiondomain.Subscription{},
		&usagedomain.ServiceUsage{},
		&recdomain.OptimizationRecommendation{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newRecTestService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	subSvc := subscriptionservice.NewService(subscriptionservice.ServiceParam{
		DB:  db,
		Log: zap.NewNop(),
	})
	usageSvc := usageservice.NewService(usageservice.ServiceParam{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
	})
	return &Service{
		db:  db,
		log: zap.NewNop(),

		genID:     node,
		generator: newTestGenerator(t),
		subSvc:    subSvc,
		usageSvc:  usageSvc,
		recrepo:   repository.ProvideStore[recdomain.OptimizationRecommendation](db),
	}
}

func insertRecSubscription(t *testing.T, db *gorm.DB, id, userID snowflake.ID, name string, cost float64) {
	t.Helper()
	sub := subscriptiondomain.Subscription{
		ID:           id,
		UserID:       userID,
		ServiceName:  &name,
		Cost:         cost,
		Currency:     pricing.CurrencyINR,
		BillingCycle: subscriptiondomain.CycleMonthly,
		Status:       subscriptiondomain.StatusActive,
	}
	if err := db.Create(&sub).Error; err != nil {
		t.Fatalf("insert subscription: %v", err)
	}
}

func recordUsage(t *testing.T, svc *Service, userID, subID snowflake.ID, hours float64) {
	t.Helper()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.usageSvc.Record(context.Background(), usagedomain.RecordRequest{
		UserID:         userID,
		SubscriptionID: subID,
		UsageHours:     hours,
		PeriodStart:    start,
		PeriodEnd:      start.AddDate(0, 0, 30),
	})
	if err != nil {
		t.Fatalf("record usage: %v", err)
	}
}

func TestRefreshPersistsPendingWithExpiry(t *testing.T) {
	db := setupRecTestDB(t)
	svc := newRecTestService(t, db)
	ctx := context.Background()

	insertRecSubscription(t, db, 1, 100, "Netflix", 649)
	recordUsage(t, svc, 100, 1, 0.5)

	before := time.Now().UTC()
	recs, err := svc.Refresh(ctx, 100)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(recs))
	}
	rec := recs[0]
	if rec.Status != recdomain.StatusPending {
		t.Errorf("status = %s, want pending", rec.Status)
	}
	if rec.Type != recdomain.TypeCancel {
		t.Errorf("type = %s, want cancel", rec.Type)
	}
	if rec.ExpiresAt == nil {
		t.Fatalf("expires_at not set")
	}
	horizon := rec.ExpiresAt.Sub(before)
	if horizon < recdomain.ExpiryHorizon-time.Minute || horizon > recdomain.ExpiryHorizon+time.Minute {
		t.Errorf("expiry horizon = %v, want ~%v", horizon, recdomain.ExpiryHorizon)
	}
}

func TestRefreshSupersedesPreviousPending(t *testing.T) {
	db := setupRecTestDB(t)
	svc := newRecTestService(t, db)
	ctx := context.Background()

	insertRecSubscription(t, db, 1, 100, "Netflix", 649)
	recordUsage(t, svc, 100, 1, 0.5)

	first, err := svc.Refresh(ctx, 100)
	if err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	if _, err := svc.Refresh(ctx, 100); err != nil {
		t.Fatalf("second refresh: %v", err)
	}

	var old recdomain.OptimizationRecommendation
	if err := db.First(&old, "id = ?", first[0].ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if old.Status != recdomain.StatusExpired {
		t.Errorf("superseded status = %s, want expired", old.Status)
	}

	pending, err := svc.List(ctx, 100)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending recommendation, got %d", len(pending))
	}
}

func TestRefreshWithHealthyUsageClearsPending(t *testing.T) {
	db := setupRecTestDB(t)
	svc := newRecTestService(t, db)
	ctx := context.Background()

	insertRecSubscription(t, db, 1, 100, "Netflix", 649)
	recordUsage(t, svc, 100, 1, 0.5)

	if _, err := svc.Refresh(ctx, 100); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	// Usage recovers: the next refresh supersedes the cancel candidate and
	// produces nothing new.
	recordUsage(t, svc, 100, 1, 45)
	recs, err := svc.Refresh(ctx, 100)
	if err != nil {
		t.Fatalf("second refresh: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected no recommendations, got %d", len(recs))
	}
	pending, err := svc.List(ctx, 100)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending recommendations, got %d", len(pending))
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	db := setupRecTestDB(t)
	svc := newRecTestService(t, db)
	ctx := context.Background()

	insertRecSubscription(t, db, 1, 100, "Netflix", 649)
	recordUsage(t, svc, 100, 1, 0.5)
	recs, err := svc.Refresh(ctx, 100)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	recID := recs[0].ID

	if err := svc.UpdateStatus(ctx, 100, recID, recdomain.StatusExpired); !errors.Is(err, recdomain.ErrInvalidStatus) {
		t.Errorf("expired is not a user transition, got %v", err)
	}
	if err := svc.UpdateStatus(ctx, 100, recID, recdomain.StatusAccepted); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if err := svc.UpdateStatus(ctx, 100, recID, recdomain.StatusDismissed); !errors.Is(err, recdomain.ErrAlreadyFinalized) {
		t.Errorf("expected already finalized, got %v", err)
	}
	if err := svc.UpdateStatus(ctx, 100, 9999, recdomain.StatusAccepted); !errors.Is(err, recdomain.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
	if err := svc.UpdateStatus(ctx, 101, recID, recdomain.StatusAccepted); !errors.Is(err, recdomain.ErrNotFound) {
		t.Errorf("expected not found for wrong user, got %v", err)
	}
}

func TestSavingsSummaryIncludesRealized(t *testing.T) {
	db := setupRecTestDB(t)
	svc := newRecTestService(t, db)
	ctx := context.Background()

	insertRecSubscription(t, db, 1, 100, "Netflix", 649)
	insertRecSubscription(t, db, 2, 100, "Spotify", 119)
	recordUsage(t, svc, 100, 1, 0.5)
	recordUsage(t, svc, 100, 2, 6)

	if _, err := svc.Refresh(ctx, 100); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	// The user applies the Spotify downgrade.
	subSvc := svc.subSvc
	if err := subSvc.MarkOptimized(ctx, subscriptiondomain.MarkOptimizedRequest{
		UserID:         100,
		SubscriptionID: 2,
		Type:           "downgrade",
		MonthlySavings: 119,
	}); err != nil {
		t.Fatalf("mark optimized: %v", err)
	}

	summary, err := svc.SavingsSummary(ctx, 100)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Count != 2 {
		t.Errorf("count = %d, want 2", summary.Count)
	}
	if summary.MonthlySavings != 649+119 {
		t.Errorf("potential monthly = %v, want 768", summary.MonthlySavings)
	}
	if summary.RealizedMonthlySavings != 119 {
		t.Errorf("realized monthly = %v, want 119", summary.RealizedMonthlySavings)
	}
	if summary.RealizedAnnualSavings != 119*12 {
		t.Errorf("realized annual = %v, want %v", summary.RealizedAnnualSavings, 119*12)
	}
}

func TestExpireStale(t *testing.T) {
	db := setupRecTestDB(t)
	svc := newRecTestService(t, db)
	ctx := context.Background()

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)
	rows := []recdomain.OptimizationRecommendation{
		{ID: 1, UserID: 100, Type: recdomain.TypeCancel, Title: "a", Description: "a",
			Status: recdomain.StatusPending, ExpiresAt: &past},
		{ID: 2, UserID: 100, Type: recdomain.TypeCancel, Title: "b", Description: "b",
			Status: recdomain.StatusPending, ExpiresAt: &future},
		{ID: 3, UserID: 101, Type: recdomain.TypeCancel, Title: "c", Description: "c",
			Status: recdomain.StatusAccepted, ExpiresAt: &past},
	}
	for i := range rows {
		if err := db.Create(&rows[i]).Error; err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	count, err := svc.ExpireStale(ctx)
	if err != nil {
		t.Fatalf("expire: %v", err)
	}
	if count != 1 {
		t.Fatalf("expired %d rows, want 1", count)
	}

	var got recdomain.OptimizationRecommendation
	if err := db.First(&got, "id = ?", 1).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Status != recdomain.StatusExpired {
		t.Errorf("status = %s, want expired", got.Status)
	}
	got = recdomain.OptimizationRecommendation{}
	if err := db.First(&got, "id = ?", 3).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Status != recdomain.StatusAccepted {
		t.Errorf("accepted row was touched: %s", got.Status)
	}
}
