package event

import (
	"context"
	"testing"
	"time"

	"Pointspin-Backend/domain"
	"Pointspin-Backend/entities"
	"Pointspin-Backend/pkg/wallet"

	migration "Pointspin-Backend/cmd/database/migrate"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := migration.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newEventFixture(t *testing.T) (EventService, *gorm.DB, uuid.UUID) {
	t.Helper()
	db := newTestDB(t)

	user := &entities.User{
		Email:        uuid.New().String() + "@example.com",
		PasswordHash: "x",
		Role:         domain.RoleUser,
		Status:       domain.UserStatusActive,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := db.Create(&entities.Wallet{UserID: user.ID}).Error; err != nil {
		t.Fatalf("create wallet: %v", err)
	}

	walletRepository := wallet.NewWalletRepository(db)
	service := NewEventService(db, walletRepository, wallet.NewWalletService(db, walletRepository))
	return service, db, user.ID
}

func TestDailyCheckin_GrantsTicketOnce(t *testing.T) {
	service, db, userID := newEventFixture(t)
	ctx := context.Background()

	result, err := service.DailyCheckin(ctx, userID.String())
	if err != nil {
		t.Fatalf("checkin: %v", err)
	}
	if !result.OK || result.TicketGranted != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	var w entities.Wallet
	if err := db.Where("user_id = ?", userID).First(&w).Error; err != nil {
		t.Fatalf("load wallet: %v", err)
	}
	if w.TicketBalance != 1 {
		t.Fatalf("expected 1 ticket, got %d", w.TicketBalance)
	}

	var entry entities.WalletTransaction
	if err := db.Where("user_id = ? AND ref_type = ?", userID, domain.RefTypeEvent).First(&entry).Error; err != nil {
		t.Fatalf("ledger entry missing: %v", err)
	}
	wantRef := "daily-checkin:" + time.Now().UTC().Format("2006-01-02")
	if entry.RefID != wantRef {
		t.Fatalf("expected ref %q, got %q", wantRef, entry.RefID)
	}
	if entry.Type != domain.TransactionTypeReward || entry.Amount != 0 {
		t.Fatalf("unexpected ledger entry: %+v", entry)
	}

	_, err = service.DailyCheckin(ctx, userID.String())
	if err != domain.ErrAlreadyCheckedIn {
		t.Fatalf("expected ErrAlreadyCheckedIn, got %v", err)
	}
	db.Where("user_id = ?", userID).First(&w)
	if w.TicketBalance != 1 {
		t.Fatalf("second checkin granted again: %d tickets", w.TicketBalance)
	}
}

func TestDailyCheckin_EventRefIsUniquePerUser(t *testing.T) {
	service, db, userID := newEventFixture(t)
	ctx := context.Background()

	if _, err := service.DailyCheckin(ctx, userID.String()); err != nil {
		t.Fatalf("checkin: %v", err)
	}

	// A second EVENT row with the same ref must be rejected by the index
	// itself, even when it bypasses the service's existence check.
	refID := "daily-checkin:" + time.Now().UTC().Format("2006-01-02")
	err := db.Create(&entities.WalletTransaction{
		UserID:  userID,
		Type:    domain.TransactionTypeReward,
		Amount:  0,
		RefType: domain.RefTypeEvent,
		RefID:   refID,
	}).Error
	if err == nil {
		t.Fatalf("duplicate event ref accepted")
	}
	if !isDuplicateRef(err) {
		t.Fatalf("duplicate not classified as already checked in: %v", err)
	}

	// Spin refs stay shareable: one spin writes a stake row and may write a
	// dust row under the same id.
	spinRef := uuid.New().String()
	for _, txType := range []string{domain.TransactionTypeSpend, domain.TransactionTypeReward} {
		if err := db.Create(&entities.WalletTransaction{
			UserID:  userID,
			Type:    txType,
			RefType: domain.RefTypeSpin,
			RefID:   spinRef,
		}).Error; err != nil {
			t.Fatalf("spin ref rejected for %s: %v", txType, err)
		}
	}

	var w entities.Wallet
	if err := db.Where("user_id = ?", userID).First(&w).Error; err != nil {
		t.Fatalf("load wallet: %v", err)
	}
	if w.TicketBalance != 1 {
		t.Fatalf("expected 1 ticket after duplicate rejection, got %d", w.TicketBalance)
	}
}

func TestStatus_FlipsAfterCheckin(t *testing.T) {
	service, _, userID := newEventFixture(t)
	ctx := context.Background()

	status, err := service.Status(ctx, userID.String())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.CheckedIn {
		t.Fatalf("checked in before any checkin")
	}

	if _, err := service.DailyCheckin(ctx, userID.String()); err != nil {
		t.Fatalf("checkin: %v", err)
	}

	status, err = service.Status(ctx, userID.String())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !status.CheckedIn {
		t.Fatalf("status did not flip after checkin")
	}
	if status.Date != time.Now().UTC().Format("2006-01-02") {
		t.Fatalf("unexpected status date %q", status.Date)
	}
}
