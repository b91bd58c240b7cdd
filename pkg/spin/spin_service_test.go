package spin

import (
	"context"
	"testing"

	"Pointspin-Backend/domain"
	"Pointspin-Backend/entities"
	"Pointspin-Backend/pkg/audit"
	"Pointspin-Backend/pkg/inventory"
	"Pointspin-Backend/pkg/machine"
	"Pointspin-Backend/pkg/wallet"

	migration "Pointspin-Backend/cmd/database/migrate"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeLimiter struct {
	allow bool
}

func (l *fakeLimiter) Allow(ctx context.Context, userID string) (bool, error) {
	return l.allow, nil
}

// scriptedSource replays a fixed draw sequence. Each spin consumes two
// draws: rarity first, then the pool item.
type scriptedSource struct {
	draws []int
	pos   int
}

func (s *scriptedSource) IntN(max int) (int, error) {
	draw := s.draws[s.pos%len(s.draws)]
	s.pos++
	return draw % max, nil
}

type fixture struct {
	db        *gorm.DB
	service   SpinService
	limiter   *fakeLimiter
	source    *scriptedSource
	userID    uuid.UUID
	machineID string
	rewards   map[string]*entities.RewardCatalog
}

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

func newFixture(t *testing.T, points int64, tickets int, stackable bool) *fixture {
	t.Helper()
	db := newTestDB(t)
	ctx := context.Background()

	user := &entities.User{
		Email:        uuid.New().String() + "@example.com",
		PasswordHash: "x",
		Role:         domain.RoleUser,
		Status:       domain.UserStatusActive,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := db.Create(&entities.Wallet{
		UserID:        user.ID,
		BalancePoint:  points,
		TicketBalance: tickets,
	}).Error; err != nil {
		t.Fatalf("create wallet: %v", err)
	}

	auditService := audit.NewAuditService(audit.NewAuditRepository(db))
	machineService := machine.NewMachineService(db, machine.NewMachineRepository(db), auditService)

	summary, err := machineService.CreateMachine(ctx, domain.CreateMachineRequest{
		Name:          "Neon Gacha",
		ThemeKey:      "neon",
		CostPerSpin:   100,
		TicketAllowed: true,
		IsActive:      true,
	}, user.ID.String())
	if err != nil {
		t.Fatalf("create machine: %v", err)
	}

	rewards := make(map[string]*entities.RewardCatalog, len(domain.Rarities))
	req := domain.CreateProbabilityVersionRequest{
		RarityWeights: []domain.RarityWeightInput{
			{Rarity: domain.RarityCommon, Weight: 8000},
			{Rarity: domain.RarityRare, Weight: 1700},
			{Rarity: domain.RarityEpic, Weight: 280},
			{Rarity: domain.RarityLegendary, Weight: 20},
		},
	}
	for _, rarity := range domain.Rarities {
		reward := &entities.RewardCatalog{
			Type:      domain.RewardTypeCosmetic,
			Name:      "reward-" + rarity,
			Rarity:    rarity,
			Stackable: stackable,
		}
		if err := db.Create(reward).Error; err != nil {
			t.Fatalf("create reward: %v", err)
		}
		rewards[rarity] = reward
		req.PoolItems = append(req.PoolItems, domain.RewardPoolItemInput{
			Rarity:          rarity,
			RewardCatalogID: reward.ID.String(),
			Weight:          100,
		})
	}

	version, err := machineService.CreateDraft(ctx, summary.ID, req, user.ID.String())
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}
	if _, err := machineService.Publish(ctx, summary.ID, version.ID.String(), user.ID.String()); err != nil {
		t.Fatalf("publish: %v", err)
	}

	walletService := wallet.NewWalletService(db, wallet.NewWalletRepository(db))
	inventoryService := inventory.NewInventoryService(inventory.NewInventoryRepository(db), auditService, nil)
	limiter := &fakeLimiter{allow: true}
	source := &scriptedSource{draws: []int{0}}

	service := NewSpinService(
		db,
		NewSpinRepository(db),
		machine.NewMachineRepository(db),
		walletService,
		inventoryService,
		limiter,
		source,
		5,
	)

	return &fixture{
		db:        db,
		service:   service,
		limiter:   limiter,
		source:    source,
		userID:    user.ID,
		machineID: summary.ID,
		rewards:   rewards,
	}
}

func (f *fixture) balance(t *testing.T) *entities.Wallet {
	t.Helper()
	var w entities.Wallet
	if err := f.db.Where("user_id = ?", f.userID).First(&w).Error; err != nil {
		t.Fatalf("load wallet: %v", err)
	}
	return &w
}

func TestSpin_DebitsStakeAndGrantsReward(t *testing.T) {
	f := newFixture(t, 100, 0, false)
	ctx := context.Background()

	result, err := f.service.Spin(ctx, f.userID.String(), f.machineID, domain.SpinRequest{
		IdempotencyKey: "spin-key-0001",
	})
	if err != nil {
		t.Fatalf("spin: %v", err)
	}

	if result.IdempotentReplay {
		t.Fatalf("fresh spin marked as replay")
	}
	if result.Rarity != domain.RarityCommon {
		t.Fatalf("draw 0 should land on COMMON, got %s", result.Rarity)
	}
	if result.Reward.ID != f.rewards[domain.RarityCommon].ID.String() {
		t.Fatalf("unexpected reward: %s", result.Reward.ID)
	}
	if result.BalancePoint != 0 {
		t.Fatalf("expected balance 0 in result, got %d", result.BalancePoint)
	}
	if result.InventoryDelta.Qty != 1 {
		t.Fatalf("expected inventory delta 1, got %d", result.InventoryDelta.Qty)
	}

	if f.balance(t).BalancePoint != 0 {
		t.Fatalf("stake not debited")
	}

	var spinRow entities.Spin
	if err := f.db.Where("user_id = ?", f.userID).First(&spinRow).Error; err != nil {
		t.Fatalf("spin row missing: %v", err)
	}
	if spinRow.CostPoint != 100 || spinRow.UsedTicket {
		t.Fatalf("unexpected spin row: cost=%d ticket=%v", spinRow.CostPoint, spinRow.UsedTicket)
	}

	var entry entities.WalletTransaction
	if err := f.db.Where("user_id = ? AND type = ?", f.userID, domain.TransactionTypeSpend).First(&entry).Error; err != nil {
		t.Fatalf("spend entry missing: %v", err)
	}
	if entry.Amount != -100 || entry.RefType != domain.RefTypeSpin || entry.RefID != spinRow.ID.String() {
		t.Fatalf("unexpected spend entry: %+v", entry)
	}
}

func TestSpin_IdempotentReplayReturnsStoredOutcome(t *testing.T) {
	f := newFixture(t, 100, 0, false)
	ctx := context.Background()
	req := domain.SpinRequest{IdempotencyKey: "spin-key-0002"}

	first, err := f.service.Spin(ctx, f.userID.String(), f.machineID, req)
	if err != nil {
		t.Fatalf("spin: %v", err)
	}

	replay, err := f.service.Spin(ctx, f.userID.String(), f.machineID, req)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}

	if !replay.IdempotentReplay {
		t.Fatalf("replay not marked")
	}
	if replay.SpinID != first.SpinID || replay.Rarity != first.Rarity {
		t.Fatalf("replay returned a different outcome")
	}
	if replay.BalancePoint != 0 {
		t.Fatalf("replay charged again: balance %d", replay.BalancePoint)
	}

	var spinCount, ledgerCount int64
	f.db.Model(&entities.Spin{}).Count(&spinCount)
	f.db.Model(&entities.WalletTransaction{}).Count(&ledgerCount)
	if spinCount != 1 || ledgerCount != 1 {
		t.Fatalf("replay duplicated rows: spins=%d ledger=%d", spinCount, ledgerCount)
	}
}

func TestSpin_InsufficientBalanceLeavesNoTrace(t *testing.T) {
	f := newFixture(t, 50, 0, false)
	ctx := context.Background()

	_, err := f.service.Spin(ctx, f.userID.String(), f.machineID, domain.SpinRequest{
		IdempotencyKey: "spin-key-0003",
	})
	if err != domain.ErrInsufficientBalance {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	if f.balance(t).BalancePoint != 50 {
		t.Fatalf("balance changed on failed spin")
	}
	var spinCount, ledgerCount int64
	f.db.Model(&entities.Spin{}).Count(&spinCount)
	f.db.Model(&entities.WalletTransaction{}).Count(&ledgerCount)
	if spinCount != 0 || ledgerCount != 0 {
		t.Fatalf("failed spin left rows: spins=%d ledger=%d", spinCount, ledgerCount)
	}
}

func TestSpin_RateLimited(t *testing.T) {
	f := newFixture(t, 100, 0, false)
	f.limiter.allow = false

	_, err := f.service.Spin(context.Background(), f.userID.String(), f.machineID, domain.SpinRequest{
		IdempotencyKey: "spin-key-0004",
	})
	if err != domain.ErrRateLimited {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestSpin_TicketStake(t *testing.T) {
	f := newFixture(t, 0, 1, false)
	ctx := context.Background()

	result, err := f.service.Spin(ctx, f.userID.String(), f.machineID, domain.SpinRequest{
		IdempotencyKey: "spin-key-0005",
		UseTicket:      true,
	})
	if err != nil {
		t.Fatalf("ticket spin: %v", err)
	}
	if result.TicketBalance != 0 {
		t.Fatalf("ticket not consumed")
	}

	var spinRow entities.Spin
	if err := f.db.Where("user_id = ?", f.userID).First(&spinRow).Error; err != nil {
		t.Fatalf("spin row missing: %v", err)
	}
	if !spinRow.UsedTicket || spinRow.CostPoint != 0 {
		t.Fatalf("unexpected ticket spin row: cost=%d ticket=%v", spinRow.CostPoint, spinRow.UsedTicket)
	}

	var entry entities.WalletTransaction
	if err := f.db.Where("user_id = ? AND type = ?", f.userID, domain.TransactionTypeSpend).First(&entry).Error; err != nil {
		t.Fatalf("spend entry missing: %v", err)
	}
	if entry.Amount != 0 {
		t.Fatalf("ticket spin should record a zero-amount entry, got %d", entry.Amount)
	}

	// A second ticket spin has no ticket left.
	_, err = f.service.Spin(ctx, f.userID.String(), f.machineID, domain.SpinRequest{
		IdempotencyKey: "spin-key-0006",
		UseTicket:      true,
	})
	if err != domain.ErrInsufficientTickets {
		t.Fatalf("expected ErrInsufficientTickets, got %v", err)
	}
}

func TestSpin_TicketNotAllowed(t *testing.T) {
	f := newFixture(t, 0, 1, false)

	if err := f.db.Model(&entities.Machine{}).
		Where("id = ?", f.machineID).
		UpdateColumn("ticket_allowed", false).Error; err != nil {
		t.Fatalf("update machine: %v", err)
	}

	_, err := f.service.Spin(context.Background(), f.userID.String(), f.machineID, domain.SpinRequest{
		IdempotencyKey: "spin-key-0007",
		UseTicket:      true,
	})
	if err != domain.ErrTicketsNotAllowed {
		t.Fatalf("expected ErrTicketsNotAllowed, got %v", err)
	}
}

func TestSpin_DuplicateConvertsToDust(t *testing.T) {
	f := newFixture(t, 200, 0, false)
	ctx := context.Background()

	if _, err := f.service.Spin(ctx, f.userID.String(), f.machineID, domain.SpinRequest{
		IdempotencyKey: "spin-key-0008",
	}); err != nil {
		t.Fatalf("first spin: %v", err)
	}

	result, err := f.service.Spin(ctx, f.userID.String(), f.machineID, domain.SpinRequest{
		IdempotencyKey: "spin-key-0009",
	})
	if err != nil {
		t.Fatalf("second spin: %v", err)
	}

	// Same COMMON reward again: no inventory growth, dust credited instead.
	if result.InventoryDelta.Qty != 0 {
		t.Fatalf("duplicate grew inventory: %d", result.InventoryDelta.Qty)
	}
	if result.BalancePoint != 5 {
		t.Fatalf("expected 5 dust points after both spins, got %d", result.BalancePoint)
	}

	var item entities.Inventory
	f.db.Where("user_id = ?", f.userID).First(&item)
	if item.Qty != 1 {
		t.Fatalf("duplicate changed qty: %d", item.Qty)
	}

	var dust entities.WalletTransaction
	if err := f.db.Where("user_id = ? AND type = ?", f.userID, domain.TransactionTypeReward).First(&dust).Error; err != nil {
		t.Fatalf("dust entry missing: %v", err)
	}
	if dust.Amount != 5 || dust.RefType != domain.RefTypeSpin {
		t.Fatalf("unexpected dust entry: %+v", dust)
	}
}

func TestSpin_StackableDuplicateStacks(t *testing.T) {
	f := newFixture(t, 200, 0, true)
	ctx := context.Background()

	if _, err := f.service.Spin(ctx, f.userID.String(), f.machineID, domain.SpinRequest{
		IdempotencyKey: "spin-key-0010",
	}); err != nil {
		t.Fatalf("first spin: %v", err)
	}
	result, err := f.service.Spin(ctx, f.userID.String(), f.machineID, domain.SpinRequest{
		IdempotencyKey: "spin-key-0011",
	})
	if err != nil {
		t.Fatalf("second spin: %v", err)
	}

	if result.InventoryDelta.Qty != 1 {
		t.Fatalf("stackable duplicate should add qty, got %d", result.InventoryDelta.Qty)
	}
	if result.BalancePoint != 0 {
		t.Fatalf("stackable duplicate must not pay dust, balance %d", result.BalancePoint)
	}

	var item entities.Inventory
	f.db.Where("user_id = ?", f.userID).First(&item)
	if item.Qty != 2 {
		t.Fatalf("expected qty 2, got %d", item.Qty)
	}
}

func TestSpin_RarityBoundaries(t *testing.T) {
	// Weights walk COMMON(8000), RARE(1700), EPIC(280), LEGENDARY(20).
	tests := []struct {
		draw int
		want string
	}{
		{0, domain.RarityCommon},
		{7999, domain.RarityCommon},
		{8000, domain.RarityRare},
		{9699, domain.RarityRare},
		{9700, domain.RarityEpic},
		{9979, domain.RarityEpic},
		{9980, domain.RarityLegendary},
		{9999, domain.RarityLegendary},
	}

	for _, tt := range tests {
		f := newFixture(t, 100, 0, false)
		f.source.draws = []int{tt.draw, 0}

		result, err := f.service.Spin(context.Background(), f.userID.String(), f.machineID, domain.SpinRequest{
			IdempotencyKey: "spin-key-boundary",
		})
		if err != nil {
			t.Fatalf("draw %d: %v", tt.draw, err)
		}
		if result.Rarity != tt.want {
			t.Fatalf("draw %d: expected %s, got %s", tt.draw, tt.want, result.Rarity)
		}
	}
}

func TestSpin_EmptiedPoolFailsClosed(t *testing.T) {
	f := newFixture(t, 100, 0, false)
	ctx := context.Background()

	// A published version can lose its pool rows to manual surgery; the
	// draw must then fail and take the stake with it.
	if err := f.db.Where("rarity = ?", domain.RarityCommon).
		Delete(&entities.RewardPoolItem{}).Error; err != nil {
		t.Fatalf("empty pool: %v", err)
	}

	_, err := f.service.Spin(ctx, f.userID.String(), f.machineID, domain.SpinRequest{
		IdempotencyKey: "spin-key-0014",
	})
	if err != domain.ErrBrokenRewardPool {
		t.Fatalf("expected ErrBrokenRewardPool, got %v", err)
	}

	if f.balance(t).BalancePoint != 100 {
		t.Fatalf("stake kept on failed draw")
	}
	var spinCount, ledgerCount int64
	f.db.Model(&entities.Spin{}).Count(&spinCount)
	f.db.Model(&entities.WalletTransaction{}).Count(&ledgerCount)
	if spinCount != 0 || ledgerCount != 0 {
		t.Fatalf("failed draw left rows: spins=%d ledger=%d", spinCount, ledgerCount)
	}
}

func TestSpin_MachineGuards(t *testing.T) {
	f := newFixture(t, 100, 0, false)
	ctx := context.Background()

	if err := f.db.Model(&entities.Machine{}).
		Where("id = ?", f.machineID).
		UpdateColumn("is_active", false).Error; err != nil {
		t.Fatalf("deactivate machine: %v", err)
	}
	_, err := f.service.Spin(ctx, f.userID.String(), f.machineID, domain.SpinRequest{
		IdempotencyKey: "spin-key-0012",
	})
	if err != domain.ErrMachineUnavailable {
		t.Fatalf("expected ErrMachineUnavailable, got %v", err)
	}

	_, err = f.service.Spin(ctx, f.userID.String(), uuid.New().String(), domain.SpinRequest{
		IdempotencyKey: "spin-key-0013",
	})
	if err != domain.ErrMachineNotFound {
		t.Fatalf("expected ErrMachineNotFound, got %v", err)
	}
}
