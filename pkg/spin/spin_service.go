package spin

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"Pointspin-Backend/domain"
	"Pointspin-Backend/entities"
	"Pointspin-Backend/internal/utils"
	"Pointspin-Backend/pkg/inventory"
	"Pointspin-Backend/pkg/machine"
	"Pointspin-Backend/pkg/ratelimit"
	"Pointspin-Backend/pkg/selector"
	"Pointspin-Backend/pkg/wallet"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxSpinAttempts = 3

type (
	SpinService interface {
		// Spin runs one complete spin: rate gate, idempotency check, stake,
		// two-stage weighted draw, inventory grant and ledger entry. All
		// state changes of one spin commit or roll back together.
		Spin(ctx context.Context, userID, machineID string, req domain.SpinRequest) (*domain.SpinResult, error)
		History(ctx context.Context, userID string, limit int) ([]*entities.Spin, error)
	}

	spinService struct {
		db                *gorm.DB
		spinRepository    SpinRepository
		machineRepository machine.MachineRepository
		walletService     wallet.WalletService
		inventoryService  inventory.InventoryService
		limiter           ratelimit.Limiter
		source            selector.Source
		dustPoints        int64
	}
)

func NewSpinService(
	db *gorm.DB,
	spinRepository SpinRepository,
	machineRepository machine.MachineRepository,
	walletService wallet.WalletService,
	inventoryService inventory.InventoryService,
	limiter ratelimit.Limiter,
	source selector.Source,
	dustPoints int64,
) SpinService {
	return &spinService{
		db:                db,
		spinRepository:    spinRepository,
		machineRepository: machineRepository,
		walletService:     walletService,
		inventoryService:  inventoryService,
		limiter:           limiter,
		source:            source,
		dustPoints:        dustPoints,
	}
}

func (s *spinService) Spin(ctx context.Context, userID, machineID string, req domain.SpinRequest) (*domain.SpinResult, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	mid, err := uuid.Parse(machineID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	allowed, err := s.limiter.Allow(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, domain.ErrRateLimited
	}

	var result *domain.SpinResult
	for attempt := 0; attempt < maxSpinAttempts; attempt++ {
		result, err = s.attempt(ctx, uid, mid, req)
		if err == nil {
			return result, nil
		}
		if !isContention(err) {
			return nil, err
		}
		time.Sleep(time.Duration(attempt+1) * 25 * time.Millisecond)
	}
	return nil, err
}

func (s *spinService) attempt(ctx context.Context, userID, machineID uuid.UUID, req domain.SpinRequest) (*domain.SpinResult, error) {
	var result *domain.SpinResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		spinRepo := s.spinRepository.WithTx(tx)
		machineRepo := s.machineRepository.WithTx(tx)

		existing, err := spinRepo.FindByIdempotencyKey(ctx, userID, req.IdempotencyKey)
		if err != nil {
			return err
		}
		if existing != nil {
			result, err = s.replayResult(ctx, tx, userID, existing)
			return err
		}

		mach, err := machineRepo.GetMachineByID(ctx, machineID)
		if err != nil {
			return err
		}
		if !mach.IsActive {
			return domain.ErrMachineUnavailable
		}

		version, err := machineRepo.GetActiveVersion(ctx, machineID)
		if err != nil {
			return err
		}

		// The spin id doubles as the ledger reference, so it is fixed
		// before the stake is taken.
		spinID := uuid.New()
		costPoint := mach.CostPerSpin

		if req.UseTicket {
			if !mach.TicketAllowed {
				return domain.ErrTicketsNotAllowed
			}
			if err := s.walletService.ConsumeTicket(ctx, tx, userID); err != nil {
				return err
			}
			costPoint = 0
			meta := utils.JSONString(map[string]any{"ticket": true})
			if err := s.walletService.Record(ctx, tx, userID, domain.TransactionTypeSpend, 0, domain.RefTypeSpin, spinID.String(), meta); err != nil {
				return err
			}
		} else {
			meta := utils.JSONString(map[string]any{"machine_id": machineID.String()})
			if err := s.walletService.Debit(ctx, tx, userID, int64(costPoint), domain.RefTypeSpin, spinID.String(), meta); err != nil {
				return err
			}
		}

		rarity, reward, err := s.draw(version)
		if err != nil {
			return err
		}

		acquired, err := s.inventoryService.Acquire(ctx, tx, userID, reward)
		if err != nil {
			return err
		}
		if acquired.Duplicate {
			meta := utils.JSONString(map[string]any{
				"reason":            "duplicate_dust",
				"reward_catalog_id": reward.ID.String(),
			})
			if err := s.walletService.Credit(ctx, tx, userID, s.dustPoints, domain.TransactionTypeReward, domain.RefTypeSpin, spinID.String(), meta); err != nil {
				return err
			}
		}

		spin := &entities.Spin{
			ID:                    spinID,
			UserID:                userID,
			MachineID:             machineID,
			ProbabilityVersionID:  version.ID,
			CostPoint:             costPoint,
			UsedTicket:            req.UseTicket,
			ResultRarity:          rarity,
			ResultRewardCatalogID: reward.ID,
			IdempotencyKey:        req.IdempotencyKey,
		}
		if err := spinRepo.CreateSpin(ctx, spin); err != nil {
			return err
		}

		balance, err := s.walletService.Balance(ctx, tx, userID)
		if err != nil {
			return err
		}

		result = &domain.SpinResult{
			SpinID: spinID.String(),
			Rarity: rarity,
			Reward: domain.SpinReward{
				ID:        reward.ID.String(),
				Type:      reward.Type,
				Name:      reward.Name,
				Rarity:    reward.Rarity,
				Stackable: reward.Stackable,
				ImageURL:  reward.ImageURL,
			},
			BalancePoint:  balance.BalancePoint,
			TicketBalance: balance.TicketBalance,
			InventoryDelta: domain.SpinInventoryDelta{
				RewardCatalogID: reward.ID.String(),
				Qty:             acquired.Delta,
			},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// replayResult rebuilds the response for a spin that already committed.
// Nothing is re-applied, the stored outcome is returned as-is.
func (s *spinService) replayResult(ctx context.Context, tx *gorm.DB, userID uuid.UUID, spin *entities.Spin) (*domain.SpinResult, error) {
	balance, err := s.walletService.Balance(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	result := &domain.SpinResult{
		SpinID:           spin.ID.String(),
		IdempotentReplay: true,
		Rarity:           spin.ResultRarity,
		BalancePoint:     balance.BalancePoint,
		TicketBalance:    balance.TicketBalance,
		InventoryDelta: domain.SpinInventoryDelta{
			RewardCatalogID: spin.ResultRewardCatalogID.String(),
		},
	}
	if spin.ResultRewardCatalog != nil {
		result.Reward = domain.SpinReward{
			ID:        spin.ResultRewardCatalog.ID.String(),
			Type:      spin.ResultRewardCatalog.Type,
			Name:      spin.ResultRewardCatalog.Name,
			Rarity:    spin.ResultRewardCatalog.Rarity,
			Stackable: spin.ResultRewardCatalog.Stackable,
			ImageURL:  spin.ResultRewardCatalog.ImageURL,
		}
	}
	return result, nil
}

// draw picks the rarity first, then one item from that rarity's pool. Both
// stages walk their sets in a stable order so a given roll always lands on
// the same entry.
func (s *spinService) draw(version *entities.ProbabilityVersion) (string, *entities.RewardCatalog, error) {
	weightByRarity := make(map[string]int, len(version.RarityWeights))
	for _, weight := range version.RarityWeights {
		weightByRarity[weight.Rarity] = weight.Weight
	}

	rarities := make([]selector.Weighted[string], 0, len(weightByRarity))
	for _, rarity := range domain.Rarities {
		if weight, ok := weightByRarity[rarity]; ok {
			rarities = append(rarities, selector.Weighted[string]{Item: rarity, Weight: weight})
		}
	}

	rarity, err := selector.Pick(s.source, rarities)
	if err != nil {
		return "", nil, err
	}

	var pool []*entities.RewardPoolItem
	for _, item := range version.RewardPoolItems {
		if item.Rarity == rarity {
			pool = append(pool, item)
		}
	}
	if len(pool) == 0 {
		return "", nil, domain.ErrBrokenRewardPool
	}
	sort.Slice(pool, func(i, j int) bool {
		return pool[i].RewardCatalogID.String() < pool[j].RewardCatalogID.String()
	})

	weighted := make([]selector.Weighted[*entities.RewardPoolItem], 0, len(pool))
	for _, item := range pool {
		weighted = append(weighted, selector.Weighted[*entities.RewardPoolItem]{Item: item, Weight: item.Weight})
	}

	picked, err := selector.Pick(s.source, weighted)
	if err != nil {
		return "", nil, err
	}
	if picked.RewardCatalog == nil {
		return "", nil, domain.ErrBrokenRewardPool
	}
	return rarity, picked.RewardCatalog, nil
}

func (s *spinService) History(ctx context.Context, userID string, limit int) ([]*entities.Spin, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.spinRepository.ListByUser(ctx, uid, limit)
}

// isContention reports whether a transaction failed on a transient conflict
// worth retrying: serialization failures and deadlocks under postgres, lock
// contention under sqlite, and the unique-key race when two requests carry
// the same idempotency key.
func isContention(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "could not serialize") ||
		strings.Contains(msg, "deadlock detected") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "sqlite_busy") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint failed: spins")
}
