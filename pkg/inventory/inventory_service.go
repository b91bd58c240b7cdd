package inventory

import (
	"context"
	"log"
	"mime/multipart"

	"Pointspin-Backend/domain"
	"Pointspin-Backend/entities"
	"Pointspin-Backend/internal/utils/storage"
	"Pointspin-Backend/pkg/audit"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	InventoryService interface {
		// Acquire applies one won reward to the user's inventory inside the
		// caller's transaction. Stackables stack, first-time items create a
		// row, and a non-stackable duplicate is reported back so the caller
		// can convert it to points instead.
		Acquire(ctx context.Context, tx *gorm.DB, userID uuid.UUID, reward *entities.RewardCatalog) (*domain.AcquireResult, error)

		ListInventory(ctx context.Context, userID string, rarity, cursor string, limit int) (*domain.InventoryList, error)
		Equip(ctx context.Context, userID string, req domain.EquipRequest) error
		ListEquips(ctx context.Context, userID string) ([]*entities.Equip, error)

		GetReward(ctx context.Context, rewardID string) (*entities.RewardCatalog, error)
		ListRewards(ctx context.Context) ([]*entities.RewardCatalog, error)
		CreateReward(ctx context.Context, req domain.CreateRewardRequest, actorID string) (*entities.RewardCatalog, error)
		UpdateReward(ctx context.Context, rewardID string, req domain.UpdateRewardRequest, actorID string) (*entities.RewardCatalog, error)
		UploadRewardImage(ctx context.Context, rewardID string, file *multipart.FileHeader, actorID string) (*entities.RewardCatalog, error)
	}

	inventoryService struct {
		inventoryRepository InventoryRepository
		auditService        audit.AuditService
		s3                  *storage.AwsS3
	}
)

func NewInventoryService(inventoryRepository InventoryRepository, auditService audit.AuditService, s3 *storage.AwsS3) InventoryService {
	return &inventoryService{
		inventoryRepository: inventoryRepository,
		auditService:        auditService,
		s3:                  s3,
	}
}

func (s *inventoryService) Acquire(ctx context.Context, tx *gorm.DB, userID uuid.UUID, reward *entities.RewardCatalog) (*domain.AcquireResult, error) {
	repo := s.inventoryRepository.WithTx(tx)

	item, err := repo.GetItem(ctx, userID, reward.ID)
	if err != nil {
		return nil, err
	}

	if item == nil {
		err := repo.CreateItem(ctx, &entities.Inventory{
			UserID:          userID,
			RewardCatalogID: reward.ID,
			Qty:             1,
		})
		if err != nil {
			return nil, err
		}
		return &domain.AcquireResult{Delta: 1}, nil
	}

	if reward.Stackable {
		if err := repo.IncrementQty(ctx, userID, reward.ID); err != nil {
			return nil, err
		}
		return &domain.AcquireResult{Delta: 1, Stacked: true}, nil
	}

	return &domain.AcquireResult{Duplicate: true}, nil
}

func rewardView(reward *entities.RewardCatalog) domain.SpinReward {
	return domain.SpinReward{
		ID:        reward.ID.String(),
		Type:      reward.Type,
		Name:      reward.Name,
		Rarity:    reward.Rarity,
		Stackable: reward.Stackable,
		ImageURL:  reward.ImageURL,
	}
}

func (s *inventoryService) ListInventory(ctx context.Context, userID string, rarity, cursor string, limit int) (*domain.InventoryList, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	if limit < 1 || limit > 100 {
		limit = 20
	}

	items, err := s.inventoryRepository.ListItems(ctx, uid, rarity, cursor, limit)
	if err != nil {
		return nil, err
	}

	list := &domain.InventoryList{Items: make([]*domain.InventoryItem, 0, len(items))}
	for _, item := range items {
		view := &domain.InventoryItem{
			ID:         item.ID.String(),
			Qty:        item.Qty,
			ObtainedAt: item.CreatedAt,
		}
		if item.RewardCatalog != nil {
			view.Reward = rewardView(item.RewardCatalog)
		}
		list.Items = append(list.Items, view)
	}
	if len(items) == limit {
		list.NextCursor = items[len(items)-1].ID.String()
	}
	return list, nil
}

func (s *inventoryService) Equip(ctx context.Context, userID string, req domain.EquipRequest) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}
	rewardID, err := uuid.Parse(req.RewardCatalogID)
	if err != nil {
		return domain.ErrParseUUID
	}

	item, err := s.inventoryRepository.GetItem(ctx, uid, rewardID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrItemNotOwned
	}

	return s.inventoryRepository.UpsertEquip(ctx, &entities.Equip{
		UserID:          uid,
		SlotKey:         req.SlotKey,
		RewardCatalogID: rewardID,
	})
}

func (s *inventoryService) ListEquips(ctx context.Context, userID string) ([]*entities.Equip, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	return s.inventoryRepository.ListEquips(ctx, uid)
}

func (s *inventoryService) GetReward(ctx context.Context, rewardID string) (*entities.RewardCatalog, error) {
	id, err := uuid.Parse(rewardID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	return s.inventoryRepository.GetRewardByID(ctx, id)
}

func (s *inventoryService) ListRewards(ctx context.Context) ([]*entities.RewardCatalog, error) {
	return s.inventoryRepository.ListRewards(ctx)
}

func (s *inventoryService) CreateReward(ctx context.Context, req domain.CreateRewardRequest, actorID string) (*entities.RewardCatalog, error) {
	reward := &entities.RewardCatalog{
		Type:      req.Type,
		Name:      req.Name,
		Rarity:    req.Rarity,
		Stackable: req.Stackable,
		Meta:      req.Meta,
	}
	if err := s.inventoryRepository.CreateReward(ctx, reward); err != nil {
		return nil, err
	}

	s.auditService.Record(ctx, actorID, "REWARD_CREATE", "REWARD_CATALOG", reward.ID.String(), "")
	return reward, nil
}

func (s *inventoryService) UpdateReward(ctx context.Context, rewardID string, req domain.UpdateRewardRequest, actorID string) (*entities.RewardCatalog, error) {
	id, err := uuid.Parse(rewardID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	reward, err := s.inventoryRepository.GetRewardByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Type != nil {
		reward.Type = *req.Type
	}
	if req.Name != nil {
		reward.Name = *req.Name
	}
	if req.Rarity != nil {
		reward.Rarity = *req.Rarity
	}
	if req.Stackable != nil {
		reward.Stackable = *req.Stackable
	}
	if req.Meta != nil {
		reward.Meta = *req.Meta
	}

	if err := s.inventoryRepository.SaveReward(ctx, reward); err != nil {
		return nil, err
	}

	s.auditService.Record(ctx, actorID, "REWARD_UPDATE", "REWARD_CATALOG", reward.ID.String(), "")
	return reward, nil
}

func (s *inventoryService) UploadRewardImage(ctx context.Context, rewardID string, file *multipart.FileHeader, actorID string) (*entities.RewardCatalog, error) {
	id, err := uuid.Parse(rewardID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	reward, err := s.inventoryRepository.GetRewardByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.s3.AllowImage(file.Filename) {
		return nil, domain.ErrInvalidImageType
	}

	key, err := s.s3.UploadFile(file, "rewards")
	if err != nil {
		return nil, err
	}

	replaced := reward.ImageURL
	reward.ImageURL = s.s3.GetPublicLinkKey(key)
	if err := s.inventoryRepository.SaveReward(ctx, reward); err != nil {
		return nil, err
	}

	// The old object is orphaned once the row points at the new one.
	if oldKey := s.s3.KeyFromPublicLink(replaced); oldKey != "" {
		if err := s.s3.DeleteFile(oldKey); err != nil {
			log.Printf("inventory: failed to delete replaced reward image %s: %v", oldKey, err)
		}
	}

	s.auditService.Record(ctx, actorID, "REWARD_IMAGE_UPLOAD", "REWARD_CATALOG", reward.ID.String(), "")
	return reward, nil
}
