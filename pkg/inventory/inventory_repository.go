package inventory

import (
	"context"
	"errors"

	"Pointspin-Backend/domain"
	"Pointspin-Backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	InventoryRepository interface {
		WithTx(tx *gorm.DB) InventoryRepository

		GetRewardByID(ctx context.Context, id uuid.UUID) (*entities.RewardCatalog, error)
		ListRewards(ctx context.Context) ([]*entities.RewardCatalog, error)
		CreateReward(ctx context.Context, reward *entities.RewardCatalog) error
		SaveReward(ctx context.Context, reward *entities.RewardCatalog) error

		GetItem(ctx context.Context, userID, rewardID uuid.UUID) (*entities.Inventory, error)
		CreateItem(ctx context.Context, item *entities.Inventory) error
		IncrementQty(ctx context.Context, userID, rewardID uuid.UUID) error
		ListItems(ctx context.Context, userID uuid.UUID, rarity, cursor string, limit int) ([]*entities.Inventory, error)

		UpsertEquip(ctx context.Context, equip *entities.Equip) error
		ListEquips(ctx context.Context, userID uuid.UUID) ([]*entities.Equip, error)
	}

	inventoryRepository struct {
		db *gorm.DB
	}
)

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{
		db: db,
	}
}

func (r *inventoryRepository) WithTx(tx *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: tx}
}

func (r *inventoryRepository) GetRewardByID(ctx context.Context, id uuid.UUID) (*entities.RewardCatalog, error) {
	var reward entities.RewardCatalog
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&reward).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRewardNotFound
		}
		return nil, err
	}
	return &reward, nil
}

func (r *inventoryRepository) ListRewards(ctx context.Context) ([]*entities.RewardCatalog, error) {
	var rewards []*entities.RewardCatalog
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&rewards).Error; err != nil {
		return nil, err
	}
	return rewards, nil
}

func (r *inventoryRepository) CreateReward(ctx context.Context, reward *entities.RewardCatalog) error {
	return r.db.WithContext(ctx).Create(reward).Error
}

func (r *inventoryRepository) SaveReward(ctx context.Context, reward *entities.RewardCatalog) error {
	return r.db.WithContext(ctx).Save(reward).Error
}

func (r *inventoryRepository) GetItem(ctx context.Context, userID, rewardID uuid.UUID) (*entities.Inventory, error) {
	var item entities.Inventory
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND reward_catalog_id = ?", userID, rewardID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) CreateItem(ctx context.Context, item *entities.Inventory) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *inventoryRepository) IncrementQty(ctx context.Context, userID, rewardID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&entities.Inventory{}).
		Where("user_id = ? AND reward_catalog_id = ?", userID, rewardID).
		UpdateColumn("qty", gorm.Expr("qty + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return domain.ErrItemNotOwned
	}
	return nil
}

func (r *inventoryRepository) ListItems(ctx context.Context, userID uuid.UUID, rarity, cursor string, limit int) ([]*entities.Inventory, error) {
	query := r.db.WithContext(ctx).
		Preload("RewardCatalog").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC")

	if rarity != "" {
		query = query.Where(
			"reward_catalog_id IN (?)",
			r.db.Model(&entities.RewardCatalog{}).Select("id").Where("rarity = ?", rarity),
		)
	}

	if cursor != "" {
		var pivot entities.Inventory
		if err := r.db.WithContext(ctx).
			Where("id = ?", cursor).
			First(&pivot).Error; err == nil {
			query = query.Where(
				"created_at < ? OR (created_at = ? AND id < ?)",
				pivot.CreatedAt, pivot.CreatedAt, pivot.ID,
			)
		}
	}

	var items []*entities.Inventory
	if err := query.Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *inventoryRepository) UpsertEquip(ctx context.Context, equip *entities.Equip) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "slot_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"reward_catalog_id", "updated_at"}),
		}).
		Create(equip).Error
}

func (r *inventoryRepository) ListEquips(ctx context.Context, userID uuid.UUID) ([]*entities.Equip, error) {
	var equips []*entities.Equip
	if err := r.db.WithContext(ctx).
		Preload("RewardCatalog").
		Where("user_id = ?", userID).
		Order("slot_key ASC").
		Find(&equips).Error; err != nil {
		return nil, err
	}
	return equips, nil
}
