package machine

import (
	"context"
	"errors"
	"time"

	"Pointspin-Backend/domain"
	"Pointspin-Backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	MachineRepository interface {
		WithTx(tx *gorm.DB) MachineRepository

		CreateMachine(ctx context.Context, machine *entities.Machine) error
		SaveMachine(ctx context.Context, machine *entities.Machine) error
		GetMachineByID(ctx context.Context, id uuid.UUID) (*entities.Machine, error)
		ListMachines(ctx context.Context, activeOnly bool) ([]*entities.Machine, error)

		// LockMachine touches the machine row with a conditional update so
		// concurrent version operations on the same machine serialize on the
		// row lock for the duration of the transaction.
		LockMachine(ctx context.Context, id uuid.UUID) error

		MaxVersionNumber(ctx context.Context, machineID uuid.UUID) (int, error)
		CreateVersion(ctx context.Context, version *entities.ProbabilityVersion) error
		GetVersionByID(ctx context.Context, id uuid.UUID) (*entities.ProbabilityVersion, error)
		ListVersions(ctx context.Context, machineID uuid.UUID) ([]*entities.ProbabilityVersion, error)
		GetActiveVersion(ctx context.Context, machineID uuid.UUID) (*entities.ProbabilityVersion, error)

		ArchivePublished(ctx context.Context, machineID uuid.UUID) error
		MarkPublished(ctx context.Context, versionID uuid.UUID, publishedAt time.Time) error
		SetCurrentVersion(ctx context.Context, machineID, versionID uuid.UUID) error
	}

	machineRepository struct {
		db *gorm.DB
	}
)

func NewMachineRepository(db *gorm.DB) MachineRepository {
	return &machineRepository{
		db: db,
	}
}

func (r *machineRepository) WithTx(tx *gorm.DB) MachineRepository {
	return &machineRepository{db: tx}
}

func (r *machineRepository) CreateMachine(ctx context.Context, machine *entities.Machine) error {
	return r.db.WithContext(ctx).Create(machine).Error
}

func (r *machineRepository) SaveMachine(ctx context.Context, machine *entities.Machine) error {
	return r.db.WithContext(ctx).Save(machine).Error
}

func (r *machineRepository) GetMachineByID(ctx context.Context, id uuid.UUID) (*entities.Machine, error) {
	var machine entities.Machine
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&machine).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMachineNotFound
		}
		return nil, err
	}
	return &machine, nil
}

func (r *machineRepository) ListMachines(ctx context.Context, activeOnly bool) ([]*entities.Machine, error) {
	query := r.db.WithContext(ctx).Order("created_at ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var machines []*entities.Machine
	if err := query.Find(&machines).Error; err != nil {
		return nil, err
	}
	return machines, nil
}

func (r *machineRepository) LockMachine(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&entities.Machine{}).
		Where("id = ?", id).
		UpdateColumn("updated_at", time.Now())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return domain.ErrMachineNotFound
	}
	return nil
}

func (r *machineRepository) MaxVersionNumber(ctx context.Context, machineID uuid.UUID) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&entities.ProbabilityVersion{}).
		Where("machine_id = ?", machineID).
		Select("COALESCE(MAX(version_number), 0)").
		Scan(&max).Error
	return max, err
}

func (r *machineRepository) CreateVersion(ctx context.Context, version *entities.ProbabilityVersion) error {
	return r.db.WithContext(ctx).Create(version).Error
}

func (r *machineRepository) GetVersionByID(ctx context.Context, id uuid.UUID) (*entities.ProbabilityVersion, error) {
	var version entities.ProbabilityVersion
	if err := r.db.WithContext(ctx).
		Preload("RarityWeights").
		Preload("RewardPoolItems").
		Preload("RewardPoolItems.RewardCatalog").
		Where("id = ?", id).
		First(&version).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrVersionNotFound
		}
		return nil, err
	}
	return &version, nil
}

func (r *machineRepository) ListVersions(ctx context.Context, machineID uuid.UUID) ([]*entities.ProbabilityVersion, error) {
	var versions []*entities.ProbabilityVersion
	if err := r.db.WithContext(ctx).
		Where("machine_id = ?", machineID).
		Order("version_number DESC").
		Find(&versions).Error; err != nil {
		return nil, err
	}
	return versions, nil
}

func (r *machineRepository) GetActiveVersion(ctx context.Context, machineID uuid.UUID) (*entities.ProbabilityVersion, error) {
	machine, err := r.GetMachineByID(ctx, machineID)
	if err != nil {
		return nil, err
	}
	if machine.CurrentProbabilityVersionID == nil {
		return nil, domain.ErrNoActiveConfiguration
	}

	version, err := r.GetVersionByID(ctx, *machine.CurrentProbabilityVersionID)
	if err != nil {
		if errors.Is(err, domain.ErrVersionNotFound) {
			return nil, domain.ErrNoActiveConfiguration
		}
		return nil, err
	}
	if version.Status != domain.VersionStatusPublished {
		return nil, domain.ErrNoActiveConfiguration
	}
	return version, nil
}

func (r *machineRepository) ArchivePublished(ctx context.Context, machineID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entities.ProbabilityVersion{}).
		Where("machine_id = ? AND status = ?", machineID, domain.VersionStatusPublished).
		UpdateColumn("status", domain.VersionStatusArchived).Error
}

func (r *machineRepository) MarkPublished(ctx context.Context, versionID uuid.UUID, publishedAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&entities.ProbabilityVersion{}).
		Where("id = ?", versionID).
		UpdateColumns(map[string]any{
			"status":       domain.VersionStatusPublished,
			"published_at": publishedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return domain.ErrVersionNotFound
	}
	return nil
}

func (r *machineRepository) SetCurrentVersion(ctx context.Context, machineID, versionID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&entities.Machine{}).
		Where("id = ?", machineID).
		UpdateColumn("current_probability_version_id", versionID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return domain.ErrMachineNotFound
	}
	return nil
}
