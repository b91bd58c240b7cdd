package machine

import (
	"context"
	"fmt"

	"Pointspin-Backend/domain"
	"Pointspin-Backend/entities"
	"Pointspin-Backend/pkg/audit"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	MachineService interface {
		CreateMachine(ctx context.Context, req domain.CreateMachineRequest, actorID string) (*domain.MachineSummary, error)
		UpdateMachine(ctx context.Context, machineID string, req domain.UpdateMachineRequest, actorID string) (*domain.MachineSummary, error)
		GetMachine(ctx context.Context, machineID string) (*domain.MachineSummary, error)
		ListMachines(ctx context.Context, activeOnly bool) ([]*domain.MachineSummary, error)

		CreateDraft(ctx context.Context, machineID string, req domain.CreateProbabilityVersionRequest, actorID string) (*entities.ProbabilityVersion, error)
		ListVersions(ctx context.Context, machineID string) ([]*entities.ProbabilityVersion, error)
		GetVersion(ctx context.Context, versionID string) (*entities.ProbabilityVersion, error)
		Publish(ctx context.Context, machineID, versionID, actorID string) (*domain.PublishResult, error)

		ActiveConfiguration(ctx context.Context, machineID string) (*entities.Machine, *entities.ProbabilityVersion, error)
	}

	machineService struct {
		db                *gorm.DB
		machineRepository MachineRepository
		auditService      audit.AuditService
	}
)

func NewMachineService(db *gorm.DB, machineRepository MachineRepository, auditService audit.AuditService) MachineService {
	return &machineService{
		db:                db,
		machineRepository: machineRepository,
		auditService:      auditService,
	}
}

func toSummary(machine *entities.Machine) *domain.MachineSummary {
	return &domain.MachineSummary{
		ID:            machine.ID.String(),
		Name:          machine.Name,
		ThemeKey:      machine.ThemeKey,
		CostPerSpin:   machine.CostPerSpin,
		TicketAllowed: machine.TicketAllowed,
		IsActive:      machine.IsActive,
	}
}

func (s *machineService) CreateMachine(ctx context.Context, req domain.CreateMachineRequest, actorID string) (*domain.MachineSummary, error) {
	machine := &entities.Machine{
		Name:          req.Name,
		ThemeKey:      req.ThemeKey,
		CostPerSpin:   req.CostPerSpin,
		TicketAllowed: req.TicketAllowed,
		IsActive:      req.IsActive,
	}
	if err := s.machineRepository.CreateMachine(ctx, machine); err != nil {
		return nil, err
	}

	s.auditService.Record(ctx, actorID, "MACHINE_CREATE", "MACHINE", machine.ID.String(), "")
	return toSummary(machine), nil
}

func (s *machineService) UpdateMachine(ctx context.Context, machineID string, req domain.UpdateMachineRequest, actorID string) (*domain.MachineSummary, error) {
	id, err := uuid.Parse(machineID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	machine, err := s.machineRepository.GetMachineByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		machine.Name = *req.Name
	}
	if req.ThemeKey != nil {
		machine.ThemeKey = *req.ThemeKey
	}
	if req.CostPerSpin != nil {
		machine.CostPerSpin = *req.CostPerSpin
	}
	if req.TicketAllowed != nil {
		machine.TicketAllowed = *req.TicketAllowed
	}
	if req.IsActive != nil {
		machine.IsActive = *req.IsActive
	}

	if err := s.machineRepository.SaveMachine(ctx, machine); err != nil {
		return nil, err
	}

	s.auditService.Record(ctx, actorID, "MACHINE_UPDATE", "MACHINE", machine.ID.String(), "")
	return toSummary(machine), nil
}

func (s *machineService) GetMachine(ctx context.Context, machineID string) (*domain.MachineSummary, error) {
	id, err := uuid.Parse(machineID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	machine, err := s.machineRepository.GetMachineByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSummary(machine), nil
}

func (s *machineService) ListMachines(ctx context.Context, activeOnly bool) ([]*domain.MachineSummary, error) {
	machines, err := s.machineRepository.ListMachines(ctx, activeOnly)
	if err != nil {
		return nil, err
	}

	summaries := make([]*domain.MachineSummary, 0, len(machines))
	for _, machine := range machines {
		summaries = append(summaries, toSummary(machine))
	}
	return summaries, nil
}

// validateConfiguration checks that a weight set walks cleanly: no duplicate
// rarity rows and every weighted rarity has at least one pool entry.
func validateConfiguration(weights []*entities.RarityWeight, pools []*entities.RewardPoolItem) error {
	known := make(map[string]bool, len(domain.Rarities))
	for _, rarity := range domain.Rarities {
		known[rarity] = true
	}

	seen := make(map[string]bool, len(weights))
	for _, weight := range weights {
		if !known[weight.Rarity] || weight.Weight <= 0 {
			return domain.ErrInvalidRarity
		}
		if seen[weight.Rarity] {
			return domain.ErrInvalidRarity
		}
		seen[weight.Rarity] = true
	}
	if len(seen) == 0 {
		return domain.ErrInvalidWeightConfiguration
	}

	pooled := make(map[string]bool, len(pools))
	for _, item := range pools {
		if !seen[item.Rarity] || item.Weight <= 0 {
			return domain.ErrInvalidRarity
		}
		pooled[item.Rarity] = true
	}
	for rarity := range seen {
		if !pooled[rarity] {
			return domain.ErrRarityWithoutPool
		}
	}
	return nil
}

func (s *machineService) CreateDraft(ctx context.Context, machineID string, req domain.CreateProbabilityVersionRequest, actorID string) (*entities.ProbabilityVersion, error) {
	id, err := uuid.Parse(machineID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	version := &entities.ProbabilityVersion{
		MachineID: id,
		Status:    domain.VersionStatusDraft,
		Note:      req.Note,
	}
	for _, weight := range req.RarityWeights {
		version.RarityWeights = append(version.RarityWeights, &entities.RarityWeight{
			Rarity: weight.Rarity,
			Weight: weight.Weight,
		})
	}
	for _, item := range req.PoolItems {
		rewardID, err := uuid.Parse(item.RewardCatalogID)
		if err != nil {
			return nil, domain.ErrParseUUID
		}
		version.RewardPoolItems = append(version.RewardPoolItems, &entities.RewardPoolItem{
			Rarity:          item.Rarity,
			RewardCatalogID: rewardID,
			Weight:          item.Weight,
		})
	}

	if err := validateConfiguration(version.RarityWeights, version.RewardPoolItems); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.machineRepository.WithTx(tx)

		// Serializes version numbering per machine.
		if err := repo.LockMachine(ctx, id); err != nil {
			return err
		}

		max, err := repo.MaxVersionNumber(ctx, id)
		if err != nil {
			return err
		}
		version.VersionNumber = max + 1

		return repo.CreateVersion(ctx, version)
	})
	if err != nil {
		return nil, err
	}

	s.auditService.Record(ctx, actorID, "VERSION_CREATE", "PROBABILITY_VERSION", version.ID.String(),
		fmt.Sprintf(`{"machine_id":%q,"version_number":%d}`, machineID, version.VersionNumber))
	return version, nil
}

func (s *machineService) ListVersions(ctx context.Context, machineID string) ([]*entities.ProbabilityVersion, error) {
	id, err := uuid.Parse(machineID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	if _, err := s.machineRepository.GetMachineByID(ctx, id); err != nil {
		return nil, err
	}
	return s.machineRepository.ListVersions(ctx, id)
}

func (s *machineService) GetVersion(ctx context.Context, versionID string) (*entities.ProbabilityVersion, error) {
	id, err := uuid.Parse(versionID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	return s.machineRepository.GetVersionByID(ctx, id)
}

func (s *machineService) Publish(ctx context.Context, machineID, versionID, actorID string) (*domain.PublishResult, error) {
	mid, err := uuid.Parse(machineID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	vid, err := uuid.Parse(versionID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	var result domain.PublishResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.machineRepository.WithTx(tx)

		// Hold the machine row for the whole archive-publish-repoint step so
		// two admins publishing at once cannot interleave.
		if err := repo.LockMachine(ctx, mid); err != nil {
			return err
		}

		machine, err := repo.GetMachineByID(ctx, mid)
		if err != nil {
			return err
		}

		version, err := repo.GetVersionByID(ctx, vid)
		if err != nil {
			return err
		}
		if version.MachineID != mid {
			return domain.ErrVersionNotFound
		}

		if machine.CurrentProbabilityVersionID != nil &&
			*machine.CurrentProbabilityVersionID == vid &&
			version.Status == domain.VersionStatusPublished {
			result = domain.PublishResult{
				VersionID:        vid.String(),
				AlreadyPublished: true,
				PublishedAt:      version.PublishedAt,
			}
			return nil
		}

		if err := validateConfiguration(version.RarityWeights, version.RewardPoolItems); err != nil {
			return err
		}

		if err := repo.ArchivePublished(ctx, mid); err != nil {
			return err
		}

		now := tx.NowFunc()
		if err := repo.MarkPublished(ctx, vid, now); err != nil {
			return err
		}
		if err := repo.SetCurrentVersion(ctx, mid, vid); err != nil {
			return err
		}

		result = domain.PublishResult{
			VersionID:   vid.String(),
			PublishedAt: &now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.AlreadyPublished {
		s.auditService.Record(ctx, actorID, "VERSION_PUBLISH", "PROBABILITY_VERSION", versionID,
			fmt.Sprintf(`{"machine_id":%q}`, machineID))
	}
	return &result, nil
}

func (s *machineService) ActiveConfiguration(ctx context.Context, machineID string) (*entities.Machine, *entities.ProbabilityVersion, error) {
	id, err := uuid.Parse(machineID)
	if err != nil {
		return nil, nil, domain.ErrParseUUID
	}

	machine, err := s.machineRepository.GetMachineByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !machine.IsActive {
		return nil, nil, domain.ErrMachineUnavailable
	}

	version, err := s.machineRepository.GetActiveVersion(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return machine, version, nil
}
