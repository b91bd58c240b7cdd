package machine

import (
	"context"
	"testing"

	"Pointspin-Backend/domain"
	"Pointspin-Backend/entities"
	"Pointspin-Backend/pkg/audit"

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

func newService(t *testing.T, db *gorm.DB) MachineService {
	t.Helper()
	auditService := audit.NewAuditService(audit.NewAuditRepository(db))
	return NewMachineService(db, NewMachineRepository(db), auditService)
}

func seedReward(t *testing.T, db *gorm.DB, rarity string) *entities.RewardCatalog {
	t.Helper()
	reward := &entities.RewardCatalog{
		Type:      domain.RewardTypeCosmetic,
		Name:      "reward-" + uuid.New().String()[:8],
		Rarity:    rarity,
		Stackable: false,
	}
	if err := db.Create(reward).Error; err != nil {
		t.Fatalf("seed reward: %v", err)
	}
	return reward
}

func draftRequest(rewards map[string]*entities.RewardCatalog) domain.CreateProbabilityVersionRequest {
	req := domain.CreateProbabilityVersionRequest{
		RarityWeights: []domain.RarityWeightInput{
			{Rarity: domain.RarityCommon, Weight: 8000},
			{Rarity: domain.RarityRare, Weight: 1700},
			{Rarity: domain.RarityEpic, Weight: 280},
			{Rarity: domain.RarityLegendary, Weight: 20},
		},
	}
	for rarity, reward := range rewards {
		req.PoolItems = append(req.PoolItems, domain.RewardPoolItemInput{
			Rarity:          rarity,
			RewardCatalogID: reward.ID.String(),
			Weight:          100,
		})
	}
	return req
}

func seedFullDraft(t *testing.T, db *gorm.DB, svc MachineService, actorID string) (*domain.MachineSummary, *entities.ProbabilityVersion) {
	t.Helper()
	ctx := context.Background()

	summary, err := svc.CreateMachine(ctx, domain.CreateMachineRequest{
		Name:        "Neon Gacha",
		ThemeKey:    "neon",
		CostPerSpin: 100,
		IsActive:    true,
	}, actorID)
	if err != nil {
		t.Fatalf("create machine: %v", err)
	}

	rewards := map[string]*entities.RewardCatalog{
		domain.RarityCommon:    seedReward(t, db, domain.RarityCommon),
		domain.RarityRare:      seedReward(t, db, domain.RarityRare),
		domain.RarityEpic:      seedReward(t, db, domain.RarityEpic),
		domain.RarityLegendary: seedReward(t, db, domain.RarityLegendary),
	}
	version, err := svc.CreateDraft(ctx, summary.ID, draftRequest(rewards), actorID)
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}
	return summary, version
}

func TestCreateDraft_AssignsSequentialVersionNumbers(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)
	actorID := uuid.New().String()
	ctx := context.Background()

	summary, first := seedFullDraft(t, db, svc, actorID)
	if first.VersionNumber != 1 {
		t.Fatalf("expected version 1, got %d", first.VersionNumber)
	}
	if first.Status != domain.VersionStatusDraft {
		t.Fatalf("expected DRAFT, got %s", first.Status)
	}

	rewards := map[string]*entities.RewardCatalog{
		domain.RarityCommon:    seedReward(t, db, domain.RarityCommon),
		domain.RarityRare:      seedReward(t, db, domain.RarityRare),
		domain.RarityEpic:      seedReward(t, db, domain.RarityEpic),
		domain.RarityLegendary: seedReward(t, db, domain.RarityLegendary),
	}
	second, err := svc.CreateDraft(ctx, summary.ID, draftRequest(rewards), actorID)
	if err != nil {
		t.Fatalf("second draft: %v", err)
	}
	if second.VersionNumber != 2 {
		t.Fatalf("expected version 2, got %d", second.VersionNumber)
	}
}

func TestCreateDraft_RejectsBrokenConfigurations(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)
	actorID := uuid.New().String()
	ctx := context.Background()

	summary, err := svc.CreateMachine(ctx, domain.CreateMachineRequest{
		Name:        "Broken Box",
		ThemeKey:    "broken",
		CostPerSpin: 100,
	}, actorID)
	if err != nil {
		t.Fatalf("create machine: %v", err)
	}
	reward := seedReward(t, db, domain.RarityCommon)

	tests := []struct {
		name string
		req  domain.CreateProbabilityVersionRequest
		want error
	}{
		{
			name: "duplicate rarity weight",
			req: domain.CreateProbabilityVersionRequest{
				RarityWeights: []domain.RarityWeightInput{
					{Rarity: domain.RarityCommon, Weight: 50},
					{Rarity: domain.RarityCommon, Weight: 50},
				},
				PoolItems: []domain.RewardPoolItemInput{
					{Rarity: domain.RarityCommon, RewardCatalogID: reward.ID.String(), Weight: 1},
				},
			},
			want: domain.ErrInvalidRarity,
		},
		{
			name: "weighted rarity without pool",
			req: domain.CreateProbabilityVersionRequest{
				RarityWeights: []domain.RarityWeightInput{
					{Rarity: domain.RarityCommon, Weight: 50},
					{Rarity: domain.RarityRare, Weight: 50},
				},
				PoolItems: []domain.RewardPoolItemInput{
					{Rarity: domain.RarityCommon, RewardCatalogID: reward.ID.String(), Weight: 1},
				},
			},
			want: domain.ErrRarityWithoutPool,
		},
		{
			name: "pool item outside weighted rarities",
			req: domain.CreateProbabilityVersionRequest{
				RarityWeights: []domain.RarityWeightInput{
					{Rarity: domain.RarityRare, Weight: 50},
				},
				PoolItems: []domain.RewardPoolItemInput{
					{Rarity: domain.RarityCommon, RewardCatalogID: reward.ID.String(), Weight: 1},
				},
			},
			want: domain.ErrInvalidRarity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateDraft(ctx, summary.ID, tt.req, actorID)
			if err != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestPublish_RepointsMachineAndArchivesPrevious(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)
	actorID := uuid.New().String()
	ctx := context.Background()

	summary, first := seedFullDraft(t, db, svc, actorID)

	result, err := svc.Publish(ctx, summary.ID, first.ID.String(), actorID)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if result.AlreadyPublished || result.PublishedAt == nil {
		t.Fatalf("unexpected publish result: %+v", result)
	}

	mach, version, err := svc.ActiveConfiguration(ctx, summary.ID)
	if err != nil {
		t.Fatalf("active configuration: %v", err)
	}
	if mach.CurrentProbabilityVersionID == nil || *mach.CurrentProbabilityVersionID != first.ID {
		t.Fatalf("machine does not point at published version")
	}
	if version.Status != domain.VersionStatusPublished {
		t.Fatalf("expected PUBLISHED, got %s", version.Status)
	}

	// Publishing a second version archives the first.
	rewards := map[string]*entities.RewardCatalog{
		domain.RarityCommon:    seedReward(t, db, domain.RarityCommon),
		domain.RarityRare:      seedReward(t, db, domain.RarityRare),
		domain.RarityEpic:      seedReward(t, db, domain.RarityEpic),
		domain.RarityLegendary: seedReward(t, db, domain.RarityLegendary),
	}
	second, err := svc.CreateDraft(ctx, summary.ID, draftRequest(rewards), actorID)
	if err != nil {
		t.Fatalf("second draft: %v", err)
	}
	if _, err := svc.Publish(ctx, summary.ID, second.ID.String(), actorID); err != nil {
		t.Fatalf("publish second: %v", err)
	}

	archived, err := svc.GetVersion(ctx, first.ID.String())
	if err != nil {
		t.Fatalf("get first version: %v", err)
	}
	if archived.Status != domain.VersionStatusArchived {
		t.Fatalf("expected first version ARCHIVED, got %s", archived.Status)
	}

	_, active, err := svc.ActiveConfiguration(ctx, summary.ID)
	if err != nil {
		t.Fatalf("active configuration: %v", err)
	}
	if active.ID != second.ID {
		t.Fatalf("active version not repointed")
	}
}

func TestPublish_IsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)
	actorID := uuid.New().String()
	ctx := context.Background()

	summary, version := seedFullDraft(t, db, svc, actorID)

	first, err := svc.Publish(ctx, summary.ID, version.ID.String(), actorID)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	replay, err := svc.Publish(ctx, summary.ID, version.ID.String(), actorID)
	if err != nil {
		t.Fatalf("republish: %v", err)
	}
	if !replay.AlreadyPublished {
		t.Fatalf("expected AlreadyPublished on replay")
	}
	if replay.PublishedAt == nil {
		t.Fatalf("replay lost published timestamp")
	}
	_ = first
}

func TestPublish_RejectsForeignVersion(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)
	actorID := uuid.New().String()
	ctx := context.Background()

	_, versionA := seedFullDraft(t, db, svc, actorID)
	summaryB, _ := seedFullDraft(t, db, svc, actorID)

	_, err := svc.Publish(ctx, summaryB.ID, versionA.ID.String(), actorID)
	if err != domain.ErrVersionNotFound {
		t.Fatalf("expected ErrVersionNotFound, got %v", err)
	}

	// And the wrong machine still has no active configuration.
	if _, _, err := svc.ActiveConfiguration(ctx, summaryB.ID); err == nil {
		t.Fatalf("expected no active configuration")
	}
}

func TestActiveConfiguration_RequiresPublishedVersion(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)
	actorID := uuid.New().String()
	ctx := context.Background()

	summary, _ := seedFullDraft(t, db, svc, actorID)

	_, _, err := svc.ActiveConfiguration(ctx, summary.ID)
	if err != domain.ErrNoActiveConfiguration {
		t.Fatalf("expected ErrNoActiveConfiguration, got %v", err)
	}
}
