package domain

import "errors"

var (
	MessageSuccessSpin = "spin completed successfully"

	MessageFailedSpin         = "failed to spin"
	MessageTooManySpins       = "too many spins, slow down"
	MessageMachineUnavailable = "machine is not available"

	ErrRateLimited                = errors.New("too many spins")
	ErrMachineUnavailable         = errors.New("machine unavailable")
	ErrTicketsNotAllowed          = errors.New("this machine does not allow tickets")
	ErrBrokenRewardPool           = errors.New("broken reward pool configuration")
	ErrInvalidWeightConfiguration = errors.New("invalid weight configuration")
)

type (
	SpinRequest struct {
		IdempotencyKey string `json:"idempotency_key" validate:"required,min=8,max=100"`
		UseTicket      bool   `json:"use_ticket"`
	}

	SpinReward struct {
		ID        string `json:"id"`
		Type      string `json:"type"`
		Name      string `json:"name"`
		Rarity    string `json:"rarity"`
		Stackable bool   `json:"stackable"`
		ImageURL  string `json:"image_url,omitempty"`
	}

	SpinInventoryDelta struct {
		RewardCatalogID string `json:"reward_catalog_id"`
		Qty             int    `json:"qty"`
	}

	SpinResult struct {
		SpinID           string             `json:"spin_id"`
		IdempotentReplay bool               `json:"idempotent_replay"`
		Rarity           string             `json:"rarity"`
		Reward           SpinReward         `json:"reward"`
		BalancePoint     int64              `json:"balance_point"`
		TicketBalance    int                `json:"ticket_balance"`
		InventoryDelta   SpinInventoryDelta `json:"inventory_delta"`
	}
)
