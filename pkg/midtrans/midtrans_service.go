package midtrans

import (
	"context"

	"Pointspin-Backend/internal/utils"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

type (
	// MidtransService creates hosted checkout pages for point orders.
	MidtransService interface {
		CreateTransaction(ctx context.Context, orderID string, grossAmount int64, email string) (string, error)
	}

	midtransService struct {
		client snap.Client
	}
)

func NewMidtransService() MidtransService {
	env := midtrans.Sandbox
	if utils.GetConfig("IsProd") == "true" {
		env = midtrans.Production
	}

	var client snap.Client
	client.New(utils.GetConfig("SERVER_KEY"), env)

	return &midtransService{
		client: client,
	}
}

func (s *midtransService) CreateTransaction(ctx context.Context, orderID string, grossAmount int64, email string) (string, error) {
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: grossAmount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			Email: email,
		},
	}

	resp, err := s.client.CreateTransaction(req)
	if err != nil {
		return "", err
	}
	return resp.RedirectURL, nil
}
