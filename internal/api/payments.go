package api

import (
	"context"
	"net/http"
	"strconv"

	"ricepro-web/internal/models"
)

type PaymentsClient struct{ c *Client }

func paymentsPath(orderID int) string {
	return "/orders/" + strconv.Itoa(orderID) + "/payments"
}

func (pc *PaymentsClient) List(ctx context.Context, orderID int) ([]models.Payment, error) {
	var out []models.Payment
	if err := pc.c.do(ctx, "payments", http.MethodGet, paymentsPath(orderID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (pc *PaymentsClient) Add(ctx context.Context, orderID int, req models.CreatePaymentRequest) (*models.MessageResponse, error) {
	var out models.MessageResponse
	if err := pc.c.do(ctx, "payments", http.MethodPost, paymentsPath(orderID), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (pc *PaymentsClient) Delete(ctx context.Context, orderID, paymentID int) error {
	path := paymentsPath(orderID) + "/" + strconv.Itoa(paymentID)
	return pc.c.do(ctx, "payments", http.MethodDelete, path, nil, nil, nil)
}
