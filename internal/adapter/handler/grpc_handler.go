package handler

import (
	"context"

	"github.com/rl1809/vending/internal/core/domain"
	"github.com/rl1809/vending/internal/core/service"
)

type DepositReply = service.DepositResult

type GRPCHandler struct {
	vending *service.VendingService
}

func NewGRPCHandler(vending *service.VendingService) *GRPCHandler {
	return &GRPCHandler{vending: vending}
}

func (h *GRPCHandler) Inventory(ctx context.Context, _ *Empty) (*InventoryReply, error) {
	return &InventoryReply{Items: h.vending.Inventory(ctx)}, nil
}

func (h *GRPCHandler) Balance(ctx context.Context, _ *Empty) (*BalanceReply, error) {
	return &BalanceReply{Balance: h.vending.Balance(ctx).StringFixed(2)}, nil
}

func (h *GRPCHandler) InsertMoney(ctx context.Context, req *InsertMoneyRequest) (*DepositReply, error) {
	res := h.vending.InsertMoney(ctx, req.Amount)
	return &res, nil
}

// Purchase never fails at the transport level; declined purchases carry their reason.
func (h *GRPCHandler) Purchase(ctx context.Context, req *PurchaseRequest) (*domain.PurchaseResult, error) {
	res := h.vending.Purchase(ctx, req.Item, req.Quantity)
	return &res, nil
}

func (h *GRPCHandler) Refund(ctx context.Context, _ *Empty) (*RefundReply, error) {
	return &RefundReply{Refunded: h.vending.Refund(ctx).StringFixed(2)}, nil
}
