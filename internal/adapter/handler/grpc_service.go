package handler

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"

	"github.com/rl1809/vending/internal/core/domain"
)

// CodecName is the gRPC content subtype the vending service speaks. Messages are plain JSON so
// agent tooling can call the service without generated stubs.
const CodecName = "json"

const serviceName = "vending.VendingMachine"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return CodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type InventoryReply struct {
	Items []domain.Item `json:"items"`
}

type BalanceReply struct {
	Balance string `json:"balance"`
}

type InsertMoneyRequest struct {
	Amount string `json:"amount"`
}

type PurchaseRequest struct {
	Item     string `json:"item"`
	Quantity string `json:"quantity"`
}

type RefundReply struct {
	Refunded string `json:"refunded"`
}

type VendingServer interface {
	Inventory(context.Context, *Empty) (*InventoryReply, error)
	Balance(context.Context, *Empty) (*BalanceReply, error)
	InsertMoney(context.Context, *InsertMoneyRequest) (*DepositReply, error)
	Purchase(context.Context, *PurchaseRequest) (*domain.PurchaseResult, error)
	Refund(context.Context, *Empty) (*RefundReply, error)
}

var vendingServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*VendingServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Inventory", VendingServer.Inventory),
		unary("Balance", VendingServer.Balance),
		unary("InsertMoney", VendingServer.InsertMoney),
		unary("Purchase", VendingServer.Purchase),
		unary("Refund", VendingServer.Refund),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "vending",
}

func RegisterVendingServer(s grpc.ServiceRegistrar, srv VendingServer) {
	s.RegisterService(&vendingServiceDesc, srv)
}

func unary[Req, Resp any](method string, call func(VendingServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + serviceName + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(VendingServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(VendingServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// VendingClient calls a vending gRPC server using the JSON codec.
type VendingClient struct {
	cc grpc.ClientConnInterface
}

func NewVendingClient(cc grpc.ClientConnInterface) *VendingClient {
	return &VendingClient{cc: cc}
}

func (c *VendingClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, "/"+serviceName+"/"+method, in, out, opts...)
}

func (c *VendingClient) Inventory(ctx context.Context, opts ...grpc.CallOption) (*InventoryReply, error) {
	out := new(InventoryReply)
	if err := c.invoke(ctx, "Inventory", &Empty{}, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *VendingClient) Balance(ctx context.Context, opts ...grpc.CallOption) (*BalanceReply, error) {
	out := new(BalanceReply)
	if err := c.invoke(ctx, "Balance", &Empty{}, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *VendingClient) InsertMoney(ctx context.Context, in *InsertMoneyRequest, opts ...grpc.CallOption) (*DepositReply, error) {
	out := new(DepositReply)
	if err := c.invoke(ctx, "InsertMoney", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *VendingClient) Purchase(ctx context.Context, in *PurchaseRequest, opts ...grpc.CallOption) (*domain.PurchaseResult, error) {
	out := new(domain.PurchaseResult)
	if err := c.invoke(ctx, "Purchase", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *VendingClient) Refund(ctx context.Context, opts ...grpc.CallOption) (*RefundReply, error) {
	out := new(RefundReply)
	if err := c.invoke(ctx, "Refund", &Empty{}, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
