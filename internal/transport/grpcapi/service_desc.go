// Package grpcapi - gRPC-интерфейс каталога. Сообщения передаются как
// google.protobuf.Struct, поэтому сервис описан вручную без сгенерированного кода.
package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName - полное имя gRPC-сервиса.
const ServiceName = "siproad.orders.v1.CatalogService"

// Имена методов сервиса.
const (
	MethodUpdateProduct         = "UpdateProduct"
	MethodFindProducts          = "FindProducts"
	MethodFindOneProductByValue = "FindOneProductByValue"
	MethodRemoveProduct         = "RemoveProduct"
	MethodUpdateCompany         = "UpdateCompany"
	MethodFindCompanies         = "FindCompanies"
	MethodFindOneCompanyByValue = "FindOneCompanyByValue"
	MethodRemoveCompany         = "RemoveCompany"
)

// CatalogServer - серверная часть siproad.orders.v1.CatalogService.
type CatalogServer interface {
	UpdateProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
	FindProducts(context.Context, *structpb.Struct) (*structpb.Struct, error)
	FindOneProductByValue(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RemoveProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateCompany(context.Context, *structpb.Struct) (*structpb.Struct, error)
	FindCompanies(context.Context, *structpb.Struct) (*structpb.Struct, error)
	FindOneCompanyByValue(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RemoveCompany(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(CatalogServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// ServiceDesc описывает сервис для grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		method(MethodUpdateProduct, CatalogServer.UpdateProduct),
		method(MethodFindProducts, CatalogServer.FindProducts),
		method(MethodFindOneProductByValue, CatalogServer.FindOneProductByValue),
		method(MethodRemoveProduct, CatalogServer.RemoveProduct),
		method(MethodUpdateCompany, CatalogServer.UpdateCompany),
		method(MethodFindCompanies, CatalogServer.FindCompanies),
		method(MethodFindOneCompanyByValue, CatalogServer.FindOneCompanyByValue),
		method(MethodRemoveCompany, CatalogServer.RemoveCompany),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "siproad/orders/v1/catalog.proto",
}

// RegisterCatalogServer регистрирует реализацию на gRPC-сервере.
func RegisterCatalogServer(s grpc.ServiceRegistrar, srv CatalogServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

func method(name string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CatalogServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(srv.(CatalogServer), ctx, req.(*structpb.Struct))
			})
		},
	}
}

// Client - клиент CatalogService.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient создаёт клиент поверх соединения.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call вызывает метод сервиса по имени.
func (c *Client) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
