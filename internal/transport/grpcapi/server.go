package grpcapi

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/vladislavdragonenkov/siproad-orders/internal/domain"
	"github.com/vladislavdragonenkov/siproad-orders/internal/service/catalog"
)

// Server реализует CatalogServer поверх сервисов каталога.
type Server struct {
	products  catalog.ProductAPI
	companies catalog.CompanyAPI
}

// NewServer конструирует gRPC-сервер каталога.
func NewServer(products catalog.ProductAPI, companies catalog.CompanyAPI) *Server {
	return &Server{products: products, companies: companies}
}

type findRequest struct {
	CompanyID  string   `json:"companyId"`
	Value      string   `json:"value"`
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	Search     string   `json:"search"`
	SearchList []string `json:"searchList"`
}

func (r findRequest) pagination() domain.Pagination {
	return domain.Pagination{Page: r.Page, Limit: r.Limit}
}

func (r findRequest) input() domain.SearchInput {
	return domain.SearchInput{Search: r.Search, SearchList: r.SearchList}
}

type removeRequest struct {
	ID string `json:"id"`
}

// envelope повторяет ответ HTTP API.
type envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Count   int    `json:"count"`
	Data    any    `json:"data"`
}

func (s *Server) UpdateProduct(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var dto domain.ProductDTO
	if err := decode(in, &dto); err != nil {
		return nil, err
	}
	result, err := s.products.UpdateProduct(ctx, dto)
	if err != nil {
		return nil, toStatus(err)
	}
	return executed([]domain.ProductDTO{result})
}

func (s *Server) FindProducts(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req findRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	if !domain.LooksLikeID(req.CompanyID) {
		return nil, status.Error(codes.InvalidArgument, "companyId must be a uuid")
	}
	list, err := s.products.FindProducts(ctx, req.CompanyID, req.pagination(), req.input())
	if err != nil {
		return nil, toStatus(err)
	}
	return executed(list)
}

func (s *Server) FindOneProductByValue(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req findRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	if !domain.LooksLikeID(req.CompanyID) {
		return nil, status.Error(codes.InvalidArgument, "companyId must be a uuid")
	}
	list, err := s.products.FindOneProductByValue(ctx, req.CompanyID, req.Value)
	if err != nil {
		return nil, toStatus(err)
	}
	return executed(list)
}

func (s *Server) RemoveProduct(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.remove(ctx, in, s.products.RemoveProduct)
}

func (s *Server) UpdateCompany(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var dto domain.CompanyDTO
	if err := decode(in, &dto); err != nil {
		return nil, err
	}
	result, err := s.companies.UpdateCompany(ctx, dto)
	if err != nil {
		return nil, toStatus(err)
	}
	return executed([]domain.CompanyDTO{result})
}

func (s *Server) FindCompanies(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req findRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	list, err := s.companies.FindCompanies(ctx, req.pagination(), req.input())
	if err != nil {
		return nil, toStatus(err)
	}
	return executed(list)
}

func (s *Server) FindOneCompanyByValue(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req findRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	list, err := s.companies.FindOneCompanyByValue(ctx, req.Value)
	if err != nil {
		return nil, toStatus(err)
	}
	return executed(list)
}

func (s *Server) RemoveCompany(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.remove(ctx, in, s.companies.RemoveCompany)
}

func (s *Server) remove(ctx context.Context, in *structpb.Struct, remove func(context.Context, string) (string, error)) (*structpb.Struct, error) {
	var req removeRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	if !domain.LooksLikeID(req.ID) {
		return nil, status.Error(codes.InvalidArgument, "id must be a uuid")
	}
	msg, err := remove(ctx, req.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(envelope{Status: 200, Message: msg, Data: []any{}})
}

// CodeFor переводит вид ошибки каталога в gRPC-код.
func CodeFor(err error) codes.Code {
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return codes.NotFound
	case domain.KindAlreadyExists:
		return codes.AlreadyExists
	case domain.KindIsBeingUsed:
		return codes.FailedPrecondition
	case domain.KindInvalidArgument:
		return codes.InvalidArgument
	default:
		return codes.Internal
	}
}

// MessageInternal заменяет текст внутренних ошибок в статусе ответа.
const MessageInternal = "internal server error"

func toStatus(err error) error {
	code := CodeFor(err)
	if code == codes.Internal {
		return status.Error(code, MessageInternal)
	}
	return status.Error(code, err.Error())
}

func decode(in *structpb.Struct, dst any) error {
	if in == nil {
		return status.Error(codes.InvalidArgument, "request is required")
	}
	raw, err := in.MarshalJSON()
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	return nil
}

func executed[T any](data []T) (*structpb.Struct, error) {
	if data == nil {
		data = []T{}
	}
	return encode(envelope{Status: 200, Message: "executed", Count: len(data), Data: data})
}

func encode(resp envelope) (*structpb.Struct, error) {
	raw, err := json.Marshal(resp)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out := new(structpb.Struct)
	if err := out.UnmarshalJSON(raw); err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}
	return out, nil
}

var _ CatalogServer = (*Server)(nil)
