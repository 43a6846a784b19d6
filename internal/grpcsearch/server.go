// Package grpcsearch exposes a search backend as the remote search_poems
// service and provides the client that plugs it back into a search.Engine.
package grpcsearch

import (
	"context"
	"log"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"shicihub/internal/search"
	"shicihub/pkg/models"
)

const (
	serviceName       = "shici.search.v1.PoemSearch"
	searchPoemsMethod = "/" + serviceName + "/SearchPoems"
)

type SearchRequest struct {
	QueryText string `json:"query_text"`
	Dynasty   string `json:"dynasty,omitempty"`
}

type SearchResponse struct {
	Poems []models.Poem `json:"poems"`
}

// PoemSearchServer is the server API of the search service.
type PoemSearchServer interface {
	SearchPoems(ctx context.Context, req *SearchRequest) (*SearchResponse, error)
}

type Server struct {
	Backend search.Backend
}

func NewServer(backend search.Backend) *Server {
	return &Server{Backend: backend}
}

func (s *Server) SearchPoems(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	if req == nil || strings.TrimSpace(req.QueryText) == "" {
		return nil, status.Error(codes.InvalidArgument, "query_text required")
	}

	poems, err := s.Backend.SearchPoems(ctx, search.Query{
		Text:    strings.TrimSpace(req.QueryText),
		Dynasty: strings.TrimSpace(req.Dynasty),
	})
	if err != nil {
		log.Printf("[grpc] search %q failed: %v", req.QueryText, err)
		return nil, status.Error(codes.Unavailable, "search failed")
	}
	if poems == nil {
		poems = []models.Poem{}
	}
	return &SearchResponse{Poems: poems}, nil
}

// Register attaches srv to gs under the PoemSearch service name.
func Register(gs *grpc.Server, srv PoemSearchServer) {
	gs.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*PoemSearchServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SearchPoems", Handler: searchPoemsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "shici/search/v1/search.proto",
}

func searchPoemsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SearchRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PoemSearchServer).SearchPoems(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: searchPoemsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PoemSearchServer).SearchPoems(ctx, req.(*SearchRequest))
	}
	return interceptor(ctx, in, info, handler)
}
