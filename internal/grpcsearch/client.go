package grpcsearch

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"shicihub/internal/search"
	"shicihub/pkg/models"
	"shicihub/pkg/utils"
)

// Client calls a remote PoemSearch service. It implements search.Backend.
type Client struct {
	conn *grpc.ClientConn
}

var _ search.Backend = (*Client)(nil)

// Dial prepares a client for addr. The connection is established lazily on
// the first call, so an unreachable server surfaces as a SearchPoems error.
func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	base := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
	}
	conn, err := grpc.NewClient(addr, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("grpc client %s: %w", addr, err)
	}
	return &Client{conn: conn}, nil
}

func (c *Client) SearchPoems(ctx context.Context, q search.Query) ([]models.Poem, error) {
	in := &SearchRequest{QueryText: q.Text, Dynasty: q.Dynasty}
	out := new(SearchResponse)
	if err := c.conn.Invoke(ctx, searchPoemsMethod, in, out, grpc.CallContentSubtype(codecName)); err != nil {
		return nil, fmt.Errorf("search_poems: %w", err)
	}
	for i := range out.Poems {
		utils.RestoreNumbers(out.Poems[i].Metadata)
	}
	return out.Poems, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}
