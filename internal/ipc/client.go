package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Start requests the daemon to start the publishing loop.
func (c *Client) Start() (*StartResponse, error) {
	var resp StartResponse
	if err := c.client.Call("Airdate.Start", StartRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stop requests the daemon to stop the publishing loop.
func (c *Client) Stop() (*StopResponse, error) {
	var resp StopResponse
	if err := c.client.Call("Airdate.Stop", StopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Airdate.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EpisodeList returns catalog episodes optionally filtered by statuses.
func (c *Client) EpisodeList(statuses []string) (*EpisodeListResponse, error) {
	var resp EpisodeListResponse
	req := EpisodeListRequest{Statuses: statuses}
	if err := c.client.Call("Airdate.EpisodeList", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SeriesList returns catalog series optionally filtered by statuses.
func (c *Client) SeriesList(statuses []string) (*SeriesListResponse, error) {
	var resp SeriesListResponse
	req := SeriesListRequest{Statuses: statuses}
	if err := c.client.Call("Airdate.SeriesList", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Publish publishes an episode immediately.
func (c *Client) Publish(episodeID string) (*PublishResponse, error) {
	var resp PublishResponse
	req := PublishRequest{EpisodeID: episodeID}
	if err := c.client.Call("Airdate.Publish", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Schedule sets a future publish time on an episode.
func (c *Client) Schedule(episodeID string, publishAt time.Time) (*ScheduleResponse, error) {
	var resp ScheduleResponse
	req := ScheduleRequest{EpisodeID: episodeID, PublishAt: publishAt.UTC().Format(time.RFC3339)}
	if err := c.client.Call("Airdate.Schedule", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Unschedule returns a scheduled episode to draft.
func (c *Client) Unschedule(episodeID string) (*UnscheduleResponse, error) {
	var resp UnscheduleResponse
	req := UnscheduleRequest{EpisodeID: episodeID}
	if err := c.client.Call("Airdate.Unschedule", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Archive retires an episode.
func (c *Client) Archive(episodeID string) (*ArchiveResponse, error) {
	var resp ArchiveResponse
	req := ArchiveRequest{EpisodeID: episodeID}
	if err := c.client.Call("Airdate.Archive", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RunPass triggers an immediate publication pass.
func (c *Client) RunPass() (*RunPassResponse, error) {
	var resp RunPassResponse
	if err := c.client.Call("Airdate.RunPass", RunPassRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stats returns per-status catalog counts.
func (c *Client) Stats() (*StatsResponse, error) {
	var resp StatsResponse
	if err := c.client.Call("Airdate.Stats", StatsRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CatalogHealth returns catalog diagnostics.
func (c *Client) CatalogHealth() (*CatalogHealthResponse, error) {
	var resp CatalogHealthResponse
	if err := c.client.Call("Airdate.CatalogHealth", CatalogHealthRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DatabaseHealth retrieves detailed database diagnostics.
func (c *Client) DatabaseHealth() (*DatabaseHealthResponse, error) {
	var resp DatabaseHealthResponse
	if err := c.client.Call("Airdate.DatabaseHealth", DatabaseHealthRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TestNotification triggers a notification test via the daemon.
func (c *Client) TestNotification() (*TestNotificationResponse, error) {
	var resp TestNotificationResponse
	if err := c.client.Call("Airdate.TestNotification", TestNotificationRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Seed populates the catalog with demo data.
func (c *Client) Seed() (*SeedResponse, error) {
	var resp SeedResponse
	if err := c.client.Call("Airdate.Seed", SeedRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LogTail returns log lines from the daemon.
func (c *Client) LogTail(req LogTailRequest) (*LogTailResponse, error) {
	var resp LogTailResponse
	if err := c.client.Call("Airdate.LogTail", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
