package remote

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/KONPEITO1205/machina/traj"
)

// EpiClient pushes episodes from a sampling worker to an EpiServer
type EpiClient struct {
	addr   string
	client *http.Client
}

// NewEpiClient talks to the collection server at host:port
func NewEpiClient(addr string) *EpiClient {
	return &EpiClient{
		addr: addr,
		client: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 5 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   5 * time.Second,
				ResponseHeaderTimeout: 5 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
	}
}

// PostEpis pushes episodes to the server buffer
func (c *EpiClient) PostEpis(epis []*traj.Epi) error {
	bs, err := json.Marshal(epis)
	if err != nil {
		return errors.New("PostEpis : error marshaling the episodes")
	}

	resp, err := c.client.Post("http://"+c.addr+"/epis", "application/json", bytes.NewBuffer(bs))
	if err != nil {
		return fmt.Errorf("PostEpis : error with post operation \n%s", err)
	}
	defer resp.Body.Close()
	io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("PostEpis : server replied %d", resp.StatusCode)
	}
	return nil
}

// NumStep asks the server how many steps it has buffered
func (c *EpiClient) NumStep() (int, error) {
	resp, err := c.client.Get("http://" + c.addr + "/num_step")
	if err != nil {
		return 0, fmt.Errorf("NumStep : error with get operation \n%s", err)
	}
	defer resp.Body.Close()

	bs, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, errors.New("NumStep : error reading the response")
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("NumStep : server replied %d", resp.StatusCode)
	}

	reply := struct {
		NumStep int `json:"num_step"`
	}{}
	if err := json.Unmarshal(bs, &reply); err != nil {
		return 0, errors.New("NumStep : error unmarshaling the response")
	}
	return reply.NumStep, nil
}
