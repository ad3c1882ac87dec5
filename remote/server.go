// Package remote moves collected episodes between sampling workers and the
// training process over HTTP.
package remote

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KONPEITO1205/machina/traj"
)

// EpiServer accepts episodes pushed by remote samplers and buffers them
// until the trainer drains them
type EpiServer struct {
	Addr   string
	ctx    context.Context
	server *http.Server

	lock    *sync.Mutex
	epis    []*traj.Epi
	numStep int
}

func NewEpiServer(ctx context.Context, addr string) *EpiServer {
	s := &EpiServer{
		Addr: addr,
		ctx:  ctx,
		lock: new(sync.Mutex),
		epis: make([]*traj.Epi, 0),
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.POST("/epis", s.handleEpis)
	r.GET("/num_step", s.handleNumStep)
	r.GET("/health", s.handleHealth)
	s.server = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s
}

func (s *EpiServer) handleEpis(c *gin.Context) {
	epis := make([]*traj.Epi, 0)
	if err := c.ShouldBindJSON(&epis); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to unmarshal request"})
		return
	}

	s.lock.Lock()
	s.epis = append(s.epis, epis...)
	for _, e := range epis {
		s.numStep += e.Len()
	}
	s.lock.Unlock()

	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

func (s *EpiServer) handleNumStep(c *gin.Context) {
	s.lock.Lock()
	numStep := s.numStep
	s.lock.Unlock()

	c.JSON(http.StatusOK, gin.H{"num_step": numStep})
}

func (s *EpiServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

// Drain returns the buffered episodes and clears the buffer
func (s *EpiServer) Drain() []*traj.Epi {
	s.lock.Lock()
	defer s.lock.Unlock()

	epis := s.epis
	s.epis = make([]*traj.Epi, 0)
	s.numStep = 0
	return epis
}

// NumStep returns the number of buffered steps
func (s *EpiServer) NumStep() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.numStep
}

func (s *EpiServer) Start() {
	go func() {
		s.server.ListenAndServe()
	}()

	go func() {
		<-s.ctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.server.Shutdown(ctx)
	}()
}
