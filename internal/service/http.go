/*

  Copyright 2012 Dmitry Kolesnikov, All Rights Reserved

  Licensed under the Apache License, Version 2.0 (the "License");
  you may not use this file except in compliance with the License.
  You may obtain a copy of the License at

      http://www.apache.org/licenses/LICENSE-2.0

  Unless required by applicable law or agreed to in writing, software
  distributed under the License is distributed on an "AS IS" BASIS,
  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
  See the License for the specific language governing permissions and
  limitations under the License.

*/

package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fogfish/idable"
	"github.com/fogfish/idable/internal/tracing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const headerRequestID = "X-Request-Id"

// ID is JSON view of identifier
type ID struct {
	ID     uint64 `json:"id"`
	String string `json:"string"`
}

// IDsV1Response is body of GET /v1/id
type IDsV1Response struct {
	IDs []ID `json:"ids"`
}

// LookupV1Response is body of GET /v1/id/:id
type LookupV1Response struct {
	ID
	T    uint64    `json:"t"`
	Seq  uint64    `json:"seq"`
	Time time.Time `json:"time"`
}

// SeqV1Response is body of GET /v1/seq
type SeqV1Response struct {
	Values []uint64 `json:"values"`
}

// ErrorResponse is body of failed requests
type ErrorResponse struct {
	Error string `json:"error"`
}

// RegisterAPIV1Restful binds handlers to router
func (s *Server) RegisterAPIV1Restful(router *gin.Engine) {
	router.GET("health", s.Health)

	v1 := router.Group("v1")
	v1.GET("id", s.NextIDV1)
	v1.GET("id/:id", s.LookupV1)
	v1.GET("seq", s.NextSeqV1)
	v1.DELETE("seq", s.ResetSeqV1)
}

// Health reports liveness
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// NextIDV1 allocates ?n= time-ordered identifiers
func (s *Server) NextIDV1(c *gin.Context) {
	n, err := s.batchSize(c)
	if err != nil {
		s.badRequest(c, err)
		return
	}

	_, span := tracing.Start(c.Request.Context(), "idable.NextID",
		attribute.Int("count", n),
		attribute.String("mode", s.cfg.Mode),
	)

	ids := make([]ID, n)
	for i := range ids {
		id := s.ids.NextID()
		ids[i] = ID{ID: id, String: idable.String(id)}
	}
	tracing.End(span, nil)

	c.JSON(http.StatusOK, IDsV1Response{IDs: ids})
}

// LookupV1 decomposes decimal or encoded identifier
func (s *Server) LookupV1(c *gin.Context) {
	id, err := idable.Parse(c.Param("id"))
	if err != nil {
		s.badRequest(c, err)
		return
	}

	ts, err := s.layout.Timestamp(id)
	if err != nil {
		s.badRequest(c, err)
		return
	}

	t, seq := s.layout.Split(id)
	c.JSON(http.StatusOK, LookupV1Response{
		ID:   ID{ID: id, String: idable.String(id)},
		T:    t,
		Seq:  seq,
		Time: ts.UTC(),
	})
}

// NextSeqV1 allocates ?n= values of plain sequence
func (s *Server) NextSeqV1(c *gin.Context) {
	n, err := s.batchSize(c)
	if err != nil {
		s.badRequest(c, err)
		return
	}

	values := make([]uint64, n)
	for i := range values {
		values[i] = s.seq.NextID()
	}

	c.JSON(http.StatusOK, SeqV1Response{Values: values})
}

// ResetSeqV1 resets plain sequence to 0
func (s *Server) ResetSeqV1(c *gin.Context) {
	s.seq.Reset()
	s.logger.Info("sequence reset", zap.String("requestID", c.GetString(headerRequestID)))
	c.Status(http.StatusNoContent)
}

func (s *Server) batchSize(c *gin.Context) (int, error) {
	q := c.DefaultQuery("n", "1")
	n, err := strconv.Atoi(q)
	if err != nil || n < 1 || n > s.cfg.MaxBatch {
		return 0, errors.Wrapf(ErrBatchSize, "n=%s not in 1..%d", q, s.cfg.MaxBatch)
	}
	return n, nil
}

func (s *Server) badRequest(c *gin.Context, err error) {
	s.logger.Debug("bad request",
		zap.String("requestID", c.GetString(headerRequestID)),
		zap.Error(err),
	)
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}

// requestID tags request with X-Request-Id, the client supplied one is kept
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(headerRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}
