package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"finsight-trading/internal/dto"
	"finsight-trading/pkg/common"
	"finsight-trading/pkg/logger"

	"github.com/gorilla/websocket"
)

// levelOneEquityFields is the full field set (codes 0-31) requested for every
// subscribed symbol.
const levelOneEquityFields = "0,1,2,3,4,5,6,7,8,9,10,11,12,13,14,15,16,17,18,19,20,21,22,23,24,25,26,27,28,29,30,31"

type streamRequest struct {
	Service                string            `json:"service"`
	Command                string            `json:"command"`
	RequestID              string            `json:"requestid"`
	SchwabClientCustomerID string            `json:"SchwabClientCustomerId"`
	SchwabClientCorrelID   string            `json:"SchwabClientCorrelId"`
	Parameters             map[string]string `json:"parameters"`
}

type streamRequestEnvelope struct {
	Requests []streamRequest `json:"requests"`
}

// SchwabStreamer holds one websocket subscription to the Schwab streamer
// endpoint. Messages are delivered synchronously to the handler on the read
// goroutine; there is no buffering and no redelivery.
type SchwabStreamer struct {
	log         *logger.Logger
	info        dto.StreamerInfo
	accessToken string

	mu        sync.Mutex
	conn      *websocket.Conn
	requestID int
	stopped   bool
	done      chan struct{}
}

func NewSchwabStreamer(log *logger.Logger, info dto.StreamerInfo, accessToken string) *SchwabStreamer {
	return &SchwabStreamer{
		log:         log,
		info:        info,
		accessToken: accessToken,
		done:        make(chan struct{}),
	}
}

// Start dials the streamer endpoint, logs in and launches the read loop.
func (s *SchwabStreamer) Start(ctx context.Context, handler StreamHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		return fmt.Errorf("streamer already started")
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.info.StreamerSocketURL, nil)
	if err != nil {
		return fmt.Errorf("%w: streamer dial: %v", common.ErrGateway, err)
	}
	s.conn = conn

	login := streamRequest{
		Service:                "ADMIN",
		Command:                "LOGIN",
		RequestID:              s.nextRequestID(),
		SchwabClientCustomerID: s.info.SchwabClientCustomerID,
		SchwabClientCorrelID:   s.info.SchwabClientCorrelID,
		Parameters: map[string]string{
			"Authorization":          s.accessToken,
			"SchwabClientChannel":    s.info.SchwabClientChannel,
			"SchwabClientFunctionId": s.info.SchwabClientFunctionID,
		},
	}
	if err := s.sendLocked(login); err != nil {
		_ = conn.Close()
		s.conn = nil
		return err
	}

	go s.readLoop(handler)
	return nil
}

// SubscribeLevelOneEquities registers the symbols for level-one updates with
// the full field set. Sending ADD again replaces nothing server-side; the
// gateway models one subscription and restarts the streamer to replace it.
func (s *SchwabStreamer) SubscribeLevelOneEquities(symbols []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return fmt.Errorf("streamer not started")
	}

	keys := ""
	for i, symbol := range symbols {
		if i > 0 {
			keys += ","
		}
		keys += symbol
	}

	request := streamRequest{
		Service:                "LEVELONE_EQUITIES",
		Command:                "ADD",
		RequestID:              s.nextRequestID(),
		SchwabClientCustomerID: s.info.SchwabClientCustomerID,
		SchwabClientCorrelID:   s.info.SchwabClientCorrelID,
		Parameters: map[string]string{
			"keys":   keys,
			"fields": levelOneEquityFields,
		},
	}
	return s.sendLocked(request)
}

// Stop closes the connection, ending the read loop. Safe to call repeatedly.
func (s *SchwabStreamer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.stopped = true

	if s.conn != nil {
		logout := streamRequest{
			Service:                "ADMIN",
			Command:                "LOGOUT",
			RequestID:              s.nextRequestID(),
			SchwabClientCustomerID: s.info.SchwabClientCustomerID,
			SchwabClientCorrelID:   s.info.SchwabClientCorrelID,
			Parameters:             map[string]string{},
		}
		_ = s.sendLocked(logout)
		_ = s.conn.Close()
		s.conn = nil
	}
	close(s.done)
}

// Done is closed once the streamer has fully stopped.
func (s *SchwabStreamer) Done() <-chan struct{} {
	return s.done
}

func (s *SchwabStreamer) readLoop(handler StreamHandler) {
	for {
		s.mu.Lock()
		conn := s.conn
		s.mu.Unlock()
		if conn == nil {
			return
		}

		_, raw, err := conn.ReadMessage()
		if err != nil {
			s.mu.Lock()
			stopped := s.stopped
			s.mu.Unlock()
			if !stopped {
				s.log.Error("Stream read failed, stopping", logger.ErrorField(err))
				s.Stop()
			}
			return
		}

		var msg dto.StreamMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.log.Warn("Dropping malformed stream message", logger.ErrorField(err))
			continue
		}
		if handler != nil {
			handler(msg)
		}
	}
}

func (s *SchwabStreamer) sendLocked(request streamRequest) error {
	envelope := streamRequestEnvelope{Requests: []streamRequest{request}}
	if err := s.conn.WriteJSON(envelope); err != nil {
		return fmt.Errorf("%w: streamer send: %v", common.ErrGateway, err)
	}
	return nil
}

func (s *SchwabStreamer) nextRequestID() string {
	s.requestID++
	return strconv.Itoa(s.requestID)
}
