// Package server exposes the analysis pipeline to the plotting frontend
// over a websocket endpoint. The core never renders; it only streams
// finished polar records.
package server

import (
	"net/http"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/kktouhidphd/2D-Aerodynamic-Analysis-Framework/model"
	"github.com/kktouhidphd/2D-Aerodynamic-Analysis-Framework/sequencer"
	"github.com/kktouhidphd/2D-Aerodynamic-Analysis-Framework/xfoil"
)

type Server struct {
	addr     string
	upgrader websocket.Upgrader
	policy   sequencer.Policy
	runner   xfoil.Runner
}

func NewServer(addr string, upgrader websocket.Upgrader, policy sequencer.Policy, runner xfoil.Runner) *Server {
	return &Server{
		addr:     addr,
		upgrader: upgrader,
		policy:   policy,
		runner:   runner,
	}
}

// serveWs handles websocket requests from the peer. Each connection gets
// its own hub and sequencer; connections share nothing mutable.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("server: upgrade: %v", err)
		return
	}
	defer conn.Close()

	hub := NewHub(sequencer.New(s.policy, s.runner), s.policy)
	hub.conn = conn
	defer hub.Close()

	go hub.handleRequest()
	go hub.handleResponse()

	for {
		var msg model.Msg
		if err := conn.ReadJSON(&msg); err != nil {
			log.Infof("server: connection closed: %v", err)
			return
		}
		hub.msg <- msg
	}
}

func (s *Server) Serve() {
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		s.serveWs(w, r)
	})
	log.Infof("server: listening on %s", s.addr)
	if err := http.ListenAndServe(s.addr, nil); err != nil {
		log.Fatal("ListenAndServe: ", err)
	}
}
