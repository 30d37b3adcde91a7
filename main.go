package main

import (
	"net/http"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/kktouhidphd/2D-Aerodynamic-Analysis-Framework/sequencer"
	"github.com/kktouhidphd/2D-Aerodynamic-Analysis-Framework/server"
	"github.com/kktouhidphd/2D-Aerodynamic-Analysis-Framework/xfoil"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func main() {
	upgrader.CheckOrigin = func(r *http.Request) bool {
		return true
	}

	policy := sequencer.LoadPolicy("conf/config.ini")
	if !xfoil.Available("xfoil") {
		log.Warn("xfoil not found in PATH, solver sessions will fail")
	}
	driver := xfoil.NewDriver(policy.WorkDir, policy.SessionTimeout)

	s := server.NewServer(":9000", upgrader, policy, driver)
	s.Serve()
}
