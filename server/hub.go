package server

import (
	"context"
	"encoding/json"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/kktouhidphd/2D-Aerodynamic-Analysis-Framework/airfoil"
	"github.com/kktouhidphd/2D-Aerodynamic-Analysis-Framework/model"
	"github.com/kktouhidphd/2D-Aerodynamic-Analysis-Framework/sequencer"
)

// Hub serves one frontend connection: it accepts analysis requests and
// pushes each airfoil's polar as soon as its sequencing finishes.
type Hub struct {
	conn     *websocket.Conn
	seq      *sequencer.Sequencer
	policy   sequencer.Policy
	msg      chan model.Msg
	out      chan model.Msg
	cancel   context.CancelFunc
	runDone  chan struct{}
	shutdown chan struct{}
}

// NewHub builds a hub around one sequencer instance.
func NewHub(seq *sequencer.Sequencer, policy sequencer.Policy) *Hub {
	return &Hub{
		seq:      seq,
		policy:   policy,
		msg:      make(chan model.Msg, 10),
		out:      make(chan model.Msg, 10),
		shutdown: make(chan struct{}),
	}
}

func (h *Hub) handleResponse() {
	for {
		select {
		case reply := <-h.out:
			if err := h.conn.WriteJSON(&reply); err != nil {
				log.Errorf("server: write: %v", err)
			}
		case <-h.shutdown:
			return
		}
	}
}

func (h *Hub) handleRequest() {
	for {
		select {
		case msg := <-h.msg:
			switch msg.Type {
			case model.TypeStart:
				h.startAnalysis(msg.Content)
			case model.TypeStop:
				if h.cancel != nil {
					h.cancel()
				}
			default:
				log.Warnf("server: no such message type %q", msg.Type)
			}
		case <-h.shutdown:
			if h.cancel != nil {
				h.cancel()
			}
			return
		}
	}
}

func (h *Hub) startAnalysis(content string) {
	if h.runDone != nil {
		select {
		case <-h.runDone:
		default:
			h.reply(model.TypeError, "analysis already running")
			return
		}
	}

	var req model.AnalysisRequest
	if err := json.Unmarshal([]byte(content), &req); err != nil {
		h.reply(model.TypeError, "bad analysis request: "+err.Error())
		return
	}
	if len(req.Airfoils) == 0 || len(req.Alphas) == 0 || req.Reynolds <= 0 {
		h.reply(model.TypeError, "analysis request needs airfoils, alphas and a positive reynolds number")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	h.runDone = make(chan struct{})
	go h.runAnalysis(ctx, req, h.runDone)
}

func (h *Hub) runAnalysis(ctx context.Context, req model.AnalysisRequest, done chan struct{}) {
	defer close(done)

	var jobs []sequencer.Job
	for _, code := range req.Airfoils {
		def, err := airfoil.ParseCode(code)
		if err != nil {
			h.pushPolar(model.PolarResponse{
				Airfoil:  code,
				Reynolds: req.Reynolds,
				Mach:     req.Mach,
				Error:    err.Error(),
			})
			continue
		}
		jobs = append(jobs, sequencer.Job{
			Definition: def,
			Reynolds:   req.Reynolds,
			Mach:       req.Mach,
			Alphas:     req.Alphas,
		})
	}

	exec := sequencer.NewExecutor(h.seq, h.policy.Workers)
	for res := range exec.Stream(ctx, jobs) {
		resp := model.PolarResponse{
			Airfoil:  res.Job.Definition.Name,
			Reynolds: res.Job.Reynolds,
			Mach:     res.Job.Mach,
		}
		if res.Err != nil {
			resp.Error = res.Err.Error()
		}
		if res.Record != nil {
			resp.Points = res.Record.Points()
		}
		h.pushPolar(resp)
	}
	h.reply(model.TypeDone, "")
}

func (h *Hub) pushPolar(resp model.PolarResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("server: marshal polar: %v", err)
		return
	}
	h.reply(model.TypePolar, string(data))
}

func (h *Hub) reply(msgType, content string) {
	select {
	case h.out <- model.Msg{Type: msgType, Content: content}:
	case <-h.shutdown:
	}
}

// Close stops the hub's goroutines and any running analysis.
func (h *Hub) Close() {
	close(h.shutdown)
}
