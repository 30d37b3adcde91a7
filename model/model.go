// Package model holds the message types exchanged with the plotting
// frontend over the websocket connection.
package model

import "github.com/kktouhidphd/2D-Aerodynamic-Analysis-Framework/polar"

// Msg is the envelope for frontend communication.
type Msg struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Message types.
const (
	TypeStart = "start" // frontend -> core: run an analysis
	TypeStop  = "stop"  // frontend -> core: cancel the running analysis
	TypePolar = "polar" // core -> frontend: one finished airfoil polar
	TypeDone  = "done"  // core -> frontend: analysis run finished
	TypeError = "error" // core -> frontend: request rejected
)

// AnalysisRequest is the content of a start message.
type AnalysisRequest struct {
	Airfoils []string  `json:"airfoils"` // NACA codes, e.g. "2412", "23012", "63012a"
	Reynolds float64   `json:"reynolds"`
	Mach     float64   `json:"mach"`
	Alphas   []float64 `json:"alphas"` // degrees
}

// PolarResponse is the content of a polar message. Error is set when the
// airfoil's geometry stage failed; Points then stays empty.
type PolarResponse struct {
	Airfoil  string        `json:"airfoil"`
	Reynolds float64       `json:"reynolds"`
	Mach     float64       `json:"mach"`
	Error    string        `json:"error,omitempty"`
	Points   []polar.Point `json:"points"`
}
