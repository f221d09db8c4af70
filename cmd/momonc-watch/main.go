// momonc-watch is a thin, read-only dashboard CLI: it subscribes to a
// running momoncd's /ws endpoint and renders the live ProcessingState/Time
// stream with github.com/gizak/termui/v3 (grid layout, PollEvents loop,
// termui.Render on state change). It never sends
// StartProcessing/StopProcessing and has no effect on the service's FSM.
package main

import (
	"flag"
	"fmt"
	"net/url"
	"os"

	"github.com/bytedance/sonic"
	"github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/ssgier/momonc-service/internal/domain"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:3000", "momoncd address to watch")
	flag.Parse()

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "momonc-watch: dial %s: %v\n", u.String(), err)
		os.Exit(1)
	}
	defer conn.Close()

	if err := termui.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "momonc-watch: termui init: %v\n", err)
		os.Exit(1)
	}
	defer termui.Close()

	dashboard := newDashboard()
	updates := make(chan domain.StatusMessage)
	go readLoop(conn, updates)

	dashboard.render()
	uiEvents := termui.PollEvents()
	for {
		select {
		case e := <-uiEvents:
			switch e.ID {
			case "q", "<C-c>":
				return
			}
		case msg, ok := <-updates:
			if !ok {
				return
			}
			dashboard.apply(msg)
			dashboard.render()
		}
	}
}

func readLoop(conn *websocket.Conn, updates chan<- domain.StatusMessage) {
	defer close(updates)
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			log.Info().Err(err).Msg("momonc-watch: connection closed")
			return
		}
		var msg domain.StatusMessage
		if err := sonic.Unmarshal(raw, &msg); err != nil {
			log.Warn().Err(err).Msg("momonc-watch: failed to decode status message")
			continue
		}
		updates <- msg
	}
}

// dashboard holds the termui widgets and the last-seen state needed to
// render them: a state/time paragraph, a best-seen table, and a sparkline
// of recent objective values.
type dashboard struct {
	grid   *termui.Grid
	header *widgets.Paragraph
	best   *widgets.Table
	spark  *widgets.SparklineGroup

	elapsedSeconds float64
	stateLabel     string
	recentValues   []float64
}

func newDashboard() *dashboard {
	header := widgets.NewParagraph()
	header.Title = "momonc"
	header.Text = "connecting..."

	best := widgets.NewTable()
	best.Title = "best seen"
	best.Rows = [][]string{{"objective", "candidate"}}

	line := widgets.NewSparkline()
	line.Title = "recent objective values"
	line.Data = []float64{0}
	spark := widgets.NewSparklineGroup(line)

	grid := termui.NewGrid()
	width, height := termui.TerminalDimensions()
	grid.SetRect(0, 0, width, height)
	grid.Set(
		termui.NewRow(1.0/6, header),
		termui.NewRow(3.0/6, best),
		termui.NewRow(2.0/6, spark),
	)

	return &dashboard{grid: grid, header: header, best: best, spark: spark}
}

func (d *dashboard) apply(msg domain.StatusMessage) {
	switch {
	case msg.Time != nil:
		d.elapsedSeconds = *msg.Time

	case msg.DomainState != nil:
		switch {
		case msg.DomainState.Idle != nil:
			d.stateLabel = "idle"
		case msg.DomainState.Processing != nil:
			d.stateLabel = "processing"
			d.applyProcessingState(*msg.DomainState.Processing)
		case msg.DomainState.Terminal:
			d.stateLabel = "terminal"
		case msg.DomainState.Error:
			d.stateLabel = "error"
		}

	case msg.CandidateEvalReport != nil:
		if msg.CandidateEvalReport.ObjFuncVal != nil {
			d.recentValues = append(d.recentValues, *msg.CandidateEvalReport.ObjFuncVal)
			if len(d.recentValues) > 120 {
				d.recentValues = d.recentValues[len(d.recentValues)-120:]
			}
		}
	}
}

func (d *dashboard) applyProcessingState(state domain.ProcessingState) {
	d.elapsedSeconds = state.Time
	rows := [][]string{{"objective", "candidate"}}
	for _, entry := range state.BestSeen {
		rows = append(rows, []string{
			fmt.Sprintf("%.6g", entry.ObjFuncVal),
			entry.Candidate.String(),
		})
	}
	d.best.Rows = rows
}

func (d *dashboard) render() {
	d.header.Text = fmt.Sprintf("state: %s  elapsed: %.1fs", d.stateLabel, d.elapsedSeconds)
	if len(d.recentValues) > 0 {
		d.spark.Sparklines[0].Data = d.recentValues
	}
	termui.Render(d.grid)
}
