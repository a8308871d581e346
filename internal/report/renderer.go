// Package report turns a tick's Report into text and delivers it.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hamed0406/healthmon/internal/domain"
)

const (
	timeLayout = "2006-01-02 15:04:05"
	ruleWidth  = 70
)

var rule = strings.Repeat("=", ruleWidth)

// Renderer formats reports. Output depends only on the Report, so rendering
// the same Report twice gives the same text.
type Renderer struct {
	st styles
}

// NewRenderer decorates for w: a terminal gets colors, anything else plain text.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{st: newStyles(lipgloss.NewRenderer(w))}
}

// Plain returns a Renderer that never emits escape codes.
func Plain() *Renderer {
	return NewRenderer(io.Discard)
}

func (r *Renderer) Render(rep domain.Report) string {
	var b strings.Builder
	if eps := rep.Endpoints(); len(eps) > 0 {
		r.endpoints(&b, rep, eps)
	}
	if rep.HasHost() {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		r.system(&b, rep)
	}
	return b.String()
}

func (r *Renderer) endpoints(b *strings.Builder, rep domain.Report, eps []domain.Verdict) {
	line(b, rule)
	line(b, r.st.banner.Render("APPLICATION HEALTH CHECK REPORT"))
	line(b, rule)
	for _, v := range eps {
		b.WriteString("\n")
		r.endpoint(b, v)
	}
	b.WriteString("\n")
	sum := rep.Summary()
	line(b, rule)
	line(b, fmt.Sprintf("SUMMARY: %d UP | %d DOWN | Total: %d", sum.Up, sum.Down, sum.Total))
	line(b, rule)
}

func (r *Renderer) endpoint(b *strings.Builder, v domain.Verdict) {
	style, mark := r.st.down, "✗"
	switch v.Status {
	case domain.StatusUp:
		style, mark = r.st.up, "✓"
	case domain.StatusUnknown:
		style = r.st.unknown
	}
	line(b, style.Render(fmt.Sprintf("[%s] %s", mark, v.Target)))
	line(b, "    Status: "+v.Status.String())
	line(b, "    HTTP Code: "+v.Code)
	line(b, "    Message: "+v.Message)
	line(b, "    Checked at: "+v.CheckedAt.Format(timeLayout))
}

func (r *Renderer) system(b *strings.Builder, rep domain.Report) {
	line(b, rule)
	line(b, r.st.banner.Render("SYSTEM HEALTH MONITORING REPORT"))
	line(b, "Timestamp: "+rep.Timestamp.Format(timeLayout))
	line(b, rule)
	b.WriteString("\n")

	line(b, "SYSTEM METRICS:")
	for _, v := range rep.Resources() {
		label := fmt.Sprintf("%-14s", metricLabel(v.Kind)+":")
		value := v.Code + "%"
		switch {
		case v.Status == domain.StatusUnknown:
			value = domain.RawUnavailable + " " + r.st.dim.Render("("+v.Message+")")
		case v.Estimated:
			value += " " + r.st.dim.Render("(estimated)")
		}
		line(b, "  "+label+value)
	}
	b.WriteString("\n")

	if len(rep.Processes) > 0 {
		line(b, "TOP CPU-CONSUMING PROCESSES:")
		line(b, fmt.Sprintf("  %-8s %-6s %-6s %-10s %s", "PID", "CPU%", "MEM%", "USER", "COMMAND"))
		line(b, "  "+strings.Repeat("-", 60))
		for _, p := range rep.Processes {
			line(b, fmt.Sprintf("  %-8d %-6.1f %-6.1f %-10s %s", p.PID, p.CPU, p.Mem, p.User, p.Command))
		}
		b.WriteString("\n")
	}

	if len(rep.Alerts) > 0 {
		line(b, r.st.alert.Render("⚠ ALERTS:"))
		for _, a := range rep.Alerts {
			line(b, "  "+r.st.alert.Render("✗ "+a))
		}
	} else {
		line(b, r.st.ok.Render("✓ No alerts - All metrics within thresholds"))
	}
	line(b, rule)
}

func metricLabel(k domain.Kind) string {
	switch k {
	case domain.KindCPU:
		return "CPU Usage"
	case domain.KindMemory:
		return "Memory Usage"
	case domain.KindDisk:
		return "Disk Usage"
	}
	return string(k)
}

func line(b *strings.Builder, s string) {
	b.WriteString(s)
	b.WriteString("\n")
}
