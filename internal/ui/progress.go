package ui

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
)

// Phase is one stage of a generation batch
type Phase string

const (
	PhaseLoading   Phase = "Loading"
	PhaseGrouping  Phase = "Grouping"
	PhaseRendering Phase = "Rendering"
	PhaseWriting   Phase = "Writing"
)

// GeneratePhases is the phase order of the generate command
var GeneratePhases = []Phase{PhaseLoading, PhaseGrouping, PhaseRendering, PhaseWriting}

// ProgressBar is the bar of a single phase. Safe for concurrent use.
type ProgressBar struct {
	bar   *progressbar.ProgressBar
	phase Phase
}

func newProgressBar(phase Phase, total int, output io.Writer) *ProgressBar {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(output),
		progressbar.OptionSetDescription(fmt.Sprintf("[%s]", phase)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionEnableColorCodes(true),
	)
	return &ProgressBar{bar: bar, phase: phase}
}

// Increment advances the bar by one group or file
func (pb *ProgressBar) Increment() error {
	return pb.bar.Add(1)
}

// Describe shows the group or file being handled after the phase name
func (pb *ProgressBar) Describe(item string) {
	pb.bar.Describe(fmt.Sprintf("[%s] %s", pb.phase, item))
}

func (pb *ProgressBar) Finish() error {
	return pb.bar.Finish()
}

// Pipeline runs one bar per phase, in order
type Pipeline struct {
	phases   []Phase
	current  int
	bars     []*ProgressBar
	disabled bool
	output   io.Writer
}

// NewPipeline creates a pipeline drawing to output
func NewPipeline(phases []Phase, output io.Writer) *Pipeline {
	return &Pipeline{
		phases:  phases,
		current: -1,
		bars:    make([]*ProgressBar, 0, len(phases)),
		output:  output,
	}
}

// Disable hides the bars and the summary
func (p *Pipeline) Disable() {
	p.disabled = true
}

// NextPhase finishes the running bar and starts the next phase's bar.
// It returns nil once every phase has run.
func (p *Pipeline) NextPhase(total int) *ProgressBar {
	p.Finish()

	p.current++
	if p.current >= len(p.phases) {
		return nil
	}

	if p.disabled {
		return &ProgressBar{
			bar:   progressbar.NewOptions(-1, progressbar.OptionSetWriter(io.Discard)),
			phase: p.phases[p.current],
		}
	}

	bar := newProgressBar(p.phases[p.current], total, p.output)
	p.bars = append(p.bars, bar)
	return bar
}

// Finish completes the running phase
func (p *Pipeline) Finish() {
	if p.current >= 0 && p.current < len(p.bars) {
		p.bars[p.current].Finish()
	}
}

// PrintSummary prints a closing line below the bars
func (p *Pipeline) PrintSummary(message string) {
	if !p.disabled {
		fmt.Fprintln(p.output, message)
	}
}
