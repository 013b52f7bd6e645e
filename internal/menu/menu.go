package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"mediadl/internal/contracts"
	"mediadl/internal/domain/consts"
	"mediadl/internal/ledger"
	"mediadl/internal/models"
	"mediadl/internal/state"
	"mediadl/internal/utils/logging"
	"mediadl/internal/utils/prompt"
)

const clearScreen = "\033[H\033[2J"

// Deps are the collaborators the menu drives.
type Deps struct {
	Prompter *prompt.Prompter
	Threads  *state.ThreadSetting
	Ledger   *ledger.Ledger
	Runner   contracts.JobRunner
	Resolver contracts.PlaylistResolver

	// DefaultDir is offered when asking for the output directory.
	DefaultDir string

	// Interactive enables screen clearing and the banner.
	Interactive bool
}

// Machine is the menu state machine.
type Machine struct {
	d     Deps
	out   io.Writer
	state State

	// Remembered between CollectingURLs and RunningJobs
	choice downloadChoice
	urls   []string
	outDir string
}

// New returns a machine positioned at the main menu.
func New(d Deps) *Machine {
	return &Machine{
		d:     d,
		out:   d.Prompter.Out(),
		state: MainMenu,
	}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Run steps the machine until it exits. Input EOF and cancellation of ctx both exit cleanly.
func (m *Machine) Run(ctx context.Context) error {
	for m.state != Exit {
		m.state = m.Step(ctx)
	}
	fmt.Fprintln(m.out, "Exiting...")
	return nil
}

// Step runs the current state's screen and returns the next state.
func (m *Machine) Step(ctx context.Context) State {
	if ctx.Err() != nil {
		return Exit
	}
	logging.D(3, "Menu entering state %q", m.state)

	switch m.state {
	case MainMenu:
		return m.mainMenu(ctx)
	case CollectingURLs:
		return m.collectURLs(ctx)
	case RunningJobs:
		return m.runJobs(ctx)
	case ResumeMenu:
		return m.resumeMenu(ctx)
	case ThreadSettingsMenu:
		return m.threadSettings(ctx)
	case Help:
		return m.help()
	case ContinuePrompt:
		return m.continuePrompt(ctx)
	default:
		return Exit
	}
}

// ask wraps the prompter. ok is false on EOF or cancellation.
func (m *Machine) ask(ctx context.Context, msg string) (answer string, ok bool) {
	answer, err := m.d.Prompter.Ask(ctx, msg)
	switch {
	case err == nil:
		return answer, true
	case errors.Is(err, io.EOF), errors.Is(err, prompt.ErrCancelled):
		return "", false
	default:
		logging.E("Reading input failed: %v", err)
		return "", false
	}
}

// banner clears the screen and prints the banner in interactive sessions.
func (m *Machine) banner() {
	if !m.d.Interactive {
		fmt.Fprintln(m.out)
		return
	}
	fmt.Fprint(m.out, clearScreen)
	fmt.Fprintf(m.out, "\n====================================\n   %s\n   %s\n====================================\n\n",
		consts.ProgramBanner, consts.ProgramTagline)
}

func (m *Machine) heading(title string) {
	m.banner()
	fmt.Fprintf(m.out, "=== %s ===\n\n", title)
}

// mainMenu shows the numbered options and reads a choice.
func (m *Machine) mainMenu(ctx context.Context) State {
	m.banner()

	var b strings.Builder
	for _, opt := range []int{OptVideoAudio, OptAudio, OptVideoOnly, OptVideoAudioPlaylist, OptAudioPlaylist, OptVideoOnlyPlaylist} {
		c := downloadOptions[opt]
		fmt.Fprintf(&b, "    [%d] %s\n", opt, c.mode.Heading(c.playlist))
	}
	fmt.Fprintf(&b, "    [%d] Resume Failed Downloads\n", OptResume)
	fmt.Fprintf(&b, "    [%d] Download-Thread Settings\n", OptThreads)
	fmt.Fprintf(&b, "    [%d] Help\n", OptHelp)
	fmt.Fprintf(&b, "    [%d] Exit\n\n", OptExit)
	fmt.Fprint(m.out, b.String())

	in, ok := m.ask(ctx, consts.ProgramBanner+"~$ ")
	if !ok {
		return Exit
	}

	opt, err := strconv.Atoi(in)
	if err != nil {
		fmt.Fprintln(m.out, "Invalid input. Please enter a number.")
		return MainMenu
	}

	next, valid := nextFromMain(opt)
	if !valid {
		fmt.Fprintln(m.out, "Invalid option. Try again.")
		return MainMenu
	}
	if c, isDownload := downloadOptions[opt]; isDownload {
		m.choice = c
	}
	return next
}

// continuePrompt asks whether to return to the main menu.
func (m *Machine) continuePrompt(ctx context.Context) State {
	in, ok := m.ask(ctx, "\nContinue? [Y/n] -> ")
	if !ok || strings.HasPrefix(strings.ToLower(in), "n") {
		return Exit
	}
	return MainMenu
}

// modeLabel is the label of the remembered download choice.
func (m *Machine) modeLabel() string {
	return m.choice.mode.Label(m.choice.playlist)
}

// currentJobsLabel is used in completion messages.
func (m *Machine) currentJobsLabel(results []models.JobResult) string {
	if len(results) == 1 {
		return m.modeLabel() + " download"
	}
	return m.modeLabel() + " downloads"
}
