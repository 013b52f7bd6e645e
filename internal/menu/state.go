// Package menu implements the interactive numbered menu as an explicit state machine.
package menu

import "mediadl/internal/models"

// State is one screen of the interactive menu.
type State int

// Menu states.
const (
	MainMenu State = iota
	CollectingURLs
	RunningJobs
	ResumeMenu
	ThreadSettingsMenu
	Help
	ContinuePrompt
	Exit
)

func (s State) String() string {
	switch s {
	case MainMenu:
		return "main menu"
	case CollectingURLs:
		return "collecting URLs"
	case RunningJobs:
		return "running jobs"
	case ResumeMenu:
		return "resume menu"
	case ThreadSettingsMenu:
		return "thread settings"
	case Help:
		return "help"
	case ContinuePrompt:
		return "continue prompt"
	case Exit:
		return "exit"
	default:
		return "unknown"
	}
}

// Main menu options.
const (
	OptVideoAudio         = 1
	OptAudio              = 2
	OptVideoOnly          = 3
	OptVideoAudioPlaylist = 4
	OptAudioPlaylist      = 5
	OptVideoOnlyPlaylist  = 6
	OptResume             = 7
	OptThreads            = 8
	OptHelp               = 9
	OptExit               = 10
)

// downloadChoice is the mode and playlist flag picked from the main menu.
type downloadChoice struct {
	mode     models.Mode
	playlist bool
}

var downloadOptions = map[int]downloadChoice{
	OptVideoAudio:         {mode: models.ModeVideoAudio},
	OptAudio:              {mode: models.ModeAudio},
	OptVideoOnly:          {mode: models.ModeVideoOnly},
	OptVideoAudioPlaylist: {mode: models.ModeVideoAudio, playlist: true},
	OptAudioPlaylist:      {mode: models.ModeAudio, playlist: true},
	OptVideoOnlyPlaylist:  {mode: models.ModeVideoOnly, playlist: true},
}

// nextFromMain returns the state selected by main menu option opt.
func nextFromMain(opt int) (State, bool) {
	if _, ok := downloadOptions[opt]; ok {
		return CollectingURLs, true
	}
	switch opt {
	case OptResume:
		return ResumeMenu, true
	case OptThreads:
		return ThreadSettingsMenu, true
	case OptHelp:
		return Help, true
	case OptExit:
		return Exit, true
	}
	return MainMenu, false
}
