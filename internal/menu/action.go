package menu

import (
	"errors"
	"fmt"
	"strings"
)

// ActionKind classifies an action attribute value.
type ActionKind int

const (
	// ActionShell runs the value as a shell command.
	ActionShell ActionKind = iota
	// ActionQuit closes the control center.
	ActionQuit
	// ActionGoto moves focus to the group with the target id.
	ActionGoto
	// ActionPower asks the system to shut down, reboot or suspend.
	ActionPower
)

func (k ActionKind) String() string {
	switch k {
	case ActionQuit:
		return "quit"
	case ActionGoto:
		return "goto"
	case ActionPower:
		return "power"
	default:
		return "shell"
	}
}

// PowerVerb is a power management operation.
type PowerVerb string

const (
	PowerShutdown PowerVerb = "shutdown"
	PowerReboot   PowerVerb = "reboot"
	PowerSuspend  PowerVerb = "suspend"
)

// ValidPowerVerbs returns all supported power verbs.
func ValidPowerVerbs() []PowerVerb {
	return []PowerVerb{PowerShutdown, PowerReboot, PowerSuspend}
}

const (
	gotoPrefix  = "goto:"
	powerPrefix = "power:"
)

var (
	ErrEmptyAction      = errors.New("action is empty")
	ErrMissingTarget    = errors.New("goto action has no target id")
	ErrUnknownPowerVerb = errors.New("unknown power action")
)

// Action is a parsed action attribute.
type Action struct {
	Kind    ActionKind
	Target  string    // group id for ActionGoto
	Power   PowerVerb // verb for ActionPower
	Command string    // command line for ActionShell
}

// ParseAction interprets an action attribute value.
func ParseAction(value string) (Action, error) {
	v := strings.TrimSpace(value)
	switch {
	case v == "":
		return Action{}, ErrEmptyAction
	case v == "quit" || v == "exit":
		return Action{Kind: ActionQuit}, nil
	case strings.HasPrefix(v, gotoPrefix):
		target := strings.TrimSpace(strings.TrimPrefix(v, gotoPrefix))
		if target == "" {
			return Action{}, ErrMissingTarget
		}
		return Action{Kind: ActionGoto, Target: target}, nil
	case strings.HasPrefix(v, powerPrefix):
		verb := PowerVerb(strings.TrimSpace(strings.TrimPrefix(v, powerPrefix)))
		for _, valid := range ValidPowerVerbs() {
			if verb == valid {
				return Action{Kind: ActionPower, Power: verb}, nil
			}
		}
		return Action{}, fmt.Errorf("%w %q, must be one of: %v", ErrUnknownPowerVerb, verb, ValidPowerVerbs())
	default:
		return Action{Kind: ActionShell, Command: v}, nil
	}
}

// NeedsConfirmation reports whether the action should be confirmed before it
// runs when power confirmation is enabled.
func (a Action) NeedsConfirmation() bool {
	return a.Kind == ActionPower
}

func (a Action) String() string {
	switch a.Kind {
	case ActionQuit:
		return "quit"
	case ActionGoto:
		return gotoPrefix + a.Target
	case ActionPower:
		return powerPrefix + string(a.Power)
	default:
		return a.Command
	}
}
