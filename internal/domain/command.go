package domain

// CommandType classifies what the user wants to do.
type CommandType int

const (
	CommandUnknown CommandType = iota
	CommandToggle
	CommandSelectRecipe
	CommandSelectVariation
	CommandClearVariation
	CommandNextRecipe
	CommandPrevRecipe
	CommandReset
	CommandStatus
	CommandList
	CommandHelp
	CommandQuit
)

// String returns a human-readable command type.
func (c CommandType) String() string {
	switch c {
	case CommandToggle:
		return "toggle"
	case CommandSelectRecipe:
		return "select_recipe"
	case CommandSelectVariation:
		return "select_variation"
	case CommandClearVariation:
		return "clear_variation"
	case CommandNextRecipe:
		return "next_recipe"
	case CommandPrevRecipe:
		return "prev_recipe"
	case CommandReset:
		return "reset"
	case CommandStatus:
		return "status"
	case CommandList:
		return "list"
	case CommandHelp:
		return "help"
	case CommandQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Command is a parsed user action. Index is 0-based and only meaningful
// for toggle and select_recipe; Payload carries free text such as a
// variation name.
type Command struct {
	Type    CommandType
	Index   int
	Payload string
}
