package command

import (
	"context"

	"github.com/tbxark/formstepper/types"
)

type Command string

const (
	Start     Command = "start"
	Help      Command = "help"
	Next      Command = "next"
	Back      Command = "back"
	Cancel    Command = "cancel"
	Edit      Command = "edit"
	DoNothing Command = "do_nothing"
)

type Parser interface {
	ParseCommand(ctx context.Context, req *types.ToolRequest) (Command, error)
}
