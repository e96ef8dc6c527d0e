package main

import (
	"fmt"

	"github.com/fedsearch/fedreg"
)

// Run executes the chat command.
func (c *ChatCmd) Run(deps *Dependencies) error {
	resp := deps.Agent.Handle(deps.Ctx, fedreg.Query{
		Text:           c.Message,
		ConversationID: c.ChatID,
	})

	fmt.Fprintln(deps.Stdout, resp.Text)
	return nil
}
