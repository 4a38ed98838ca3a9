package editor

// Confirmation is a staged destructive action. The operation that produced it
// has not happened yet; the caller presents the prompt through whatever
// affordance it owns and calls Accept to apply or drops the value to decline.
type Confirmation struct {
	prompt   string
	apply    func()
	accepted bool
}

// Prompt is the human-readable question to present.
func (c *Confirmation) Prompt() string {
	return c.prompt
}

// Accept applies the staged action. Accepting twice is a no-op.
func (c *Confirmation) Accept() {
	if c == nil || c.accepted || c.apply == nil {
		return
	}
	c.accepted = true
	c.apply()
}
